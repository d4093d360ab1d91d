package usecase

import (
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/buxiq/internal/domain/errors"
)

// ParsePoints reads a user-entered point amount. Only non-negative
// integer values are accepted.
func ParsePoints(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domainErrors.ErrInvalidAmount
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, domainErrors.ErrInvalidAmount
	}
	if d.IsNegative() || !d.IsInteger() || !d.BigInt().IsInt64() {
		return 0, domainErrors.ErrInvalidAmount
	}
	return d.IntPart(), nil
}
