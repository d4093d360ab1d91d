package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const statusBlocked = "blocked"

// UserRecord is one row of the remote user table.
type UserRecord struct {
	Account              string
	ClientID             string
	Status               string
	Balance              decimal.Decimal
	Username             string
	Avatar               string
	Level                int
	Promo                string
	Email                string
	LastOfferwallClick   time.Time
	OfferwallClicksToday int
}

// Blocked reports whether the status column disables login.
func (u UserRecord) Blocked() bool {
	return strings.EqualFold(strings.TrimSpace(u.Status), statusBlocked)
}

// DisplayName is the identifier substituted into offerwall URLs.
func (u UserRecord) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Account
}
