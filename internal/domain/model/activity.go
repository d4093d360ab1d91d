package model

import "github.com/shopspring/decimal"

// ActivityEntry is a payout line from the public activity sheet.
type ActivityEntry struct {
	Username string
	Amount   decimal.Decimal
}
