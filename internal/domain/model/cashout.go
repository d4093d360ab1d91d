package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// PointsPerDollar is the fixed conversion rate.
	PointsPerDollar = 200
	// CashoutFeePoints is deducted from every cashout before conversion.
	CashoutFeePoints = 50
	// MinCashoutPoints is one dollar plus the fee.
	MinCashoutPoints = PointsPerDollar + CashoutFeePoints
)

// USDEquivalent converts points to the dollar payout after the fee.
func USDEquivalent(points decimal.Decimal) decimal.Decimal {
	return points.Sub(decimal.NewFromInt(CashoutFeePoints)).Div(decimal.NewFromInt(PointsPerDollar))
}

// CashoutRequest is the raw user input for a redemption.
type CashoutRequest struct {
	Amount        string
	RewardType    string
	Email         string
	WalletAddress string
}

// CashoutReceipt is returned after a successful redemption.
type CashoutReceipt struct {
	ID         string
	Account    string
	Points     int64
	USD        decimal.Decimal
	NewBalance decimal.Decimal
	RewardType RewardType
	Confirmed  bool
}

// Cashout is a ledger entry for a submitted redemption.
type Cashout struct {
	ID            string
	Account       string
	Points        int64
	USD           decimal.Decimal
	RewardType    RewardType
	Email         string
	WalletAddress string
	RequestedAt   time.Time
}

// CashoutSummary aggregates the ledger of one account.
type CashoutSummary struct {
	Count  int64
	Points int64
	USD    decimal.Decimal
}
