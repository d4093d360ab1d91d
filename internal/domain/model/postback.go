package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Postback actions understood by the remote script.
const (
	ActionCashout        = "cashout"
	ActionUpdateBalance  = "updateBalance"
	ActionOfferwallClick = "offerwallClick"
)

// PostbackRequest is an action submitted to the remote script endpoint.
type PostbackRequest struct {
	Action        string
	Account       string
	Amount        int64
	Balance       *decimal.Decimal
	RewardType    RewardType
	Email         string
	WalletAddress string
	RequestID     string
	Timestamp     time.Time
}

// PostbackResult is the decoded answer of the remote script.
type PostbackResult struct {
	Success bool
	Message string
	// ConfirmedBalance is set when the remote store reports the authoritative balance.
	ConfirmedBalance *decimal.Decimal
}
