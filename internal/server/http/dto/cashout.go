package dto

import (
	"bytes"
	"encoding/json"
	"time"
)

// Amount accepts both JSON numbers and strings so validation happens in the
// usecase instead of failing the bind.
type Amount string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		*a = Amount(data)
	}
	return nil
}

// CashoutRequest describes the cashout form.
type CashoutRequest struct {
	Amount        Amount `json:"amount"`
	RewardType    string `json:"rewardType"`
	Email         string `json:"email"`
	WalletAddress string `json:"walletAddress"`
}

// CashoutResponse is returned after a successful cashout.
type CashoutResponse struct {
	ID         string      `json:"id"`
	Points     int64       `json:"points"`
	USD        json.Number `json:"usd"`
	NewBalance json.Number `json:"newBalance"`
	RewardType string      `json:"rewardType"`
	Confirmed  bool        `json:"confirmed"`
}

// CashoutEntry is one line of the ledger history.
type CashoutEntry struct {
	ID            string      `json:"id"`
	Points        int64       `json:"points"`
	USD           json.Number `json:"usd"`
	RewardType    string      `json:"rewardType"`
	Email         string      `json:"email,omitempty"`
	WalletAddress string      `json:"walletAddress,omitempty"`
	RequestedAt   time.Time   `json:"requestedAt"`
}

// CashoutHistoryResponse lists the ledger with its totals.
type CashoutHistoryResponse struct {
	Count  int64          `json:"count"`
	Points int64          `json:"points"`
	USD    json.Number    `json:"usd"`
	Items  []CashoutEntry `json:"items"`
}

// RewardEntry describes a redemption target and its required field.
type RewardEntry struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Requires string `json:"requires"`
}

// RewardsResponse is the catalog together with the conversion rules.
type RewardsResponse struct {
	MinPoints       int64         `json:"minPoints"`
	PointsPerDollar int64         `json:"pointsPerDollar"`
	FeePoints       int64         `json:"feePoints"`
	Rewards         []RewardEntry `json:"rewards"`
}
