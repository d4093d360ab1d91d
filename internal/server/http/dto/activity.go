package dto

// ActivityEntry is a payout line formatted for display.
type ActivityEntry struct {
	Username string `json:"username"`
	Amount   string `json:"amount"`
}
