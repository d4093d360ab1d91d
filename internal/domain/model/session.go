package model

import "github.com/shopspring/decimal"

// Session holds the single authenticated identity of the dashboard.
type Session struct {
	CurrentUser *UserRecord
	CaptchaCode string
	// PenaltyAppliedOn is the calendar day (YYYY-MM-DD) the click penalty last ran.
	PenaltyAppliedOn string
}

// LoggedIn reports whether an identity is established.
func (s Session) LoggedIn() bool {
	return s.CurrentUser != nil
}

// PenaltyOutcome describes a single evaluation of the daily click rule.
type PenaltyOutcome struct {
	Applied    bool
	Clicks     int
	Deducted   decimal.Decimal
	NewBalance decimal.Decimal
}
