package errors

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// Session errors.
	ErrInvalidCaptcha     = errors.New("invalid captcha")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account blocked")
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrNotAuthenticated   = errors.New("not authenticated")

	// Cashout errors.
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrBelowMinimum         = errors.New("amount below minimum cashout")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrRewardRequired       = errors.New("reward type required")
	ErrMissingWalletAddress = errors.New("wallet address required")
	ErrMissingEmail         = errors.New("email required")
	ErrPostbackFailed       = errors.New("postback failed")
	ErrCashoutInProgress    = errors.New("cashout already in progress")

	ErrUnknownOfferwall = errors.New("unknown offerwall")
)
