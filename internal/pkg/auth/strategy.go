package auth

import "time"

// Strategy issues and verifies session tokens bound to an account number.
type Strategy interface {
	IssueToken(account string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

type Options struct {
	TTL    time.Duration
	Issuer string
}
