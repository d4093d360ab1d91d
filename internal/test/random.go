package test

import (
	"math/rand/v2"
	"strings"
)

const (
	digits       = "0123456789"
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ" + digits
)

// RandomASCIIString returns an alphanumeric string with length in [minLen, maxLen].
func RandomASCIIString(minLen, maxLen int) string {
	return randomFrom(alphanumeric, minLen, maxLen)
}

// RandomAccountNumber returns a numeric account identifier of the given length.
func RandomAccountNumber(length int) string {
	return randomFrom(digits, length, length)
}

func randomFrom(alphabet string, minLen, maxLen int) string {
	minLen = max(minLen, 1)
	maxLen = max(maxLen, minLen)
	n := minLen + rand.IntN(maxLen-minLen+1)

	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}
