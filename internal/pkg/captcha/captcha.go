package captcha

import (
	"math/rand/v2"
	"strconv"
)

const (
	minCode = 10000
	maxCode = 99999
)

// Generator issues 5-digit numeric challenges.
type Generator interface {
	Generate() string
}

// RandomGenerator draws codes uniformly from [10000, 99999].
type RandomGenerator struct {
	intN func(n int) int
}

// NewRandomGenerator constructs generator backed by math/rand/v2.
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{intN: rand.IntN}
}

// Generate returns a fresh code.
func (g *RandomGenerator) Generate() string {
	return strconv.Itoa(minCode + g.intN(maxCode-minCode+1))
}
