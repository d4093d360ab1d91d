package captcha

import (
	"context"
	"strconv"
	"testing"

	"go.uber.org/fx"
)

func TestGenerateProducesFiveDigits(t *testing.T) {
	g := NewRandomGenerator()
	for i := 0; i < 1000; i++ {
		code := g.Generate()
		if len(code) != 5 {
			t.Fatalf("expected 5 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("expected numeric code, got %q", code)
		}
		if n < minCode || n > maxCode {
			t.Fatalf("code %d out of range", n)
		}
	}
}

func TestGenerateCoversBounds(t *testing.T) {
	low := &RandomGenerator{intN: func(int) int { return 0 }}
	if got := low.Generate(); got != "10000" {
		t.Fatalf("expected lower bound 10000, got %q", got)
	}
	high := &RandomGenerator{intN: func(n int) int { return n - 1 }}
	if got := high.Generate(); got != "99999" {
		t.Fatalf("expected upper bound 99999, got %q", got)
	}
}

func TestModuleProvidesGenerator(t *testing.T) {
	var g Generator
	app := fx.New(Module, fx.Populate(&g))
	t.Cleanup(func() { _ = app.Stop(context.Background()) })
	if err := app.Err(); err != nil {
		t.Fatalf("fx app failed: %v", err)
	}
	if g == nil {
		t.Fatal("expected generator")
	}
}
