package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	testhelpers "github.com/polkiloo/buxiq/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for condition")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewSessionTickerDefaults(t *testing.T) {
	ticker := NewSessionTicker(&testhelpers.SessionFacadeStub{}, 0, -1, testLogger())
	if ticker.penaltyInterval != time.Hour {
		t.Fatalf("expected hourly penalty default, got %s", ticker.penaltyInterval)
	}
	if ticker.refreshInterval != 5*time.Minute {
		t.Fatalf("expected 5m refresh default, got %s", ticker.refreshInterval)
	}
}

func TestSessionTickerChecksPenaltyImmediately(t *testing.T) {
	facade := &testhelpers.SessionFacadeStub{LoggedIn: true}
	ticker := NewSessionTicker(facade, time.Hour, time.Hour, testLogger())

	ticker.Start(context.Background())
	waitFor(t, func() bool { return facade.PenaltyCalls() >= 1 })
	ticker.Stop()

	if facade.RefreshCalls() != 0 {
		t.Fatalf("expected no refresh before its interval, got %d", facade.RefreshCalls())
	}
}

func TestSessionTickerRunsBothJobs(t *testing.T) {
	facade := &testhelpers.SessionFacadeStub{LoggedIn: true}
	ticker := NewSessionTicker(facade, 10*time.Millisecond, 10*time.Millisecond, testLogger())

	ticker.Start(context.Background())
	waitFor(t, func() bool { return facade.PenaltyCalls() >= 2 && facade.RefreshCalls() >= 2 })
	ticker.Stop()
}

func TestSessionTickerIdleWithoutSession(t *testing.T) {
	facade := &testhelpers.SessionFacadeStub{}
	ticker := NewSessionTicker(facade, 5*time.Millisecond, 5*time.Millisecond, testLogger())

	ticker.Start(context.Background())
	time.Sleep(40 * time.Millisecond)
	ticker.Stop()

	if facade.PenaltyCalls() != 0 || facade.RefreshCalls() != 0 {
		t.Fatalf("expected no jobs without a session, got penalty=%d refresh=%d", facade.PenaltyCalls(), facade.RefreshCalls())
	}
}

func TestSessionTickerSurvivesPenaltyError(t *testing.T) {
	facade := &testhelpers.SessionFacadeStub{LoggedIn: true, PenaltyErr: errors.New("boom")}
	ticker := NewSessionTicker(facade, 5*time.Millisecond, time.Hour, testLogger())

	ticker.Start(context.Background())
	waitFor(t, func() bool { return facade.PenaltyCalls() >= 3 })
	ticker.Stop()
}

func TestSessionTickerStopsWithContext(t *testing.T) {
	facade := &testhelpers.SessionFacadeStub{LoggedIn: true}
	ticker := NewSessionTicker(facade, 5*time.Millisecond, 5*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	ticker.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		ticker.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop did not return after context cancellation")
	}
}

func TestSessionTickerStartIsIdempotent(t *testing.T) {
	facade := &testhelpers.SessionFacadeStub{LoggedIn: true}
	ticker := NewSessionTicker(facade, time.Hour, time.Hour, testLogger())

	ticker.Start(context.Background())
	ticker.Start(context.Background())
	waitFor(t, func() bool { return facade.PenaltyCalls() >= 1 })
	ticker.Stop()
	ticker.Stop()

	if facade.PenaltyCalls() != 1 {
		t.Fatalf("expected a single immediate penalty check, got %d", facade.PenaltyCalls())
	}
}
