package usecase

import (
	"context"

	"github.com/polkiloo/buxiq/internal/domain/model"
)

// Notifier delivers user-facing messages to connected dashboards.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}

// Recorder collects outcome counters.
type Recorder interface {
	ObserveLogin(result string)
	ObserveCashout(result string, points int64)
	ObservePenalty(points float64)
}

// Login outcomes reported to Recorder.
const (
	LoginSuccess            = "success"
	LoginInvalidCaptcha     = "invalid_captcha"
	LoginInvalidCredentials = "invalid_credentials"
	LoginBlocked            = "blocked"
	LoginNetworkError       = "network_error"
)

// Cashout outcomes reported to Recorder.
const (
	CashoutSuccess  = "success"
	CashoutRejected = "rejected"
	CashoutFailed   = "postback_failed"
)

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, model.Notification) {}

type nopRecorder struct{}

func (nopRecorder) ObserveLogin(string)          {}
func (nopRecorder) ObserveCashout(string, int64) {}
func (nopRecorder) ObservePenalty(float64)       {}
