package test

import (
	"context"
	"sync"

	"github.com/polkiloo/buxiq/internal/domain/model"
)

// PostbackStub records submitted actions.
type PostbackStub struct {
	mu       sync.Mutex
	Requests []model.PostbackRequest
	SubmitFn func(context.Context, model.PostbackRequest) (*model.PostbackResult, error)
}

// Submit records request and delegates to override, succeeding by default.
func (s *PostbackStub) Submit(ctx context.Context, req model.PostbackRequest) (*model.PostbackResult, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	fn := s.SubmitFn
	s.mu.Unlock()
	if fn != nil {
		return fn(ctx, req)
	}
	return &model.PostbackResult{Success: true}, nil
}

// Actions lists recorded requests with the given action.
func (s *PostbackStub) Actions(action string) []model.PostbackRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.PostbackRequest
	for _, r := range s.Requests {
		if r.Action == action {
			out = append(out, r)
		}
	}
	return out
}

// CaptchaStub hands out codes from a sequence, repeating the last one.
type CaptchaStub struct {
	mu    sync.Mutex
	Codes []string
	next  int
}

// Generate returns the next code.
func (s *CaptchaStub) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Codes) == 0 {
		return "12345"
	}
	i := s.next
	if i >= len(s.Codes) {
		i = len(s.Codes) - 1
	}
	s.next++
	return s.Codes[i]
}

// Issued reports how many codes were generated.
func (s *CaptchaStub) Issued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// NotifierStub collects notifications.
type NotifierStub struct {
	mu   sync.Mutex
	Sent []model.Notification
}

// Notify records notification.
func (s *NotifierStub) Notify(ctx context.Context, n model.Notification) {
	s.mu.Lock()
	s.Sent = append(s.Sent, n)
	s.mu.Unlock()
}

// Titles returns titles of sent notifications in order.
func (s *NotifierStub) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.Sent))
	for i, n := range s.Sent {
		out[i] = n.Title
	}
	return out
}

// RecorderStub counts observed outcomes.
type RecorderStub struct {
	mu       sync.Mutex
	Logins   map[string]int
	Cashouts map[string]int
	Penalty  float64
}

// ObserveLogin counts login outcome.
func (s *RecorderStub) ObserveLogin(result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Logins == nil {
		s.Logins = make(map[string]int)
	}
	s.Logins[result]++
}

// ObserveCashout counts cashout outcome.
func (s *RecorderStub) ObserveCashout(result string, points int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Cashouts == nil {
		s.Cashouts = make(map[string]int)
	}
	s.Cashouts[result]++
}

// ObservePenalty accumulates deducted points.
func (s *RecorderStub) ObservePenalty(points float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Penalty += points
}

// LoginCount returns count for a login outcome.
func (s *RecorderStub) LoginCount(result string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Logins[result]
}

// CashoutCount returns count for a cashout outcome.
func (s *RecorderStub) CashoutCount(result string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Cashouts[result]
}
