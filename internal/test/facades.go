package test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/buxiq/internal/domain/errors"
	"github.com/polkiloo/buxiq/internal/domain/model"
)

// SessionFacadeStub mimics the session operations driven by the ticker.
type SessionFacadeStub struct {
	LoggedIn   bool
	PenaltyErr error

	penalties atomic.Int32
	refreshes atomic.Int32
}

// IsLoggedIn reports the configured session state.
func (s *SessionFacadeStub) IsLoggedIn() bool {
	return s.LoggedIn
}

// RefreshBalance counts invocations.
func (s *SessionFacadeStub) RefreshBalance(context.Context) {
	s.refreshes.Add(1)
}

// ApplyDailyClickPenalty counts invocations and returns PenaltyErr.
func (s *SessionFacadeStub) ApplyDailyClickPenalty(context.Context) (model.PenaltyOutcome, error) {
	s.penalties.Add(1)
	return model.PenaltyOutcome{}, s.PenaltyErr
}

// PenaltyCalls returns number of penalty evaluations.
func (s *SessionFacadeStub) PenaltyCalls() int {
	return int(s.penalties.Load())
}

// RefreshCalls returns number of balance refreshes.
func (s *SessionFacadeStub) RefreshCalls() int {
	return int(s.refreshes.Load())
}

// DashboardFacadeStub provides controllable behaviour for HTTP handlers.
type DashboardFacadeStub struct {
	mu sync.Mutex

	CaptchaCode string
	User        *model.UserRecord
	MinPoints   int64

	LoginFn         func(ctx context.Context, account, clientID, captcha string) (string, model.UserRecord, error)
	RefreshFn       func(ctx context.Context) (model.UserRecord, error)
	ParseFn         func(token string) (string, error)
	CashoutFn       func(ctx context.Context, req model.CashoutRequest) (*model.CashoutReceipt, error)
	CashoutsFn      func(ctx context.Context) ([]model.Cashout, model.CashoutSummary, error)
	OpenOfferwallFn func(ctx context.Context, id string) (model.OfferwallLaunch, error)
	ActivityFn      func(ctx context.Context, limit int) []model.ActivityEntry
	HealthErr       error
	Walls           []model.Offerwall

	LoggedOut int
	Rotations int
}

// Captcha returns the stored code.
func (s *DashboardFacadeStub) Captcha() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CaptchaCode == "" {
		s.CaptchaCode = "12345"
	}
	return s.CaptchaCode
}

// RotateCaptcha replaces the code with a predictable value.
func (s *DashboardFacadeStub) RotateCaptcha() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Rotations++
	s.CaptchaCode = "54321"
	return s.CaptchaCode
}

// Login delegates to LoginFn or establishes User.
func (s *DashboardFacadeStub) Login(ctx context.Context, account, clientID, captcha string) (string, model.UserRecord, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, account, clientID, captcha)
	}
	user := model.UserRecord{Account: account, ClientID: clientID, Status: "active", Balance: decimal.NewFromInt(1000), Level: 1}
	s.mu.Lock()
	s.User = &user
	s.mu.Unlock()
	return "token:" + account, user, nil
}

// Logout drops the session.
func (s *DashboardFacadeStub) Logout(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LoggedOut++
	s.User = nil
}

// CurrentUser returns User when set.
func (s *DashboardFacadeStub) CurrentUser() (model.UserRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.User == nil {
		return model.UserRecord{}, false
	}
	return *s.User, true
}

// Refresh delegates to RefreshFn or returns User.
func (s *DashboardFacadeStub) Refresh(ctx context.Context) (model.UserRecord, error) {
	if s.RefreshFn != nil {
		return s.RefreshFn(ctx)
	}
	user, ok := s.CurrentUser()
	if !ok {
		return model.UserRecord{}, domainErrors.ErrNotAuthenticated
	}
	return user, nil
}

// ParseToken accepts tokens shaped "token:<account>".
func (s *DashboardFacadeStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return StrategyStub{}.ParseToken(token)
}

// Cashout delegates to CashoutFn or returns a fixed receipt.
func (s *DashboardFacadeStub) Cashout(ctx context.Context, req model.CashoutRequest) (*model.CashoutReceipt, error) {
	if s.CashoutFn != nil {
		return s.CashoutFn(ctx, req)
	}
	return &model.CashoutReceipt{
		ID:         "cashout-1",
		Points:     300,
		USD:        decimal.RequireFromString("1.25"),
		NewBalance: decimal.NewFromInt(700),
		RewardType: model.RewardType(req.RewardType),
	}, nil
}

// Cashouts delegates to CashoutsFn or returns an empty ledger.
func (s *DashboardFacadeStub) Cashouts(ctx context.Context) ([]model.Cashout, model.CashoutSummary, error) {
	if s.CashoutsFn != nil {
		return s.CashoutsFn(ctx)
	}
	return nil, model.CashoutSummary{USD: decimal.Zero}, nil
}

// Rewards returns the real catalog.
func (s *DashboardFacadeStub) Rewards() []model.Reward {
	return model.Rewards()
}

// MinCashoutPoints returns MinPoints or the default threshold.
func (s *DashboardFacadeStub) MinCashoutPoints() int64 {
	if s.MinPoints > 0 {
		return s.MinPoints
	}
	return model.MinCashoutPoints
}

// Offerwalls returns Walls.
func (s *DashboardFacadeStub) Offerwalls() []model.Offerwall {
	return s.Walls
}

// OpenOfferwall delegates to OpenOfferwallFn or builds a dummy launch.
func (s *DashboardFacadeStub) OpenOfferwall(ctx context.Context, id string) (model.OfferwallLaunch, error) {
	if s.OpenOfferwallFn != nil {
		return s.OpenOfferwallFn(ctx, id)
	}
	return model.OfferwallLaunch{Kind: model.LaunchURL, URL: "https://wall.test/" + id}, nil
}

// Activity delegates to ActivityFn or returns nothing.
func (s *DashboardFacadeStub) Activity(ctx context.Context, limit int) []model.ActivityEntry {
	if s.ActivityFn != nil {
		return s.ActivityFn(ctx, limit)
	}
	return []model.ActivityEntry{}
}

// Health returns HealthErr.
func (s *DashboardFacadeStub) Health(context.Context) error {
	return s.HealthErr
}
