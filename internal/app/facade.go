package app

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	domainErrors "github.com/polkiloo/buxiq/internal/domain/errors"
	"github.com/polkiloo/buxiq/internal/domain/model"
	pkgAuth "github.com/polkiloo/buxiq/internal/pkg/auth"
	"github.com/polkiloo/buxiq/internal/usecase"
)

// HealthChecker reports availability of the ledger store.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// DashboardFacadeParams groups dependencies of DashboardFacade.
type DashboardFacadeParams struct {
	fx.In

	Sessions   *usecase.SessionManager
	Cashouts   *usecase.CashoutProcessor
	Offerwalls *usecase.OfferwallUseCase
	Activity   *usecase.ActivityUseCase
	Tokens     pkgAuth.Strategy
	Health     HealthChecker `optional:"true"`
}

// DashboardFacade joins the use cases behind the HTTP handlers and the ticker.
type DashboardFacade struct {
	sessions   *usecase.SessionManager
	cashouts   *usecase.CashoutProcessor
	offerwalls *usecase.OfferwallUseCase
	activity   *usecase.ActivityUseCase
	tokens     pkgAuth.Strategy
	health     HealthChecker
}

func NewDashboardFacade(p DashboardFacadeParams) *DashboardFacade {
	return &DashboardFacade{
		sessions:   p.Sessions,
		cashouts:   p.Cashouts,
		offerwalls: p.Offerwalls,
		activity:   p.Activity,
		tokens:     p.Tokens,
		health:     p.Health,
	}
}

func (f *DashboardFacade) Captcha() string {
	return f.sessions.Captcha()
}

func (f *DashboardFacade) RotateCaptcha() string {
	return f.sessions.GenerateCaptcha()
}

// Login establishes the session and issues a token bound to the account.
func (f *DashboardFacade) Login(ctx context.Context, account, clientID, captcha string) (string, model.UserRecord, error) {
	user, err := f.sessions.Login(ctx, account, clientID, captcha)
	if err != nil {
		return "", model.UserRecord{}, err
	}
	token, err := f.tokens.IssueToken(user.Account)
	if err != nil {
		return "", model.UserRecord{}, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

func (f *DashboardFacade) Logout(ctx context.Context) {
	f.sessions.Logout(ctx)
}

func (f *DashboardFacade) CurrentUser() (model.UserRecord, bool) {
	return f.sessions.CurrentUser()
}

func (f *DashboardFacade) IsLoggedIn() bool {
	return f.sessions.IsLoggedIn()
}

func (f *DashboardFacade) RestoreSession(ctx context.Context) (model.UserRecord, bool) {
	return f.sessions.RestoreSession(ctx)
}

func (f *DashboardFacade) RefreshBalance(ctx context.Context) {
	f.sessions.RefreshBalance(ctx)
}

// Refresh reloads the balance and returns the resulting user. Remote failures keep the cached values.
func (f *DashboardFacade) Refresh(ctx context.Context) (model.UserRecord, error) {
	if !f.sessions.IsLoggedIn() {
		return model.UserRecord{}, domainErrors.ErrNotAuthenticated
	}
	f.sessions.RefreshBalance(ctx)
	user, ok := f.sessions.CurrentUser()
	if !ok {
		return model.UserRecord{}, domainErrors.ErrNotAuthenticated
	}
	return user, nil
}

func (f *DashboardFacade) ApplyDailyClickPenalty(ctx context.Context) (model.PenaltyOutcome, error) {
	return f.sessions.ApplyDailyClickPenalty(ctx)
}

func (f *DashboardFacade) ParseToken(token string) (string, error) {
	return f.tokens.ParseToken(token)
}

func (f *DashboardFacade) Cashout(ctx context.Context, req model.CashoutRequest) (*model.CashoutReceipt, error) {
	return f.cashouts.RequestCashout(ctx, req)
}

// Cashouts returns the ledger of the logged-in user together with its totals.
func (f *DashboardFacade) Cashouts(ctx context.Context) ([]model.Cashout, model.CashoutSummary, error) {
	items, err := f.cashouts.History(ctx)
	if err != nil {
		return nil, model.CashoutSummary{}, err
	}
	summary, err := f.cashouts.Summary(ctx)
	if err != nil {
		return nil, model.CashoutSummary{}, err
	}
	return items, summary, nil
}

func (f *DashboardFacade) Rewards() []model.Reward {
	return model.Rewards()
}

func (f *DashboardFacade) MinCashoutPoints() int64 {
	return f.cashouts.MinPoints()
}

func (f *DashboardFacade) Offerwalls() []model.Offerwall {
	return f.offerwalls.List()
}

func (f *DashboardFacade) OpenOfferwall(ctx context.Context, id string) (model.OfferwallLaunch, error) {
	return f.offerwalls.Open(ctx, id)
}

func (f *DashboardFacade) Activity(ctx context.Context, limit int) []model.ActivityEntry {
	return f.activity.Recent(ctx, limit)
}

func (f *DashboardFacade) Health(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}
