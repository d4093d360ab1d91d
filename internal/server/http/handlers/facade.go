package handlers

import (
	"context"

	"github.com/polkiloo/buxiq/internal/domain/model"
)

// SessionFacade describes session capabilities required by handlers.
type SessionFacade interface {
	Captcha() string
	RotateCaptcha() string
	Login(ctx context.Context, account, clientID, captcha string) (string, model.UserRecord, error)
	Logout(ctx context.Context)
	CurrentUser() (model.UserRecord, bool)
	Refresh(ctx context.Context) (model.UserRecord, error)
	ParseToken(token string) (string, error)
}

// CashoutFacade encapsulates redemption operations exposed via HTTP.
type CashoutFacade interface {
	Cashout(ctx context.Context, req model.CashoutRequest) (*model.CashoutReceipt, error)
	Cashouts(ctx context.Context) ([]model.Cashout, model.CashoutSummary, error)
	Rewards() []model.Reward
	MinCashoutPoints() int64
}

// OfferwallFacade provides the offerwall catalog and launcher.
type OfferwallFacade interface {
	Offerwalls() []model.Offerwall
	OpenOfferwall(ctx context.Context, id string) (model.OfferwallLaunch, error)
}

// ActivityFacade exposes the public payout feed.
type ActivityFacade interface {
	Activity(ctx context.Context, limit int) []model.ActivityEntry
}

// DashboardFacade aggregates the full set of operations used across handlers.
type DashboardFacade interface {
	SessionFacade
	CashoutFacade
	OfferwallFacade
	ActivityFacade
	Health(ctx context.Context) error
}
