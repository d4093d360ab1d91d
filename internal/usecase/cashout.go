package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/polkiloo/buxiq/internal/adapter/postback"
	"github.com/polkiloo/buxiq/internal/config"
	domainErrors "github.com/polkiloo/buxiq/internal/domain/errors"
	"github.com/polkiloo/buxiq/internal/domain/model"
	"github.com/polkiloo/buxiq/internal/domain/repository"
)

// CashoutProcessorParams groups dependencies of CashoutProcessor.
type CashoutProcessorParams struct {
	fx.In

	Sessions *SessionManager
	Postback postback.Client
	Cashouts repository.CashoutRepository
	Notifier Notifier `optional:"true"`
	Recorder Recorder `optional:"true"`
	Config   *config.Config
	Logger   *slog.Logger
}

// CashoutProcessor validates and submits point redemptions.
type CashoutProcessor struct {
	sessions  *SessionManager
	postback  postback.Client
	cashouts  repository.CashoutRepository
	notifier  Notifier
	recorder  Recorder
	logger    *slog.Logger
	timeout   time.Duration
	minPoints int64
	now       func() time.Time
	newID     func() string

	inFlight atomic.Bool
}

// NewCashoutProcessor constructs CashoutProcessor.
func NewCashoutProcessor(p CashoutProcessorParams) *CashoutProcessor {
	c := &CashoutProcessor{
		sessions:  p.Sessions,
		postback:  p.Postback,
		cashouts:  p.Cashouts,
		notifier:  p.Notifier,
		recorder:  p.Recorder,
		logger:    p.Logger,
		timeout:   defaultRemoteTimeout,
		minPoints: model.MinCashoutPoints,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	if c.recorder == nil {
		c.recorder = nopRecorder{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if p.Config != nil {
		if p.Config.RemoteTimeout > 0 {
			c.timeout = p.Config.RemoteTimeout
		}
		if p.Config.MinCashoutPoints > c.minPoints {
			c.minPoints = p.Config.MinCashoutPoints
		}
	}
	return c
}

// MinPoints returns the configured cashout threshold.
func (c *CashoutProcessor) MinPoints() int64 {
	return c.minPoints
}

// RequestCashout validates the request, submits it to the postback endpoint
// and reconciles the cached balance.
func (c *CashoutProcessor) RequestCashout(ctx context.Context, req model.CashoutRequest) (*model.CashoutReceipt, error) {
	user, ok := c.sessions.CurrentUser()
	if !ok {
		return nil, domainErrors.ErrNotAuthenticated
	}

	points, reward, err := c.validate(user, req)
	if err != nil {
		c.recorder.ObserveCashout(CashoutRejected, 0)
		return nil, err
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		c.recorder.ObserveCashout(CashoutRejected, 0)
		return nil, domainErrors.ErrCashoutInProgress
	}
	defer c.inFlight.Store(false)

	amount := decimal.NewFromInt(points)
	email, wallet := destination(reward, req)
	receipt := &model.CashoutReceipt{
		ID:         c.newID(),
		Account:    user.Account,
		Points:     points,
		USD:        model.USDEquivalent(amount),
		RewardType: reward.Type,
	}
	requestedAt := c.now()

	updated, err := c.sessions.Update(ctx, func(ctx context.Context, current *model.UserRecord) error {
		if current.Account != user.Account {
			return domainErrors.ErrNotAuthenticated
		}
		if amount.GreaterThan(current.Balance) {
			return domainErrors.ErrInsufficientBalance
		}

		result, err := c.submit(ctx, model.PostbackRequest{
			Action:        model.ActionCashout,
			Account:       current.Account,
			Amount:        points,
			RewardType:    reward.Type,
			Email:         email,
			WalletAddress: wallet,
			RequestID:     receipt.ID,
			Timestamp:     requestedAt,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", domainErrors.ErrPostbackFailed, err)
		}
		if !result.Success {
			return fmt.Errorf("%w: %s", domainErrors.ErrPostbackFailed, result.Message)
		}

		if result.ConfirmedBalance != nil {
			current.Balance = *result.ConfirmedBalance
			receipt.Confirmed = true
			return nil
		}

		current.Balance = current.Balance.Sub(amount)
		c.pushBalance(ctx, current.Account, current.Balance)
		return nil
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrPostbackFailed) {
			c.recorder.ObserveCashout(CashoutFailed, points)
			c.notifier.Notify(ctx, noticeCashoutFailed())
			c.logger.Error("cashout postback failed", slog.String("account", user.Account), slog.Int64("points", points), slog.Any("error", err))
		} else {
			c.recorder.ObserveCashout(CashoutRejected, points)
		}
		return nil, err
	}
	receipt.NewBalance = updated.Balance

	if err := c.cashouts.Create(ctx, model.Cashout{
		ID:            receipt.ID,
		Account:       receipt.Account,
		Points:        points,
		USD:           receipt.USD,
		RewardType:    reward.Type,
		Email:         email,
		WalletAddress: wallet,
		RequestedAt:   requestedAt,
	}); err != nil {
		c.logger.Error("failed to record cashout", slog.String("id", receipt.ID), slog.Any("error", err))
	}

	c.recorder.ObserveCashout(CashoutSuccess, points)
	c.notifier.Notify(ctx, noticeCashout(points, reward))
	c.logger.Info("cashout requested",
		slog.String("id", receipt.ID),
		slog.String("account", receipt.Account),
		slog.Int64("points", points),
		slog.String("reward", string(reward.Type)),
		slog.Bool("confirmed", receipt.Confirmed),
	)
	return receipt, nil
}

// History lists recorded cashouts of the logged-in user.
func (c *CashoutProcessor) History(ctx context.Context) ([]model.Cashout, error) {
	user, ok := c.sessions.CurrentUser()
	if !ok {
		return nil, domainErrors.ErrNotAuthenticated
	}
	return c.cashouts.ListByAccount(ctx, user.Account)
}

// Summary aggregates the ledger of the logged-in user.
func (c *CashoutProcessor) Summary(ctx context.Context) (model.CashoutSummary, error) {
	user, ok := c.sessions.CurrentUser()
	if !ok {
		return model.CashoutSummary{}, domainErrors.ErrNotAuthenticated
	}
	return c.cashouts.Summary(ctx, user.Account)
}

func (c *CashoutProcessor) validate(user model.UserRecord, req model.CashoutRequest) (int64, model.Reward, error) {
	points, err := ParsePoints(req.Amount)
	if err != nil {
		return 0, model.Reward{}, err
	}
	if points < c.minPoints {
		return 0, model.Reward{}, domainErrors.ErrBelowMinimum
	}
	if decimal.NewFromInt(points).GreaterThan(user.Balance) {
		return 0, model.Reward{}, domainErrors.ErrInsufficientBalance
	}
	reward, ok := model.LookupReward(req.RewardType)
	if !ok {
		return 0, model.Reward{}, domainErrors.ErrRewardRequired
	}
	switch reward.Delivery {
	case model.DeliveryWallet:
		if strings.TrimSpace(req.WalletAddress) == "" {
			return 0, model.Reward{}, domainErrors.ErrMissingWalletAddress
		}
	default:
		if strings.TrimSpace(req.Email) == "" {
			return 0, model.Reward{}, domainErrors.ErrMissingEmail
		}
	}
	return points, reward, nil
}

// destination keeps only the field the reward is delivered to.
func destination(reward model.Reward, req model.CashoutRequest) (email, wallet string) {
	if reward.Delivery == model.DeliveryWallet {
		return "", strings.TrimSpace(req.WalletAddress)
	}
	return strings.TrimSpace(req.Email), ""
}

func (c *CashoutProcessor) submit(ctx context.Context, req model.PostbackRequest) (*model.PostbackResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.postback.Submit(ctx, req)
}

func (c *CashoutProcessor) pushBalance(ctx context.Context, account string, balance decimal.Decimal) {
	result, err := c.submit(ctx, model.PostbackRequest{
		Action:    model.ActionUpdateBalance,
		Account:   account,
		Balance:   &balance,
		Timestamp: c.now(),
	})
	if err == nil && !result.Success {
		err = fmt.Errorf("rejected: %s", result.Message)
	}
	if err != nil {
		c.logger.Warn("remote balance update failed", slog.String("account", account), slog.Any("error", err))
	}
}
