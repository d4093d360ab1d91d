package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/polkiloo/buxiq/internal/adapter/postback"
	"github.com/polkiloo/buxiq/internal/config"
	domainErrors "github.com/polkiloo/buxiq/internal/domain/errors"
	"github.com/polkiloo/buxiq/internal/domain/model"
	"github.com/polkiloo/buxiq/internal/domain/repository"
	"github.com/polkiloo/buxiq/internal/pkg/captcha"
)

const (
	// RequiredDailyClicks is the number of offerwall visits expected per day.
	RequiredDailyClicks = 5
	// PenaltyPointsPerClick is deducted for every missing visit.
	PenaltyPointsPerClick = 75
	// PenaltyHour is the local hour from which the daily check may deduct.
	PenaltyHour = 23

	dayLayout            = "2006-01-02"
	defaultRemoteTimeout = 12 * time.Second
)

// SessionManagerParams groups dependencies of SessionManager.
type SessionManagerParams struct {
	fx.In

	Users    repository.UserTable
	Slot     repository.AccountSlot
	Captcha  captcha.Generator
	Postback postback.Client
	Notifier Notifier `optional:"true"`
	Recorder Recorder `optional:"true"`
	Config   *config.Config
	Logger   *slog.Logger
}

// SessionManager owns the single authenticated identity of the dashboard.
type SessionManager struct {
	users    repository.UserTable
	slot     repository.AccountSlot
	captcha  captcha.Generator
	postback postback.Client
	notifier Notifier
	recorder Recorder
	logger   *slog.Logger
	timeout  time.Duration
	now      func() time.Time

	mu         sync.RWMutex
	session    model.Session
	generation uint64

	// writeMu serializes balance mutations.
	writeMu sync.Mutex
}

// NewSessionManager constructs SessionManager with a freshly issued captcha.
func NewSessionManager(p SessionManagerParams) *SessionManager {
	m := &SessionManager{
		users:    p.Users,
		slot:     p.Slot,
		captcha:  p.Captcha,
		postback: p.Postback,
		notifier: p.Notifier,
		recorder: p.Recorder,
		logger:   p.Logger,
		timeout:  defaultRemoteTimeout,
		now:      time.Now,
	}
	if m.notifier == nil {
		m.notifier = nopNotifier{}
	}
	if m.recorder == nil {
		m.recorder = nopRecorder{}
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if p.Config != nil && p.Config.RemoteTimeout > 0 {
		m.timeout = p.Config.RemoteTimeout
	}
	m.session.CaptchaCode = m.captcha.Generate()
	return m
}

// GenerateCaptcha issues a new code and invalidates the previous one.
func (m *SessionManager) GenerateCaptcha() string {
	code := m.captcha.Generate()
	m.mu.Lock()
	m.session.CaptchaCode = code
	m.mu.Unlock()
	return code
}

// Captcha returns the outstanding code.
func (m *SessionManager) Captcha() string {
	m.mu.RLock()
	code := m.session.CaptchaCode
	m.mu.RUnlock()
	if code == "" {
		return m.GenerateCaptcha()
	}
	return code
}

// Current returns a snapshot of the session.
func (m *SessionManager) Current() model.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneSession(m.session)
}

// CurrentUser returns the logged-in user, if any.
func (m *SessionManager) CurrentUser() (model.UserRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session.CurrentUser == nil {
		return model.UserRecord{}, false
	}
	return *m.session.CurrentUser, true
}

// IsLoggedIn reports whether a session is established.
func (m *SessionManager) IsLoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.LoggedIn()
}

// RestoreSession re-establishes the persisted account. Failures are logged only.
func (m *SessionManager) RestoreSession(ctx context.Context) (model.UserRecord, bool) {
	account, err := m.slot.Load(ctx)
	if err != nil {
		if !errors.Is(err, domainErrors.ErrNotFound) {
			m.logger.Warn("failed to read persisted account", slog.Any("error", err))
		}
		return model.UserRecord{}, false
	}

	users, err := m.fetchUsers(ctx)
	if err != nil {
		m.logger.Warn("session restore failed", slog.String("account", account), slog.Any("error", err))
		return model.UserRecord{}, false
	}

	user, ok := findUser(users, func(u model.UserRecord) bool { return u.Account == account })
	if !ok {
		m.logger.Warn("persisted account not found", slog.String("account", account))
		return model.UserRecord{}, false
	}
	if user.Blocked() {
		m.logger.Warn("persisted account is blocked", slog.String("account", account))
		return model.UserRecord{}, false
	}

	m.establish(user)
	m.logger.Info("session restored", slog.String("account", account))
	return user, true
}

// Login verifies credentials against the remote user table.
func (m *SessionManager) Login(ctx context.Context, account, clientID, captchaInput string) (model.UserRecord, error) {
	account = strings.TrimSpace(account)
	clientID = strings.TrimSpace(clientID)
	captchaInput = strings.TrimSpace(captchaInput)

	m.mu.Lock()
	if captchaInput == "" || captchaInput != m.session.CaptchaCode {
		m.session.CaptchaCode = m.captcha.Generate()
		m.mu.Unlock()
		m.fail(ctx, LoginInvalidCaptcha, noticeInvalidCaptcha)
		return model.UserRecord{}, domainErrors.ErrInvalidCaptcha
	}
	m.mu.Unlock()

	users, err := m.fetchUsers(ctx)
	if err != nil {
		m.GenerateCaptcha()
		m.logger.Error("failed to load user table", slog.Any("error", err))
		m.fail(ctx, LoginNetworkError, noticeLoginError)
		return model.UserRecord{}, fmt.Errorf("%w: %v", domainErrors.ErrNetworkUnavailable, err)
	}

	user, ok := findUser(users, func(u model.UserRecord) bool {
		return u.Account == account && u.ClientID == clientID
	})
	if !ok {
		m.GenerateCaptcha()
		m.fail(ctx, LoginInvalidCredentials, noticeInvalidCredentials)
		return model.UserRecord{}, domainErrors.ErrInvalidCredentials
	}
	if user.Blocked() {
		m.fail(ctx, LoginBlocked, noticeAccountBlocked)
		return model.UserRecord{}, domainErrors.ErrAccountBlocked
	}

	m.establish(user)
	if err := m.slot.Save(ctx, user.Account); err != nil {
		m.logger.Error("failed to persist account", slog.String("account", user.Account), slog.Any("error", err))
	}
	m.recorder.ObserveLogin(LoginSuccess)
	m.notifier.Notify(ctx, noticeWelcome)
	m.logger.Info("user logged in", slog.String("account", user.Account))
	return user, nil
}

// Logout clears the session and the persisted account.
func (m *SessionManager) Logout(ctx context.Context) {
	code := m.captcha.Generate()

	m.mu.Lock()
	account := ""
	if m.session.CurrentUser != nil {
		account = m.session.CurrentUser.Account
	}
	m.generation++
	m.session = model.Session{CaptchaCode: code}
	m.mu.Unlock()

	if err := m.slot.Clear(ctx); err != nil {
		m.logger.Error("failed to clear persisted account", slog.Any("error", err))
	}
	m.notifier.Notify(ctx, noticeLoggedOut)
	m.logger.Info("user logged out", slog.String("account", account))
}

// RefreshBalance reloads the cached balance from the remote table. It keeps
// the last known values on any failure.
func (m *SessionManager) RefreshBalance(ctx context.Context) {
	if !m.IsLoggedIn() {
		return
	}
	_, err := m.mutate(ctx, func(ctx context.Context, s *model.Session) error {
		users, err := m.fetchUsers(ctx)
		if err != nil {
			return err
		}
		current := s.CurrentUser
		fresh, ok := findUser(users, func(u model.UserRecord) bool {
			return u.Account == current.Account && u.ClientID == current.ClientID
		})
		if !ok {
			return domainErrors.ErrNotFound
		}
		current.Balance = fresh.Balance
		if fresh.LastOfferwallClick.After(current.LastOfferwallClick) {
			current.LastOfferwallClick = fresh.LastOfferwallClick
			current.OfferwallClicksToday = fresh.OfferwallClicksToday
		}
		return nil
	})
	if err != nil && !errors.Is(err, domainErrors.ErrNotAuthenticated) {
		m.logger.Warn("balance refresh failed", slog.Any("error", err))
	}
}

// ApplyDailyClickPenalty enforces the daily offerwall requirement. It
// deducts at most once per calendar day.
func (m *SessionManager) ApplyDailyClickPenalty(ctx context.Context) (model.PenaltyOutcome, error) {
	var outcome model.PenaltyOutcome
	_, err := m.mutate(ctx, func(ctx context.Context, s *model.Session) error {
		now := m.now()
		user := s.CurrentUser
		if !sameDay(user.LastOfferwallClick, now) {
			user.OfferwallClicksToday = 0
		}
		outcome = model.PenaltyOutcome{Clicks: user.OfferwallClicksToday, NewBalance: user.Balance}

		today := now.Format(dayLayout)
		if now.Hour() < PenaltyHour || s.PenaltyAppliedOn == today || user.OfferwallClicksToday >= RequiredDailyClicks {
			return nil
		}

		penalty := decimal.NewFromInt(int64((RequiredDailyClicks - user.OfferwallClicksToday) * PenaltyPointsPerClick))
		newBalance := decimal.Max(user.Balance.Sub(penalty), decimal.Zero)
		outcome.Applied = true
		outcome.Deducted = user.Balance.Sub(newBalance)
		outcome.NewBalance = newBalance

		user.Balance = newBalance
		user.OfferwallClicksToday = 0
		s.PenaltyAppliedOn = today

		m.pushBalance(ctx, user.Account, newBalance)
		return nil
	})
	if err != nil {
		return model.PenaltyOutcome{}, err
	}
	if outcome.Applied {
		points, _ := outcome.Deducted.Float64()
		m.recorder.ObservePenalty(points)
		m.notifier.Notify(ctx, noticePenalty(outcome.Deducted, outcome.Clicks))
		m.logger.Info("daily click penalty applied",
			slog.Int("clicks", outcome.Clicks),
			slog.String("deducted", outcome.Deducted.String()),
			slog.String("balance", outcome.NewBalance.String()),
		)
	}
	return outcome, nil
}

// RecordOfferwallClick counts a visit towards the daily requirement.
func (m *SessionManager) RecordOfferwallClick(ctx context.Context) (model.UserRecord, error) {
	s, err := m.mutate(ctx, func(ctx context.Context, s *model.Session) error {
		now := m.now()
		user := s.CurrentUser
		if !sameDay(user.LastOfferwallClick, now) {
			user.OfferwallClicksToday = 0
		}
		user.OfferwallClicksToday++
		user.LastOfferwallClick = now

		m.submitBestEffort(ctx, model.PostbackRequest{
			Action:    model.ActionOfferwallClick,
			Account:   user.Account,
			Timestamp: now,
		})
		return nil
	})
	if err != nil {
		return model.UserRecord{}, err
	}
	return *s.CurrentUser, nil
}

// Update applies fn to the logged-in user under the single-writer lock and
// commits the result unless the session was replaced meanwhile.
func (m *SessionManager) Update(ctx context.Context, fn func(ctx context.Context, user *model.UserRecord) error) (model.UserRecord, error) {
	s, err := m.mutate(ctx, func(ctx context.Context, s *model.Session) error {
		return fn(ctx, s.CurrentUser)
	})
	if err != nil {
		return model.UserRecord{}, err
	}
	return *s.CurrentUser, nil
}

func (m *SessionManager) mutate(ctx context.Context, fn func(ctx context.Context, s *model.Session) error) (model.Session, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.RLock()
	if m.session.CurrentUser == nil {
		m.mu.RUnlock()
		return model.Session{}, domainErrors.ErrNotAuthenticated
	}
	generation := m.generation
	draft := cloneSession(m.session)
	m.mu.RUnlock()

	if err := fn(ctx, &draft); err != nil {
		return model.Session{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != generation {
		m.logger.Warn("session changed during update, result discarded", slog.String("account", draft.CurrentUser.Account))
		return draft, nil
	}
	m.session.CurrentUser = draft.CurrentUser
	m.session.PenaltyAppliedOn = draft.PenaltyAppliedOn
	return cloneSession(draft), nil
}

// establish installs user as the session. Logging the same account in again
// keeps the generation so in-flight updates still commit.
func (m *SessionManager) establish(user model.UserRecord) {
	m.mu.Lock()
	if m.session.CurrentUser == nil || m.session.CurrentUser.Account != user.Account {
		m.generation++
	}
	m.session.CurrentUser = &user
	m.session.PenaltyAppliedOn = ""
	m.mu.Unlock()
}

func (m *SessionManager) fail(ctx context.Context, result string, n model.Notification) {
	m.recorder.ObserveLogin(result)
	m.notifier.Notify(ctx, n)
}

func (m *SessionManager) fetchUsers(ctx context.Context) ([]model.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.users.FetchAll(ctx)
}

// pushBalance mirrors a locally computed balance to the remote store.
func (m *SessionManager) pushBalance(ctx context.Context, account string, balance decimal.Decimal) {
	m.submitBestEffort(ctx, model.PostbackRequest{
		Action:    model.ActionUpdateBalance,
		Account:   account,
		Balance:   &balance,
		Timestamp: m.now(),
	})
}

func (m *SessionManager) submitBestEffort(ctx context.Context, req model.PostbackRequest) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	result, err := m.postback.Submit(ctx, req)
	if err == nil && !result.Success {
		err = fmt.Errorf("rejected: %s", result.Message)
	}
	if err != nil {
		m.logger.Warn("remote update failed", slog.String("action", req.Action), slog.String("account", req.Account), slog.Any("error", err))
	}
}

func findUser(users []model.UserRecord, match func(model.UserRecord) bool) (model.UserRecord, bool) {
	for _, u := range users {
		if match(u) {
			return u, true
		}
	}
	return model.UserRecord{}, false
}

func cloneSession(s model.Session) model.Session {
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		s.CurrentUser = &u
	}
	return s
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
