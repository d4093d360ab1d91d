package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/buxiq/internal/domain/model"
)

// SessionFacade exposes the subset of application functionality required by the ticker.
type SessionFacade interface {
	IsLoggedIn() bool
	RefreshBalance(ctx context.Context)
	ApplyDailyClickPenalty(ctx context.Context) (model.PenaltyOutcome, error)
}

type job int

const (
	jobPenalty job = iota
	jobRefresh
)

func (j job) String() string {
	if j == jobPenalty {
		return "penalty"
	}
	return "refresh"
}

// SessionTicker periodically evaluates the daily click penalty and refreshes
// the cached balance. Jobs run one at a time and only while a session exists.
type SessionTicker struct {
	facade          SessionFacade
	penaltyInterval time.Duration
	refreshInterval time.Duration
	logger          *slog.Logger

	jobs   chan job
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewSessionTicker constructs the ticker. Non-positive intervals fall back to
// an hour for the penalty check and five minutes for the refresh.
func NewSessionTicker(facade SessionFacade, penaltyInterval, refreshInterval time.Duration, logger *slog.Logger) *SessionTicker {
	if penaltyInterval <= 0 {
		penaltyInterval = time.Hour
	}
	if refreshInterval <= 0 {
		refreshInterval = 5 * time.Minute
	}
	return &SessionTicker{
		facade:          facade,
		penaltyInterval: penaltyInterval,
		refreshInterval: refreshInterval,
		logger:          logger,
	}
}

// Start launches background processing. The penalty check also runs once immediately.
func (t *SessionTicker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.jobs = make(chan job, 2)

	t.wg.Add(2)
	go t.worker(runCtx, t.jobs)
	go t.dispatch(runCtx, t.jobs)
}

// Stop waits for the running job to finish.
func (t *SessionTicker) Stop() {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *SessionTicker) dispatch(ctx context.Context, jobs chan<- job) {
	defer t.wg.Done()
	defer close(jobs)

	penalty := time.NewTicker(t.penaltyInterval)
	defer penalty.Stop()
	refresh := time.NewTicker(t.refreshInterval)
	defer refresh.Stop()

	t.enqueue(ctx, jobs, jobPenalty)
	for {
		select {
		case <-ctx.Done():
			return
		case <-penalty.C:
			t.enqueue(ctx, jobs, jobPenalty)
		case <-refresh.C:
			t.enqueue(ctx, jobs, jobRefresh)
		}
	}
}

// enqueue skips a tick when the same kind of job is still waiting.
func (t *SessionTicker) enqueue(ctx context.Context, jobs chan<- job, j job) {
	select {
	case <-ctx.Done():
	case jobs <- j:
	default:
		t.logger.Debug("session job skipped, previous still pending", slog.String("job", j.String()))
	}
}

func (t *SessionTicker) worker(ctx context.Context, jobs <-chan job) {
	defer t.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			t.handle(ctx, j)
		}
	}
}

func (t *SessionTicker) handle(ctx context.Context, j job) {
	if !t.facade.IsLoggedIn() {
		return
	}
	switch j {
	case jobPenalty:
		if _, err := t.facade.ApplyDailyClickPenalty(ctx); err != nil {
			t.logger.Warn("daily penalty check failed", slog.String("error", err.Error()))
		}
	case jobRefresh:
		t.facade.RefreshBalance(ctx)
	}
}
