package usecase

import (
	"context"
	"log/slog"

	"github.com/polkiloo/buxiq/internal/domain/model"
	"github.com/polkiloo/buxiq/internal/domain/repository"
)

// ActivityUseCase exposes the public payout feed.
type ActivityUseCase struct {
	feed   repository.ActivityFeed
	logger *slog.Logger
}

// NewActivityUseCase constructs ActivityUseCase.
func NewActivityUseCase(feed repository.ActivityFeed, logger *slog.Logger) *ActivityUseCase {
	return &ActivityUseCase{feed: feed, logger: logger}
}

// Recent returns up to limit entries, newest first. Fetch failures yield an empty feed.
func (u *ActivityUseCase) Recent(ctx context.Context, limit int) []model.ActivityEntry {
	entries, err := u.feed.FetchAll(ctx)
	if err != nil {
		u.logger.Warn("failed to load activity feed", slog.Any("error", err))
		return []model.ActivityEntry{}
	}
	out := make([]model.ActivityEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
