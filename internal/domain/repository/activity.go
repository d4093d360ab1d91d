package repository

import (
	"context"

	"github.com/polkiloo/buxiq/internal/domain/model"
)

// ActivityFeed lists recent payouts, oldest first.
type ActivityFeed interface {
	FetchAll(ctx context.Context) ([]model.ActivityEntry, error)
}
