package repository

import (
	"context"

	"github.com/polkiloo/buxiq/internal/domain/model"
)

// CashoutRepository records submitted cashouts. Create is idempotent on the cashout ID.
type CashoutRepository interface {
	Create(ctx context.Context, cashout model.Cashout) error
	ListByAccount(ctx context.Context, account string) ([]model.Cashout, error)
	Summary(ctx context.Context, account string) (model.CashoutSummary, error)
}
