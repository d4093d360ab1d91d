package repository

import (
	"context"

	"github.com/polkiloo/buxiq/internal/domain/model"
)

// UserTable is the remote table of accounts. Rows are returned in table order.
type UserTable interface {
	FetchAll(ctx context.Context) ([]model.UserRecord, error)
}
