package repository

import "context"

// AccountSlot persists the identifier of the logged-in account.
// Load returns errors.ErrNotFound when the slot is empty.
type AccountSlot interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, account string) error
	Clear(ctx context.Context) error
}
