package sqlite

import (
	"context"

	"go.uber.org/fx"

	"github.com/polkiloo/buxiq/internal/config"
	"github.com/polkiloo/buxiq/internal/domain/repository"
)

// Module wires the persisted account slot.
var Module = fx.Options(
	fx.Provide(
		newSlot,
		func(s *Slot) repository.AccountSlot { return s },
	),
	fx.Invoke(registerLifecycle),
)

func newSlot(cfg *config.Config) (*Slot, error) {
	return Open(cfg.StatePath)
}

func registerLifecycle(lc fx.Lifecycle, slot *Slot) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return slot.Close()
		},
	})
}
