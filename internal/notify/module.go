package notify

import (
	"context"

	"go.uber.org/fx"

	"github.com/polkiloo/buxiq/internal/usecase"
)

// Module provides the websocket hub as the usecase notifier.
var Module = fx.Options(
	fx.Provide(
		NewHub,
		func(h *Hub) usecase.Notifier { return h },
	),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, hub *Hub) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			hub.Close()
			return nil
		},
	})
}
