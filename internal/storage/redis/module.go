package redis

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/buxiq/internal/config"
)

// Module wires the login rate limiter.
var Module = fx.Options(
	fx.Provide(newLimiter),
	fx.Invoke(registerLifecycle),
)

func newLimiter(cfg *config.Config, logger *slog.Logger) *Limiter {
	return NewLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.LoginRateLimit, cfg.LoginRateWindow, logger)
}

func registerLifecycle(lc fx.Lifecycle, limiter *Limiter) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return limiter.Close()
		},
	})
}
