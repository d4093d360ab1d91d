package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/buxiq/internal/metrics"
	"github.com/polkiloo/buxiq/internal/notify"
	"github.com/polkiloo/buxiq/internal/server/http/handlers"
	"github.com/polkiloo/buxiq/internal/storage/redis"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(newEngine)

type engineParams struct {
	fx.In

	Facade  handlers.DashboardFacade
	Limiter *redis.Limiter
	Metrics *metrics.Metrics
	Hub     *notify.Hub
	Logger  *slog.Logger
}

func newEngine(p engineParams) *gin.Engine {
	return Setup(p.Facade, p.Limiter, p.Metrics, p.Hub, p.Logger)
}
