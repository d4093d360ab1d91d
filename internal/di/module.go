package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/buxiq/internal/adapter/offerwall"
	"github.com/polkiloo/buxiq/internal/adapter/postback"
	"github.com/polkiloo/buxiq/internal/adapter/sheet"
	"github.com/polkiloo/buxiq/internal/app"
	"github.com/polkiloo/buxiq/internal/config"
	"github.com/polkiloo/buxiq/internal/logger"
	"github.com/polkiloo/buxiq/internal/metrics"
	"github.com/polkiloo/buxiq/internal/notify"
	"github.com/polkiloo/buxiq/internal/pkg/auth"
	"github.com/polkiloo/buxiq/internal/pkg/captcha"
	"github.com/polkiloo/buxiq/internal/server/http/router"
	"github.com/polkiloo/buxiq/internal/storage/postgres"
	"github.com/polkiloo/buxiq/internal/storage/redis"
	"github.com/polkiloo/buxiq/internal/storage/sqlite"
	"github.com/polkiloo/buxiq/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		captcha.Module,
		postgres.Module,
		sqlite.Module,
		redis.Module,
		metrics.Module,
		notify.Module,
		sheet.Module,
		postback.Module,
		offerwall.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
