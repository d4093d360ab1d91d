package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/buxiq/internal/config"
	"github.com/polkiloo/buxiq/internal/domain/model"
	"github.com/polkiloo/buxiq/internal/server/http/handlers"
	"github.com/polkiloo/buxiq/internal/storage/postgres"
	"github.com/polkiloo/buxiq/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewDashboardFacade,
		func(f *DashboardFacade) handlers.DashboardFacade { return f },
		func(f *DashboardFacade) SessionRestorer { return f },
		func(s *postgres.Storage) HealthChecker { return s },
		newHTTPServer,
		newSessionTicker,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *DashboardFacade
	Config *config.Config
	Logger *slog.Logger
}

func newSessionTicker(p workerParams) *worker.SessionTicker {
	return worker.NewSessionTicker(
		p.Facade,
		p.Config.PenaltyInterval,
		p.Config.RefreshInterval,
		p.Logger,
	)
}

// SessionRestorer re-establishes the persisted login at startup.
type SessionRestorer interface {
	RestoreSession(ctx context.Context) (model.UserRecord, bool)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.SessionTicker
	Sessions   SessionRestorer
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting buxiq", slog.String("addr", p.Server.Addr))
			if _, ok := p.Sessions.RestoreSession(ctx); !ok {
				p.Logger.Info("no session restored")
			}
			p.Worker.Start(context.WithoutCancel(ctx))
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("buxiq stopped")
			return nil
		},
	})
}
