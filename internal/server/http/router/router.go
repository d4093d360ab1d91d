package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/buxiq/internal/server/http/handlers"
	"github.com/polkiloo/buxiq/internal/server/http/middleware"
)

// MetricsExporter exposes collected metrics and counts rate limiter decisions.
type MetricsExporter interface {
	middleware.RateObserver
	Handler() http.Handler
}

// NotificationStream upgrades requests to the live notification feed.
type NotificationStream interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.DashboardFacade, limiter middleware.Limiter, exporter MetricsExporter, stream NotificationStream, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/ws", "/metrics"})))

	sessionHandler := handlers.NewSessionHandler(facade)
	cashoutHandler := handlers.NewCashoutHandler(facade)
	offerwallHandler := handlers.NewOfferwallHandler(facade)
	activityHandler := handlers.NewActivityHandler(facade)

	engine.GET("/healthz", handlers.Health(facade))
	engine.GET("/metrics", gin.WrapH(exporter.Handler()))
	engine.GET("/ws", gin.WrapF(stream.ServeWS))

	api := engine.Group("/api")
	api.GET("/rewards", cashoutHandler.Rewards)
	api.GET("/offerwalls", offerwallHandler.List)
	api.GET("/activity", activityHandler.List)

	session := api.Group("/session")
	session.GET("/captcha", sessionHandler.Captcha)
	session.POST("/captcha", sessionHandler.RotateCaptcha)
	session.POST("/login", middleware.RateLimit(limiter, exporter, logger), sessionHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.GET("/session", sessionHandler.Current)
	authed.POST("/session/logout", sessionHandler.Logout)
	authed.POST("/session/refresh", sessionHandler.Refresh)
	authed.POST("/cashout", cashoutHandler.Request)
	authed.GET("/cashouts", cashoutHandler.History)
	authed.POST("/offerwalls/:id/open", offerwallHandler.Open)

	return engine
}
