package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Limiter decides whether ident may proceed.
type Limiter interface {
	Allow(ctx context.Context, ident string) (bool, error)
}

// RateObserver counts rate limiter decisions.
type RateObserver interface {
	ObserveRateLimit(endpoint string, blocked bool)
}

// RateLimit throttles requests per client IP. Limiter errors let the request through.
func RateLimit(limiter Limiter, observer RateObserver, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("rate limiter unavailable", slog.String("error", err.Error()))
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if !allowed {
			if observer != nil {
				observer.ObserveRateLimit(c.FullPath(), true)
			}
			abort(c, http.StatusTooManyRequests, "rate_limited", "Too many login attempts. Please try again later.")
			return
		}

		if observer != nil {
			observer.ObserveRateLimit(c.FullPath(), false)
		}
		c.Next()
	}
}
