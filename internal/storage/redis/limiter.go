package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "buxiq:rl:"

// Limiter is a fixed-window counter shared through Redis. A limiter without
// a client allows every request.
type Limiter struct {
	client *goredis.Client
	limit  int
	window time.Duration
	logger *slog.Logger
}

// NewLimiter connects to addr. An empty addr or a failed ping yields a
// limiter that lets everything through.
func NewLimiter(addr, password string, db, limit int, window time.Duration, logger *slog.Logger) *Limiter {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Limiter{limit: limit, window: window, logger: logger}
	if addr == "" {
		logger.Info("login rate limiting disabled: redis not configured")
		return l
	}

	client := goredis.NewClient(&goredis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, login rate limiting disabled", slog.String("addr", addr), slog.Any("error", err))
		_ = client.Close()
		return l
	}

	l.client = client
	return l
}

// Enabled reports whether requests are actually counted.
func (l *Limiter) Enabled() bool {
	return l.client != nil
}

// Allow counts one hit for ident in the current window. Redis errors are
// returned together with allowed=true.
func (l *Limiter) Allow(ctx context.Context, ident string) (bool, error) {
	if l.client == nil {
		return true, nil
	}

	key := keyPrefix + strconv.FormatInt(int64(l.window.Seconds()), 10) + ":" + ident
	val, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("incr %s: %w", key, err)
	}
	if val == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("failed to set rate limit expiry", slog.String("key", key), slog.Any("error", err))
		}
	}
	return val <= int64(l.limit), nil
}

// Close releases the redis client.
func (l *Limiter) Close() error {
	if l.client == nil {
		return nil
	}
	return l.client.Close()
}
