package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress       string
	UserTableURL     string
	ActivityLogURL   string
	PostbackURL      string
	PostbackMethod   string
	DatabaseURI      string
	StatePath        string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	LoginRateLimit   int
	LoginRateWindow  time.Duration
	JWTSecret        string
	RemoteTimeout    time.Duration
	PenaltyInterval  time.Duration
	RefreshInterval  time.Duration
	ShutdownTimeout  time.Duration
	MinCashoutPoints int64
	OfferwallCatalog string
	LogLevel         string
}

const (
	defaultRunAddress       = ":8080"
	defaultPostbackMethod   = "POST"
	defaultStatePath        = "data/state.db"
	defaultLoginRateLimit   = 10
	defaultLoginRateWindow  = time.Minute
	defaultJWTSecret        = "change-me-in-production"
	defaultRemoteTimeout    = 12 * time.Second
	defaultPenaltyInterval  = time.Hour
	defaultRefreshInterval  = 5 * time.Minute
	defaultShutdownTimeout  = 10 * time.Second
	defaultMinCashoutPoints = 250
	defaultLogLevel         = "info"
)

// Load parses configuration from .env, flags and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:       getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		UserTableURL:     getString(lookup, "USER_TABLE_URL", ""),
		ActivityLogURL:   getString(lookup, "ACTIVITY_LOG_URL", ""),
		PostbackURL:      getString(lookup, "POSTBACK_URL", ""),
		PostbackMethod:   getString(lookup, "POSTBACK_METHOD", defaultPostbackMethod),
		DatabaseURI:      getString(lookup, "DATABASE_URI", ""),
		StatePath:        getString(lookup, "STATE_PATH", defaultStatePath),
		RedisAddr:        getString(lookup, "REDIS_ADDR", ""),
		RedisPassword:    getString(lookup, "REDIS_PASSWORD", ""),
		RedisDB:          getInt(lookup, "REDIS_DB", 0),
		LoginRateLimit:   getInt(lookup, "LOGIN_RATE_LIMIT", defaultLoginRateLimit),
		LoginRateWindow:  getDuration(lookup, "LOGIN_RATE_WINDOW", defaultLoginRateWindow),
		JWTSecret:        getString(lookup, "JWT_SECRET", defaultJWTSecret),
		RemoteTimeout:    getDuration(lookup, "REMOTE_TIMEOUT", defaultRemoteTimeout),
		PenaltyInterval:  getDuration(lookup, "PENALTY_INTERVAL", defaultPenaltyInterval),
		RefreshInterval:  getDuration(lookup, "REFRESH_INTERVAL", defaultRefreshInterval),
		ShutdownTimeout:  getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		MinCashoutPoints: int64(getInt(lookup, "MIN_CASHOUT_POINTS", defaultMinCashoutPoints)),
		OfferwallCatalog: getString(lookup, "OFFERWALL_CATALOG", ""),
		LogLevel:         getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	fs := flag.NewFlagSet("buxiq", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		remoteTimeoutStr   = cfg.RemoteTimeout.String()
		penaltyIntervalStr = cfg.PenaltyInterval.String()
		refreshIntervalStr = cfg.RefreshInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		rateWindowStr      = cfg.LoginRateWindow.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.UserTableURL, "u", cfg.UserTableURL, "Published user table CSV URL")
	fs.StringVar(&cfg.ActivityLogURL, "activity-url", cfg.ActivityLogURL, "Published activity log CSV URL")
	fs.StringVar(&cfg.PostbackURL, "p", cfg.PostbackURL, "Postback script URL")
	fs.StringVar(&cfg.PostbackMethod, "postback-method", cfg.PostbackMethod, "Postback calling convention (POST or GET)")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN for the cashout ledger")
	fs.StringVar(&cfg.StatePath, "state", cfg.StatePath, "SQLite file holding the persisted session slot")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for login rate limiting")
	fs.IntVar(&cfg.LoginRateLimit, "login-rate", cfg.LoginRateLimit, "Login attempts allowed per window")
	fs.StringVar(&rateWindowStr, "login-window", rateWindowStr, "Login rate limiting window")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing session tokens")
	fs.StringVar(&remoteTimeoutStr, "remote-timeout", remoteTimeoutStr, "Timeout for remote table and postback calls")
	fs.StringVar(&penaltyIntervalStr, "penalty-interval", penaltyIntervalStr, "Interval between daily click penalty checks")
	fs.StringVar(&refreshIntervalStr, "refresh-interval", refreshIntervalStr, "Interval between balance refreshes")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.Int64Var(&cfg.MinCashoutPoints, "min-cashout", cfg.MinCashoutPoints, "Minimum cashout in points")
	fs.StringVar(&cfg.OfferwallCatalog, "offerwalls", cfg.OfferwallCatalog, "YAML offerwall catalog overriding the built-in one")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.RemoteTimeout, err = time.ParseDuration(remoteTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid remote timeout: %w", err)
	}
	if cfg.PenaltyInterval, err = time.ParseDuration(penaltyIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid penalty interval: %w", err)
	}
	if cfg.RefreshInterval, err = time.ParseDuration(refreshIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid refresh interval: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}
	if cfg.LoginRateWindow, err = time.ParseDuration(rateWindowStr); err != nil {
		return nil, fmt.Errorf("invalid login rate window: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	cfg.PostbackMethod = strings.ToUpper(strings.TrimSpace(cfg.PostbackMethod))
	switch cfg.PostbackMethod {
	case "POST", "GET":
	case "":
		cfg.PostbackMethod = defaultPostbackMethod
	default:
		return nil, fmt.Errorf("unsupported postback method %q", cfg.PostbackMethod)
	}

	if cfg.RemoteTimeout <= 0 {
		cfg.RemoteTimeout = defaultRemoteTimeout
	}
	if cfg.PenaltyInterval <= 0 {
		cfg.PenaltyInterval = defaultPenaltyInterval
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = defaultRefreshInterval
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.LoginRateLimit <= 0 {
		cfg.LoginRateLimit = defaultLoginRateLimit
	}
	if cfg.LoginRateWindow <= 0 {
		cfg.LoginRateWindow = defaultLoginRateWindow
	}
	if cfg.MinCashoutPoints <= 0 {
		cfg.MinCashoutPoints = defaultMinCashoutPoints
	}
	if cfg.StatePath == "" {
		cfg.StatePath = defaultStatePath
	}
	// One dollar plus the fee; anything lower pays out nothing.
	if cfg.MinCashoutPoints < defaultMinCashoutPoints {
		return nil, fmt.Errorf("minimum cashout must be at least %d points", defaultMinCashoutPoints)
	}

	if cfg.UserTableURL == "" {
		return nil, fmt.Errorf("user table URL must be provided")
	}
	if cfg.PostbackURL == "" {
		return nil, fmt.Errorf("postback URL must be provided")
	}
	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
