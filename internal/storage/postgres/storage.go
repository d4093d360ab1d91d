package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/buxiq/internal/domain/model"
	"github.com/polkiloo/buxiq/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage keeps the cashout ledger in PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type cashoutRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Cashouts returns the ledger repository.
func (s *Storage) Cashouts() repository.CashoutRepository {
	return &cashoutRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cashouts (
            id TEXT PRIMARY KEY,
            account TEXT NOT NULL,
            points BIGINT NOT NULL,
            usd NUMERIC(14, 2) NOT NULL,
            reward_type TEXT NOT NULL,
            email TEXT NOT NULL DEFAULT '',
            wallet_address TEXT NOT NULL DEFAULT '',
            requested_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS cashout_totals (
            account TEXT PRIMARY KEY,
            count BIGINT NOT NULL DEFAULT 0,
            points BIGINT NOT NULL DEFAULT 0,
            usd NUMERIC(14, 2) NOT NULL DEFAULT 0
        )`,
		`CREATE INDEX IF NOT EXISTS idx_cashouts_account ON cashouts(account, requested_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- CashoutRepository implementation ---

func (r *cashoutRepository) Create(ctx context.Context, c model.Cashout) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insert = `INSERT INTO cashouts (id, account, points, usd, reward_type, email, wallet_address, requested_at)
                        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                        ON CONFLICT (id) DO NOTHING`
		tag, err := tx.Exec(ctx, insert, c.ID, c.Account, c.Points, c.USD.StringFixed(2), string(c.RewardType), c.Email, c.WalletAddress, c.RequestedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			r.storage.logger.Debug("cashout already recorded", slog.String("id", c.ID))
			return nil
		}

		const totals = `INSERT INTO cashout_totals (account, count, points, usd)
                        VALUES ($1, 1, $2, $3)
                        ON CONFLICT (account) DO UPDATE
                        SET count = cashout_totals.count + 1,
                            points = cashout_totals.points + EXCLUDED.points,
                            usd = cashout_totals.usd + EXCLUDED.usd`
		if _, err := tx.Exec(ctx, totals, c.Account, c.Points, c.USD.StringFixed(2)); err != nil {
			return err
		}
		return nil
	})
}

func (r *cashoutRepository) ListByAccount(ctx context.Context, account string) ([]model.Cashout, error) {
	const query = `SELECT id, account, points, usd::text, reward_type, email, wallet_address, requested_at
                   FROM cashouts WHERE account=$1 ORDER BY requested_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, account)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Cashout
	for rows.Next() {
		var (
			c          model.Cashout
			usd        string
			rewardType string
		)
		if err := rows.Scan(&c.ID, &c.Account, &c.Points, &usd, &rewardType, &c.Email, &c.WalletAddress, &c.RequestedAt); err != nil {
			return nil, err
		}
		if c.USD, err = decimal.NewFromString(usd); err != nil {
			return nil, fmt.Errorf("decode usd of %s: %w", c.ID, err)
		}
		c.RewardType = model.RewardType(rewardType)
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *cashoutRepository) Summary(ctx context.Context, account string) (model.CashoutSummary, error) {
	const query = `SELECT count, points, usd::text FROM cashout_totals WHERE account=$1`
	var (
		summary model.CashoutSummary
		usd     string
	)
	err := r.storage.pool.QueryRow(ctx, query, account).Scan(&summary.Count, &summary.Points, &usd)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.CashoutSummary{USD: decimal.Zero}, nil
		}
		return model.CashoutSummary{}, err
	}
	if summary.USD, err = decimal.NewFromString(usd); err != nil {
		return model.CashoutSummary{}, fmt.Errorf("decode usd total: %w", err)
	}
	return summary, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
