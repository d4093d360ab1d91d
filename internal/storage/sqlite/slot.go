package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	domainErrors "github.com/polkiloo/buxiq/internal/domain/errors"
)

// AccountKey is the key under which the logged-in account is kept.
const AccountKey = "buxiq_account"

// Slot persists client state in a single-file SQLite database.
type Slot struct {
	db *sql.DB
}

// Open creates the database file and its parent directory when missing.
func Open(path string) (*Slot, error) {
	if path == "" {
		return nil, fmt.Errorf("state path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Slot{db: db}
	if err := s.init(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Slot) init() error {
	const stmt = `CREATE TABLE IF NOT EXISTS client_state (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL
    )`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("init state schema: %w", err)
	}
	return nil
}

// Load returns the stored account or ErrNotFound.
func (s *Slot) Load(ctx context.Context) (string, error) {
	var account string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM client_state WHERE key = ?`, AccountKey).Scan(&account)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domainErrors.ErrNotFound
		}
		return "", err
	}
	if account == "" {
		return "", domainErrors.ErrNotFound
	}
	return account, nil
}

// Save overwrites the stored account.
func (s *Slot) Save(ctx context.Context, account string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client_state (key, value) VALUES (?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		AccountKey, account)
	return err
}

// Clear removes the stored account. Clearing an empty slot is not an error.
func (s *Slot) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM client_state WHERE key = ?`, AccountKey)
	return err
}

// Close releases the database handle.
func (s *Slot) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
