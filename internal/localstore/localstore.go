package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS draft (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

type Configuration struct {
	Path string `validate:"required"`
}

// Store persists drafts in a single SQLite file on the local disk.
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

type draft struct {
	Key   string
	Value string
}

func New(logger *slog.Logger, config Configuration) (*Store, error) {
	db, err := sqlx.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("fail to open draft file %s: %w", config.Path, err)
	}
	// a single connection serializes writers on the file
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("fail to create draft schema: %w", err)
	}
	logger.Info(fmt.Sprintf("local draft store opened at %s", config.Path))
	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetDraft(ctx context.Context, key string) (*string, error) {
	row := draft{}
	err := s.db.GetContext(ctx, &row, "SELECT key, value FROM draft WHERE key = ?", key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("fail to get draft %s: %w", key, err)
	}
	return &row.Value, nil
}

func (s *Store) SaveDraft(ctx context.Context, key string, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO draft (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("fail to save draft %s: %w", key, err)
	}
	return nil
}

func (s *Store) DeleteDraft(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM draft WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("fail to delete draft %s: %w", key, err)
	}
	return nil
}
