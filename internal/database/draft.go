package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type draft struct {
	Key       string
	Value     string
	UpdatedAt time.Time `db:"updated_at"`
}

func (c *Database) GetDraft(ctx context.Context, key string) (*string, error) {
	row := draft{}
	err := c.db.GetContext(ctx, &row, "SELECT draft.key, draft.value, draft.updated_at FROM draft WHERE key=$1", key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("fail to get draft %s: %w", key, err)
	}
	return &row.Value, nil
}

func (c *Database) SaveDraft(ctx context.Context, key string, value string) error {
	row := draft{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := c.db.NamedExecContext(ctx, "INSERT INTO draft (key, value, updated_at) VALUES (:key, :value, :updated_at) ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at", row)
	if err != nil {
		return fmt.Errorf("fail to save draft %s: %w", key, err)
	}
	return nil
}

func (c *Database) DeleteDraft(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM draft WHERE key=$1", key)
	if err != nil {
		return fmt.Errorf("fail to delete draft %s: %w", key, err)
	}
	return nil
}
