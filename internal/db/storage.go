package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/codr1/folio/internal/theming"
)

const (
	getValueQuery = `SELECT value FROM theme_storage WHERE storage_key = ?`
	setValueQuery = `INSERT INTO theme_storage (storage_key, value)
VALUES (?, ?)
ON CONFLICT (storage_key) DO UPDATE SET
    value = excluded.value,
    updated_at = CURRENT_TIMESTAMP`
	deleteValueQuery = `DELETE FROM theme_storage WHERE storage_key = ?`
)

// Storage persists theme documents in the theme_storage table. It satisfies
// theming.Storage.
type Storage struct {
	db *DB
}

func NewStorage(database *DB) *Storage {
	return &Storage{db: database}
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, getValueQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", theming.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: get %q: %w", theming.ErrStorageUnavailable, key, err)
	}
	return value, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, setValueQuery, key, value); err != nil {
		return fmt.Errorf("%w: set %q: %w", theming.ErrStorageWriteFailed, key, err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, deleteValueQuery, key); err != nil {
		return fmt.Errorf("%w: delete %q: %w", theming.ErrStorageWriteFailed, key, err)
	}
	return nil
}
