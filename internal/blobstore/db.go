package blobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DBStore keeps blobs in the kv_blobs table of a MySQL database.
type DBStore struct {
	db *sqlx.DB
}

// NewDBStore creates a new DBStore.
func NewDBStore(db *sqlx.DB) *DBStore {
	return &DBStore{db: db}
}

// Get implements Store.
func (s *DBStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT blob_value FROM kv_blobs WHERE blob_key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("db.GetContext(kv_blobs) > %w", err)
	}
	return value, true, nil
}

// Set implements Store.
func (s *DBStore) Set(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_blobs (blob_key, blob_value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE blob_value = VALUES(blob_value)`,
		key, value); err != nil {
		return fmt.Errorf("db.ExecContext(upsert kv_blobs) > %w", err)
	}
	return nil
}

// Delete implements Store.
func (s *DBStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_blobs WHERE blob_key = ?", key); err != nil {
		return fmt.Errorf("db.ExecContext(delete kv_blobs) > %w", err)
	}
	return nil
}
