// Package sqlite stores the registry collections in a single sqlite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/procureflow/registry/pkg/database"
)

// BlobStore implements port.BlobStore over the blobs table
type BlobStore struct {
	db     *database.DB
	logger *zap.Logger
}

// NewBlobStore creates a new BlobStore. The blobs table must already exist.
func NewBlobStore(db *database.DB, logger *zap.Logger) *BlobStore {
	return &BlobStore{
		db:     db,
		logger: logger,
	}
}

// Get returns the stored value, or nil when the namespace was never written
func (s *BlobStore) Get(ctx context.Context, namespace string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM blobs WHERE namespace = ?", namespace,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to read blob", zap.String("namespace", namespace), zap.Error(err))
		return nil, fmt.Errorf("read %s: %w", namespace, err)
	}
	return value, nil
}

// Put replaces the value stored under namespace
func (s *BlobStore) Put(ctx context.Context, namespace string, value []byte) error {
	if value == nil {
		value = []byte{}
	}

	return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO blobs (namespace, value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(namespace) DO UPDATE SET
				value = excluded.value,
				updated_at = excluded.updated_at
		`, namespace, value)
		if err != nil {
			s.logger.Error("Failed to write blob", zap.String("namespace", namespace), zap.Error(err))
			return fmt.Errorf("write %s: %w", namespace, err)
		}

		s.logger.Debug("Blob written", zap.String("namespace", namespace), zap.Int("size", len(value)))
		return nil
	})
}

// Namespaces lists the keys that hold a value
func (s *BlobStore) Namespaces(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT namespace FROM blobs ORDER BY namespace")
	if err != nil {
		return nil, fmt.Errorf("list namespaces: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var ns string
		if err := rows.Scan(&ns); err != nil {
			return nil, err
		}
		out = append(out, ns)
	}
	return out, rows.Err()
}
