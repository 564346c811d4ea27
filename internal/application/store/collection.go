// Package store keeps the procurement and user collections as JSON arrays in
// a blob store. Every write replaces the whole collection.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/procureflow/registry/internal/application/port"
)

// Namespaces the collections are stored under
const (
	RecordsNamespace = "procureflow_data"
	UsersNamespace   = "procureflow_users"
)

// collection serializes read-modify-write cycles over one namespace
type collection[T any] struct {
	mu        sync.Mutex
	blobs     port.BlobStore
	namespace string
	normalize func(*T)
	logger    *zap.Logger
}

// load never fails: a missing, unreadable or corrupt value is an empty collection
func (c *collection[T]) load(ctx context.Context) []T {
	raw, err := c.blobs.Get(ctx, c.namespace)
	if err != nil {
		c.logger.Warn("Failed to read collection, treating as empty",
			zap.String("namespace", c.namespace),
			zap.Error(err))
		return []T{}
	}
	if len(raw) == 0 {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn("Stored collection is not valid JSON, treating as empty",
			zap.String("namespace", c.namespace),
			zap.Error(err))
		return []T{}
	}
	if items == nil {
		return []T{}
	}

	if c.normalize != nil {
		for i := range items {
			c.normalize(&items[i])
		}
	}
	return items
}

func (c *collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.namespace, err)
	}
	if err := c.blobs.Put(ctx, c.namespace, raw); err != nil {
		c.logger.Error("Failed to write collection",
			zap.String("namespace", c.namespace),
			zap.Error(err))
		return fmt.Errorf("failed to write %s: %w", c.namespace, err)
	}
	return nil
}

func (c *collection[T]) update(ctx context.Context, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fn(c.load(ctx))
	if err != nil {
		return err
	}
	return c.save(ctx, next)
}
