package port

import (
	"context"

	"github.com/procureflow/registry/internal/domain/entity"
)

// BlobStore persists opaque values under a namespace key
type BlobStore interface {
	// Get returns nil, nil when nothing is stored under namespace
	Get(ctx context.Context, namespace string) ([]byte, error)
	Put(ctx context.Context, namespace string, value []byte) error
}

// RecordRepository holds the whole procurement collection. Reads hand out
// copies; every write replaces the collection.
type RecordRepository interface {
	Load(ctx context.Context) []entity.Record
	Save(ctx context.Context, records []entity.Record) error
	// Update runs load, fn and save as one step
	Update(ctx context.Context, fn func(records []entity.Record) ([]entity.Record, error)) error
	SeedIfEmpty(ctx context.Context) (bool, error)
}

// UserRepository holds the registered users
type UserRepository interface {
	Load(ctx context.Context) []entity.User
	Update(ctx context.Context, fn func(users []entity.User) ([]entity.User, error)) error
}
