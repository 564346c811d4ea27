package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/procureflow/registry/internal/application/port"
	"github.com/procureflow/registry/internal/domain/entity"
)

// UserStore implements port.UserRepository
type UserStore struct {
	users *collection[entity.User]
}

// NewUserStore creates a user store over blobs
func NewUserStore(blobs port.BlobStore, logger *zap.Logger) *UserStore {
	return &UserStore{
		users: &collection[entity.User]{
			blobs:     blobs,
			namespace: UsersNamespace,
			logger:    logger,
		},
	}
}

func (s *UserStore) Load(ctx context.Context) []entity.User {
	s.users.mu.Lock()
	defer s.users.mu.Unlock()
	return s.users.load(ctx)
}

func (s *UserStore) Update(ctx context.Context, fn func([]entity.User) ([]entity.User, error)) error {
	return s.users.update(ctx, fn)
}
