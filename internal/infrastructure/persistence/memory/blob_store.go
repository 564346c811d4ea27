// Package memory provides an in-process blob store for tests and ephemeral runs.
package memory

import (
	"context"
	"sync"
)

// BlobStore implements port.BlobStore in memory
type BlobStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	putErr error
}

// NewBlobStore creates an empty store
func NewBlobStore() *BlobStore {
	return &BlobStore{values: make(map[string][]byte)}
}

// Get returns a copy of the stored value, or nil when absent
func (s *BlobStore) Get(ctx context.Context, namespace string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[namespace]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Put stores a copy of value
func (s *BlobStore) Put(ctx context.Context, namespace string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.putErr != nil {
		return s.putErr
	}
	s.values[namespace] = append([]byte(nil), value...)
	return nil
}

// FailWrites makes every subsequent Put return err; nil clears it
func (s *BlobStore) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putErr = err
}
