// Package memstore provides an in-memory store implementation for testing.
package memstore

import (
	"context"
	"sync"

	"github.com/jphollanti/chessprof/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is an in-memory store for testing.
type Store struct {
	mu         sync.RWMutex
	partitions map[string][]byte
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		partitions: make(map[string][]byte),
	}
}

// SetPartition sets the data for a partition (for test setup).
// The data is copied to prevent caller mutations from affecting the store.
func (s *Store) SetPartition(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.partitions[name] = copied
}

// ReadPartition reads a partition from memory.
func (s *Store) ReadPartition(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.partitions[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}
