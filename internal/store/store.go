// Package store defines the storage backend interface for reading
// opening-database partition files.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a partition does not exist in the store.
var ErrNotFound = errors.New("store: partition not found")

// Store defines the interface for storage backends.
// Implementations handle path formats and storage details internally.
type Store interface {
	// ReadPartition reads the content of the named partition.
	// The returned data is already decompressed.
	ReadPartition(ctx context.Context, name string) ([]byte, error)

	// Close releases any resources held by the store.
	Close() error
}
