// Package store is the persistence boundary: string keys mapped to string-encoded records.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is returned when the underlying storage cannot be read or written
// (quota exceeded, storage disabled, backend unreachable).
var ErrUnavailable = errors.New("storage unavailable")

// Store is a key-value store of string values keyed by string.
// There are no transactions and no atomicity across multiple keys.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// UpdateFunc computes the new value of a key from its current value.
type UpdateFunc func(current string, ok bool) (string, error)

// Updater is implemented by stores that can perform an atomic read-modify-write on one key.
type Updater interface {
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// Closer is implemented by stores holding connections.
type Closer interface {
	Close() error
}

// Close releases the store's resources when it holds any.
func Close(s Store) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}

func unavailable(op, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %v", ErrUnavailable, op, key, err)
}
