package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache defines the interface (port) for caching operations.
type Cache interface {
	// Get returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)

	// Set overwrites any existing item. An expiration of 0 keeps the item
	// until it is deleted.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Delete does not fail when the key is absent.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error

	// Expire refreshes the TTL of an existing key.
	Expire(ctx context.Context, key string, expiration time.Duration) error
}

// AtomicCache is a Cache that can apply a read-modify-write to one key
// without another writer interleaving.
type AtomicCache interface {
	Cache

	// Update passes the current value to fn and stores its result with the
	// given expiration. It returns ErrCacheMiss when the key is absent; an
	// error from fn aborts the write. fn may run more than once.
	Update(ctx context.Context, key string, expiration time.Duration, fn func(current string) (string, error)) error
}
