// Package cache provides byte-level caching backends for fetched documents.
//
// The transport layer stores raw response bodies and existence-probe results
// here. The resolver never talks to a cache directly, so turning caching off
// is a matter of handing the transport a [NullCache].
//
// [FileCache] is what the CLI uses unless told otherwise. [MemoryCache] wraps
// patrickmn/go-cache for a single long-running process, and [RedisCache]
// lets several server instances share entries.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with an optional TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop all their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Clear empties c if it supports clearing. ok is false when it does not.
func Clear(ctx context.Context, c Cache) (n int, ok bool, err error) {
	cl, ok := c.(Clearer)
	if !ok {
		return 0, false, nil
	}
	n, err = cl.Clear(ctx)
	return n, true, err
}

// NullCache never stores anything. It is the default when caching is off.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
