package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const defaultCleanupInterval = 10 * time.Minute

// MemoryCache keeps entries in process memory using patrickmn/go-cache.
// Entries disappear when the process exits.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates an in-memory cache. defaultTTL applies when Set is
// called with a ttl of 0; pass 0 for entries that never expire.
func NewMemoryCache(defaultTTL time.Duration) Cache {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &MemoryCache{store: gocache.New(defaultTTL, defaultCleanupInterval)}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	return data, ok, nil
}

// Set stores a copy of data in the cache.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.store.Set(key, append([]byte(nil), data...), ttl)
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

// Clear flushes all entries.
func (c *MemoryCache) Clear(ctx context.Context) (int, error) {
	n := c.store.ItemCount()
	c.store.Flush()
	return n, nil
}

// Close flushes all entries.
func (c *MemoryCache) Close() error {
	c.store.Flush()
	return nil
}

// ItemCount returns the number of entries, including expired ones not yet cleaned up.
func (c *MemoryCache) ItemCount() int {
	return c.store.ItemCount()
}

// Ensure MemoryCache implements Cache.
var (
	_ Cache   = (*MemoryCache)(nil)
	_ Clearer = (*MemoryCache)(nil)
)
