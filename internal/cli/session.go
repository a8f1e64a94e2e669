package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/containerpak/cpakstore/pkg/cache"
	"github.com/containerpak/cpakstore/pkg/catalog"
	"github.com/containerpak/cpakstore/pkg/httputil"
	"github.com/containerpak/cpakstore/pkg/transport"
)

// session is one command's view of the store: a resolver plus the
// transport and cache underneath it. Close it when the command is done.
type session struct {
	resolver *catalog.Resolver
	client   *transport.Client
	cache    cache.Cache
}

func (s *session) Close() error { return s.cache.Close() }

func (c *CLI) newSession(ctx context.Context) (*session, error) {
	cfg := c.config()

	store, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := transport.NewClient(transportOptions(cfg, store))

	opts := cfg.catalogOptions()
	opts.Logger = c.Logger
	c.Logger.Debug("session ready", "index", cfg.IndexURL, "cache", cfg.Cache, "retries", cfg.Retries)

	return &session{resolver: catalog.NewResolver(client, opts), client: client, cache: store}, nil
}

// transportOptions maps cfg onto the transport. With caching off the
// transport gets no cache at all, so it skips lookups and emits no cache
// events.
func transportOptions(cfg *Config, store cache.Cache) transport.Options {
	keys := cache.NewDefaultKeyer()
	if cfg.CacheScope != "" {
		keys = cache.NewScopedKeyer(keys, cfg.CacheScope+":")
	}

	// retries counts the attempts after the first one.
	retry := httputil.DefaultPolicy
	retry.Attempts = cfg.Retries + 1

	opts := transport.Options{Timeout: cfg.Timeout, Retry: retry, Keyer: keys, TTL: cfg.CacheTTL}
	if cfg.Cache != cacheNone {
		opts.Cache = store
	}
	return opts
}

// newCache opens the backend named by cfg.Cache. Unknown modes never get
// here because the configuration is validated on load.
func newCache(ctx context.Context, cfg *Config) (cache.Cache, error) {
	switch cfg.Cache {
	case cacheFile:
		dir, err := cfg.cacheDir()
		if err != nil {
			return nil, fmt.Errorf("locate cache directory: %w", err)
		}
		return cache.NewFileCache(dir)
	case cacheMemory:
		return cache.NewMemoryCache(cfg.CacheTTL), nil
	case cacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr})
	}
	return cache.NewNullCache(), nil
}

// cacheDir is the file cache directory: cache_dir when set, otherwise
// $XDG_CACHE_HOME/cpakstore or ~/.cache/cpakstore.
func (c *Config) cacheDir() (string, error) {
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	return defaultCacheDir()
}

func defaultCacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, appName), nil
}
