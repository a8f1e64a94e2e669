package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := defaultCacheDir()
	if err != nil {
		t.Fatalf("defaultCacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".cache", appName)
	if dir != want {
		t.Errorf("defaultCacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := defaultCacheDir()
	if err != nil {
		t.Fatalf("defaultCacheDir() error: %v", err)
	}

	want := filepath.Join("/tmp/custom-cache", appName)
	if dir != want {
		t.Errorf("defaultCacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestConfigCacheDirOverride(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	cfg := &Config{CacheDir: "/srv/cpakstore"}
	dir, err := cfg.cacheDir()
	if err != nil {
		t.Fatalf("defaultCacheDir() error: %v", err)
	}
	if dir != "/srv/cpakstore" {
		t.Errorf("cacheDir() = %q, want the configured directory", dir)
	}
}

func TestTransportOptionsCache(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		mode      string
		wantCache bool
	}{
		{cacheNone, false},
		{cacheMemory, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := &Config{Cache: tt.mode, Retries: 0}
			store, err := newCache(ctx, cfg)
			if err != nil {
				t.Fatalf("newCache() error: %v", err)
			}
			defer store.Close()

			opts := transportOptions(cfg, store)
			if got := opts.Cache != nil; got != tt.wantCache {
				t.Errorf("transport cache set = %v, want %v", got, tt.wantCache)
			}
			if opts.Retry.Attempts != 1 {
				t.Errorf("Attempts = %d, want 1 with no retries", opts.Retry.Attempts)
			}
		})
	}
}
