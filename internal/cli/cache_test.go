package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/containerpak/cpakstore/pkg/cache"
)

func TestNewCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		mode  string
		check func(cache.Cache) bool
	}{
		{cacheNone, func(c cache.Cache) bool { _, ok := c.(cache.NullCache); return ok }},
		{cacheMemory, func(c cache.Cache) bool { _, ok := c.(*cache.MemoryCache); return ok }},
		{cacheFile, func(c cache.Cache) bool {
			fc, ok := c.(*cache.FileCache)
			return ok && fc.Dir() == dir
		}},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			c, err := newCache(ctx, &Config{Cache: tt.mode, CacheDir: dir, CacheTTL: time.Minute})
			if err != nil {
				t.Fatalf("newCache(%s) error: %v", tt.mode, err)
			}
			defer c.Close()
			if !tt.check(c) {
				t.Errorf("newCache(%s) = %T", tt.mode, c)
			}
		})
	}
}

func TestCacheClearCommand(t *testing.T) {
	isolate(t)
	dir := filepath.Join(t.TempDir(), "docs")
	ctx := context.Background()

	store, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	keys := cache.NewDefaultKeyer()
	for _, u := range []string{"https://store.test/index.json", "https://store.test/categories.json"} {
		if err := store.Set(ctx, keys.DocumentKey(u), []byte("{}"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"--cache", "file", "cache", "clear"})
	t.Setenv("CPAKSTORE_CACHE_DIR", dir)

	if err := root.Execute(); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	if _, hit, _ := store.Get(ctx, keys.DocumentKey("https://store.test/index.json")); hit {
		t.Error("cache clear left entries behind")
	}
}

func TestCacheClearDisabled(t *testing.T) {
	isolate(t)
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"--cache", "none", "cache", "clear"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache clear with caching disabled: %v", err)
	}
}
