package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNullCacheStoresNothing(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	t.Cleanup(func() { c.Close() })

	if err := c.Set(ctx, "doc:index", []byte(`{"development":[]}`), time.Hour); err != nil {
		t.Fatalf("Set() = %v", err)
	}
	if data, hit, err := c.Get(ctx, "doc:index"); hit || data != nil || err != nil {
		t.Errorf("Get() = %q, %v, %v; want a clean miss", data, hit, err)
	}
	if err := c.Delete(ctx, "doc:index"); err != nil {
		t.Errorf("Delete() = %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	testBackend(t, ctx, c)
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "key", []byte("value"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); !hit {
		t.Fatal("fresh entry should hit")
	}

	time.Sleep(20 * time.Millisecond)

	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("expired entry: hit=%v err=%v, want miss", hit, err)
	}
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	fc := c.(*FileCache)

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fc.path("key"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want miss", hit, err)
	}
	if _, err := os.Stat(fc.path("key")); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Hour)
	testBackend(t, ctx, c)
}

func TestMemoryCacheCopiesInput(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)

	buf := []byte("value")
	_ = c.Set(ctx, "key", buf, 0)
	buf[0] = 'X'

	got, _, _ := c.Get(ctx, "key")
	if string(got) != "value" {
		t.Errorf("Get() = %q, cached value should not alias caller's buffer", got)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("CPAKSTORE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CPAKSTORE_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "cpakstore-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	testBackend(t, ctx, c)
}

func testBackend(t *testing.T, ctx context.Context, c Cache) {
	t.Helper()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "doc:abc", []byte(`{"branch":"main"}`), time.Hour); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	got, hit, err := c.Get(ctx, "doc:abc")
	if err != nil || !hit {
		t.Fatalf("Get() = hit %v, err %v; want hit", hit, err)
	}
	if string(got) != `{"branch":"main"}` {
		t.Errorf("Get() = %q", got)
	}

	if err := c.Delete(ctx, "doc:abc"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "doc:abc"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "doc:abc"); err != nil {
		t.Errorf("deleting a missing key should not fail: %v", err)
	}
}

func TestHash(t *testing.T) {
	const want = "0a5f4d5a3df66783b0ca5417cdd388f1f6ff00f611f0f7a54a9543fd017df7ee"
	if got := Hash([]byte("cpak")); got != want {
		t.Errorf("Hash(cpak) = %q, want %q", got, want)
	}
	if Hash([]byte("cpak ")) == want {
		t.Error("Hash() ignored trailing input")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	url := "https://raw.githubusercontent.com/Containerpak/store/main/index.json"

	doc := k.DocumentKey(url)
	head := k.ProbeKey(url)
	if !strings.HasPrefix(doc, "doc:") {
		t.Errorf("DocumentKey unexpected: %s", doc)
	}
	if !strings.HasPrefix(head, "head:") {
		t.Errorf("ProbeKey unexpected: %s", head)
	}
	if strings.TrimPrefix(doc, "doc:") != strings.TrimPrefix(head, "head:") {
		t.Error("both keys should hash the same URL")
	}
	if k.DocumentKey(url+"?x") == doc {
		t.Error("different URLs should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "staging:")

	key := scoped.DocumentKey("https://example.com/index.json")
	if !strings.HasPrefix(key, "staging:doc:") {
		t.Errorf("ScopedKeyer DocumentKey should be prefixed: %s", key)
	}
	key = scoped.ProbeKey("https://example.com/icon.svg")
	if !strings.HasPrefix(key, "staging:head:") {
		t.Errorf("ScopedKeyer ProbeKey should be prefixed: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.DocumentKey("u")
	if key != "prefix:"+NewDefaultKeyer().DocumentKey("u") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()

	fc, _ := NewFileCache(t.TempDir())
	mc := NewMemoryCache(time.Hour)

	for name, c := range map[string]Cache{"file": fc, "memory": mc} {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"doc:a", "doc:b", "head:c"} {
				if err := c.Set(ctx, k, []byte("x"), time.Hour); err != nil {
					t.Fatalf("Set(%s): %v", k, err)
				}
			}
			n, ok, err := Clear(ctx, c)
			if err != nil || !ok {
				t.Fatalf("Clear() = ok %v, err %v", ok, err)
			}
			if n != 3 {
				t.Errorf("Clear() removed %d entries, want 3", n)
			}
			if _, hit, _ := c.Get(ctx, "doc:a"); hit {
				t.Error("entry survived Clear")
			}
		})
	}
}

func TestClearUnsupported(t *testing.T) {
	n, ok, err := Clear(context.Background(), NewNullCache())
	if ok || n != 0 || err != nil {
		t.Errorf("Clear(null) = %d, %v, %v; want 0, false, nil", n, ok, err)
	}
}

func TestFileCacheClearMissingDir(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	n, err := c.(*FileCache).Clear(context.Background())
	if err != nil || n != 0 {
		t.Errorf("Clear() = %d, %v; want 0, nil", n, err)
	}
}
