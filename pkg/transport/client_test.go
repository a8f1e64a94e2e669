package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/containerpak/cpakstore/pkg/cache"
	"github.com/containerpak/cpakstore/pkg/httputil"
)

type doc struct {
	Message string `json:"message"`
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Options{})
	if c.http == nil || c.http.Timeout != DefaultTimeout {
		t.Errorf("http client timeout = %v, want %v", c.http.Timeout, DefaultTimeout)
	}
	if c.cached {
		t.Error("client without cache should not be cached")
	}
	if c.headers["User-Agent"] == "" {
		t.Error("default User-Agent not set")
	}
}

func TestNewClientOptions(t *testing.T) {
	c := NewClient(Options{
		Timeout:   time.Second,
		UserAgent: "test-agent",
		Headers:   map[string]string{"X-Default": "d"},
	})
	if c.http.Timeout != time.Second {
		t.Errorf("timeout = %v, want 1s", c.http.Timeout)
	}
	if c.headers["User-Agent"] != "test-agent" || c.headers["X-Default"] != "d" {
		t.Errorf("headers = %v", c.headers)
	}
}

func TestClientGet(t *testing.T) {
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		agent = r.Header.Get("User-Agent")
		json.NewEncoder(w).Encode(doc{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(Options{UserAgent: "ua"})

	var resp doc
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
	if agent != "ua" {
		t.Errorf("User-Agent = %q, want %q", agent, "ua")
	}
}

func TestClientGetStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		want      error
		retryable bool
	}{
		{"not found", http.StatusNotFound, ErrNotFound, false},
		{"forbidden", http.StatusForbidden, ErrNetwork, false},
		{"server error", http.StatusInternalServerError, ErrNetwork, true},
		{"bad gateway", http.StatusBadGateway, ErrNetwork, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			var resp doc
			err := NewClient(Options{}).Get(context.Background(), server.URL, &resp)
			if !errors.Is(err, tt.want) {
				t.Errorf("Get() error = %v, want %v", err, tt.want)
			}
			if httputil.IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable = %v, want %v", httputil.IsRetryable(err), tt.retryable)
			}
		})
	}
}

func TestClientGetMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	var resp doc
	err := NewClient(Options{}).Get(context.Background(), server.URL, &resp)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Get() error = %v, want ErrDecode", err)
	}
}

func TestClientGetNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	var resp doc
	err := NewClient(Options{}).Get(context.Background(), url, &resp)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Get() error = %v, want ErrNetwork", err)
	}
	if !httputil.IsRetryable(err) {
		t.Error("network errors should be retryable")
	}
}

func TestClientGetNoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var resp doc
	_ = NewClient(Options{}).Get(context.Background(), server.URL, &resp)
	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times, want 1", got)
	}
}

func TestClientGetRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(doc{Message: "eventually"})
	}))
	defer server.Close()

	client := NewClient(Options{Retry: httputil.Policy{Attempts: 3, Delay: time.Millisecond}})

	var resp doc
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "eventually" || calls.Load() != 3 {
		t.Errorf("message=%q calls=%d", resp.Message, calls.Load())
	}
}

func TestClientGetCached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(doc{Message: "cached"})
	}))
	defer server.Close()

	c := cache.NewMemoryCache(time.Hour)
	defer c.Close()
	client := NewClient(Options{Cache: c, TTL: time.Hour})

	for range 3 {
		var resp doc
		if err := client.Get(context.Background(), server.URL, &resp); err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if resp.Message != "cached" {
			t.Errorf("message = %q", resp.Message)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times, want 1", got)
	}
}

func TestClientGetCorruptCacheEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(doc{Message: "fresh"})
	}))
	defer server.Close()

	ctx := context.Background()
	c := cache.NewMemoryCache(time.Hour)
	defer c.Close()
	_ = c.Set(ctx, cache.DefaultKeyer{}.DocumentKey(server.URL), []byte("garbage"), 0)

	var resp doc
	if err := NewClient(Options{Cache: c}).Get(ctx, server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "fresh" {
		t.Errorf("message = %q, want fresh", resp.Message)
	}
}

func TestClientHead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		switch r.URL.Path {
		case "/ok":
		case "/no-content":
			w.WriteHeader(http.StatusNoContent)
		case "/forbidden":
			w.WriteHeader(http.StatusForbidden)
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(Options{})
	tests := []struct {
		path string
		want bool
	}{
		{"/ok", true},
		{"/no-content", true},
		{"/missing", false},
		{"/forbidden", false},
		{"/broken", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := client.Head(context.Background(), server.URL+tt.path)
			if err != nil {
				t.Fatalf("Head() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Head(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestClientHeadNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	found, err := NewClient(Options{}).Head(context.Background(), url)
	if err == nil {
		t.Fatal("Head() should fail when the host is unreachable")
	}
	if found {
		t.Error("Head() should report false on error")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Head() error = %v, want ErrNetwork", err)
	}
}

func TestClientHeadCached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/icon.svg" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := cache.NewMemoryCache(time.Hour)
	defer c.Close()
	client := NewClient(Options{Cache: c})
	ctx := context.Background()

	for range 2 {
		if ok, _ := client.Head(ctx, server.URL+"/icon.svg"); !ok {
			t.Error("icon.svg should exist")
		}
		if ok, _ := client.Head(ctx, server.URL+"/showcase.webm"); ok {
			t.Error("showcase.webm should not exist")
		}
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server called %d times, want 2", got)
	}
}

func TestCheckStatus(t *testing.T) {
	for _, code := range []int{http.StatusOK, http.StatusNonAuthoritativeInfo, http.StatusNoContent} {
		if err := checkStatus(code); err != nil {
			t.Errorf("checkStatus(%d) = %v, want success", code, err)
		}
	}
	if err := checkStatus(http.StatusNotFound); err != ErrNotFound {
		t.Errorf("checkStatus(404) = %v", err)
	}
	if err := checkStatus(http.StatusMovedPermanently); !errors.Is(err, ErrNetwork) {
		t.Errorf("checkStatus(301) = %v, want ErrNetwork", err)
	}
	if err := checkStatus(http.StatusBadGateway); !httputil.IsRetryable(err) {
		t.Errorf("checkStatus(502) = %v, want retryable", err)
	}
}

func TestClientGetAcceptsNonAuthoritative(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNonAuthoritativeInfo)
		w.Write([]byte(`{"message":"via proxy"}`))
	}))
	defer server.Close()

	var resp doc
	if err := NewClient(Options{}).Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "via proxy" {
		t.Errorf("Get() message = %q", resp.Message)
	}
}
