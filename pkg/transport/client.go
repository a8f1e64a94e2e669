package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/containerpak/cpakstore/pkg/buildinfo"
	"github.com/containerpak/cpakstore/pkg/cache"
	"github.com/containerpak/cpakstore/pkg/httputil"
	"github.com/containerpak/cpakstore/pkg/observability"
)

const (
	// DefaultTimeout bounds a single HTTP exchange.
	DefaultTimeout = 10 * time.Second

	maxDocumentSize = 8 << 20
)

var (
	probeFound   = []byte{'1'}
	probeMissing = []byte{'0'}
)

// Options configures a Client. The zero value is a usable, uncached,
// non-retrying client with a 10 second timeout.
type Options struct {
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration

	// Retry controls retries of network errors and 5xx responses.
	// The zero Policy makes exactly one attempt.
	Retry httputil.Policy

	// Cache stores response bodies and probe results. Nil disables caching.
	Cache cache.Cache

	// Keyer builds cache keys. Nil means cache.DefaultKeyer.
	Keyer cache.Keyer

	// TTL is the lifetime of cached entries. Zero means no expiration.
	TTL time.Duration

	// UserAgent is sent with every request. Empty means "cpakstore/<version>".
	UserAgent string

	// Headers are added to every request.
	Headers map[string]string

	// HTTPClient overrides the underlying client (tests). Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client performs GET and HEAD requests against store hosts.
// It is safe for concurrent use.
type Client struct {
	http    *http.Client
	cached  bool
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	retry   httputil.Policy
	headers map[string]string
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	c := opts.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	keyer := opts.Keyer
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}

	headers := make(map[string]string, len(opts.Headers)+1)
	for k, v := range opts.Headers {
		headers[k] = v
	}
	headers["User-Agent"] = opts.UserAgent
	if opts.UserAgent == "" {
		headers["User-Agent"] = buildinfo.UserAgent()
	}

	return &Client{
		http:    hc,
		cached:  opts.Cache != nil,
		cache:   c,
		keyer:   keyer,
		ttl:     opts.TTL,
		retry:   opts.Retry,
		headers: headers,
	}
}

// Get fetches rawURL and JSON-decodes the body into v.
func (c *Client) Get(ctx context.Context, rawURL string, v any) error {
	key := c.keyer.DocumentKey(rawURL)
	if data, ok := c.lookup(ctx, "doc", key); ok {
		if err := json.Unmarshal(data, v); err == nil {
			return nil
		}
		_ = c.cache.Delete(ctx, key)
	}

	var data []byte
	err := c.retry.Do(ctx, func() error {
		var err error
		data, err = c.fetch(ctx, rawURL)
		return err
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, rawURL, err)
	}
	c.store(ctx, "doc", key, data)
	return nil
}

// Head reports whether rawURL answers a HEAD request with a 2xx status.
// Status codes never produce an error; only transport failures do.
func (c *Client) Head(ctx context.Context, rawURL string) (bool, error) {
	key := c.keyer.ProbeKey(rawURL)
	if data, ok := c.lookup(ctx, "head", key); ok {
		return bytes.Equal(data, probeFound), nil
	}

	var found bool
	err := c.retry.Do(ctx, func() error {
		resp, err := c.do(ctx, http.MethodHead, rawURL)
		if err != nil {
			return err
		}
		resp.Body.Close()
		found = resp.StatusCode >= 200 && resp.StatusCode < 300
		return nil
	})
	if err != nil {
		return false, err
	}

	if found {
		c.store(ctx, "head", key, probeFound)
	} else {
		c.store(ctx, "head", key, probeMissing)
	}
	return found, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := splitURL(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, host, path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}

func (c *Client) lookup(ctx context.Context, kind, key string) ([]byte, bool) {
	if !c.cached {
		return nil, false
	}
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return data, true
}

func (c *Client) store(ctx context.Context, kind, key string, data []byte) {
	if !c.cached {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, kind, len(data))
	}
}

// checkStatus accepts any 2xx, as proxies may answer 203 for a cached body.
func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func splitURL(u *url.URL) (host, path string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}
