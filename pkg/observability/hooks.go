// Package observability lets callers watch catalog resolution, the document
// cache and outgoing HTTP requests without the libraries depending on a
// metrics backend.
//
// Each event family has a hook interface with a no-op default. An
// application registers its implementations once at startup; [Prometheus]
// implements all three and is what the serve command installs:
//
//	p := observability.NewPrometheus(reg)
//	observability.SetResolveHooks(p)
//	observability.SetCacheHooks(p)
//	observability.SetHTTPHooks(p)
//
// Libraries read the current hooks on every event:
//
//	observability.Resolve().OnProbe(ctx, "screenshot", found)
//
// Registration and lookup are safe for concurrent use.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// ResolveHooks receives events from the catalog resolution pipeline.
type ResolveHooks interface {
	// OnPackageResolved records the outcome of resolving one package.
	OnPackageResolved(ctx context.Context, origin string, duration time.Duration, err error)

	// OnCategoryListed records the outcome of a whole category listing.
	OnCategoryListed(ctx context.Context, category string, packages int, duration time.Duration, err error)

	// OnProbe records a single existence probe for an undeclared asset.
	OnProbe(ctx context.Context, asset string, found bool)
}

// CacheHooks receives document cache events. kind is "doc" for GET
// bodies and "head" for HEAD probe results.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, bytes int)
}

// HTTPHooks receives events for every request the transport sends to a
// store host. OnError is for requests that produced no response at all.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, status int, elapsed time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopResolveHooks ignores every resolve event.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnPackageResolved(context.Context, string, time.Duration, error)     {}
func (NoopResolveHooks) OnCategoryListed(context.Context, string, int, time.Duration, error) {}
func (NoopResolveHooks) OnProbe(context.Context, string, bool)                               {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// slot holds the registered implementation of one hook interface and
// falls back to its no-op default while none is registered.
type slot[T any] struct {
	p   atomic.Pointer[T]
	def T
}

func (s *slot[T]) get() T {
	if h := s.p.Load(); h != nil {
		return *h
	}
	return s.def
}

func (s *slot[T]) reset() { s.p.Store(nil) }

// setIfNotNil registers h in s unless h is a nil interface.
func setIfNotNil[T comparable](s *slot[T], h T) {
	var zero T
	if h != zero {
		s.p.Store(&h)
	}
}

var (
	resolveSlot = slot[ResolveHooks]{def: NoopResolveHooks{}}
	cacheSlot   = slot[CacheHooks]{def: NoopCacheHooks{}}
	httpSlot    = slot[HTTPHooks]{def: NoopHTTPHooks{}}
)

// SetResolveHooks registers h for resolve events. A nil h is ignored.
func SetResolveHooks(h ResolveHooks) { setIfNotNil(&resolveSlot, h) }

// SetCacheHooks registers h for cache events. A nil h is ignored.
func SetCacheHooks(h CacheHooks) { setIfNotNil(&cacheSlot, h) }

// SetHTTPHooks registers h for HTTP events. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) { setIfNotNil(&httpSlot, h) }

// Resolve returns the registered resolve hooks.
func Resolve() ResolveHooks { return resolveSlot.get() }

// Cache returns the hooks for document cache events.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the hooks for store host requests.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset restores the no-op defaults. Tests and the serve command use it to
// drop hooks bound to a registry that is going away.
func Reset() {
	for _, reset := range []func(){resolveSlot.reset, cacheSlot.reset, httpSlot.reset} {
		reset()
	}
}
