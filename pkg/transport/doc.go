// Package transport fetches store documents and probes store assets over HTTP.
//
// # Overview
//
// [Client] is the only component that touches the network. It implements
// the two operations the catalog resolver needs:
//
//   - [Client.Get]: GET a URL and JSON-decode the body
//   - [Client.Head]: HEAD a URL and report whether it exists
//
// # Failure Model
//
// A GET that does not return 200 fails with [ErrNotFound] (404) or
// [ErrNetwork] (everything else). A HEAD never fails on a status code: any
// 2xx means the asset exists, anything else means it does not. Only a
// transport failure (DNS, connection reset, timeout) is an error for HEAD.
//
// # Retries and Caching
//
// Both are off by default. [Options.Retry] enables retries for network
// errors and 5xx responses through [httputil.Retry]. [Options.Cache] stores
// raw response bodies and probe results in any [cache.Cache] backend:
//
//	c := transport.NewClient(transport.Options{
//	    Cache: cache.NewMemoryCache(time.Hour),
//	    TTL:   time.Hour,
//	    Retry: httputil.DefaultPolicy,
//	})
//	var idx catalog.Index
//	err := c.Get(ctx, "https://example.com/index.json", &idx)
//
// Every request is reported to [observability.HTTP] and every cache lookup
// to [observability.Cache].
package transport
