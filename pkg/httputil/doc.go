// Package httputil provides retry helpers for the store transport.
//
// [Retry] wraps an operation with retries for transient failures. Only errors
// wrapped with [RetryableError] are retried; the transport marks network
// errors and 5xx responses that way. Everything else fails immediately.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return client.fetch(ctx, url)
//	})
//
// The resolver never retries on its own. Retries only happen when the CLI
// user configures a [Policy] with more than one attempt; the default
// transport policy is [NoRetry].
package httputil
