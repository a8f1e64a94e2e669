package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient failure, such as a timeout or a 5xx
// response, that [Retry] may attempt again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped with RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Policy describes how often and how patiently an operation is retried.
// The zero Policy runs the operation exactly once.
type Policy struct {
	Attempts int           // total attempts, values below 1 mean 1
	Delay    time.Duration // wait before the second attempt, doubled afterwards
}

// NoRetry runs an operation exactly once.
var NoRetry = Policy{Attempts: 1}

// DefaultPolicy makes three attempts, waiting one and then two seconds.
var DefaultPolicy = Policy{Attempts: 3, Delay: time.Second}

// Do runs fn according to the policy. See [Retry].
func (p Policy) Do(ctx context.Context, fn func() error) error {
	return Retry(ctx, p.Attempts, p.Delay, fn)
}

// Retry calls fn until it succeeds, returns an error not marked with
// [Retryable], or has been called attempts times. The wait between calls
// starts at delay and doubles each time. Cancelling ctx during a wait ends
// the loop with ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	err := fn()
	for n := 1; n < attempts && IsRetryable(err); n++ {
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
		err = fn()
	}
	return err
}
