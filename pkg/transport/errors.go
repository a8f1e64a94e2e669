package transport

import "errors"

var (
	// ErrNotFound is returned when the server answers 404.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-200 responses).
	ErrNetwork = errors.New("network error")

	// ErrDecode is returned when a fetched document is not valid JSON for the target type.
	ErrDecode = errors.New("malformed document")
)
