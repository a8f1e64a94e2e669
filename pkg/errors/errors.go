// Package errors defines the coded errors returned by the store resolver.
//
// Every failure the resolver reports carries a [Code] naming what went
// wrong: bad input, a lookup that matched nothing, an upstream document
// with the wrong shape, or a document or asset that could not be fetched.
// Callers branch on the code instead of matching message text:
//
//	if errors.Is(err, errors.ErrCodeUnknownCategory) {
//		...
//	}
//
// The CLI prints [UserMessage] followed by the code, and the HTTP API
// maps codes to status codes.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is a machine-readable error kind.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	ErrCodeUnknownCategory Code = "UNKNOWN_CATEGORY"
	ErrCodeUnknownOrigin   Code = "UNKNOWN_ORIGIN"

	ErrCodeMissingReference Code = "MISSING_REFERENCE"
	ErrCodeMalformedOrigin  Code = "MALFORMED_ORIGIN"

	ErrCodeUnreachableIndex      Code = "UNREACHABLE_INDEX"
	ErrCodeUnreachableCategories Code = "UNREACHABLE_CATEGORIES"
	ErrCodeUnreachableManifest   Code = "UNREACHABLE_MANIFEST"
	ErrCodeUnreachableDescriptor Code = "UNREACHABLE_DESCRIPTOR"
	ErrCodeUnreachableAsset      Code = "UNREACHABLE_ASSET"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Unreachable reports whether c is one of the UNREACHABLE_* codes, which
// all mean an upstream fetch failed rather than the data being wrong.
func (c Code) Unreachable() bool {
	switch c {
	case ErrCodeUnreachableIndex, ErrCodeUnreachableCategories, ErrCodeUnreachableManifest,
		ErrCodeUnreachableDescriptor, ErrCodeUnreachableAsset:
		return true
	}
	return false
}

// Error pairs a Code with a message and, optionally, the error that caused it.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message and no cause.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error with a formatted message that wraps cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Prefix returns err with a formatted context prepended to its message.
// A coded err keeps its code and cause; an uncoded one becomes
// INTERNAL_ERROR wrapping err.
func Prefix(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	ctx := fmt.Sprintf(format, args...)
	if e, ok := find(err); ok {
		return &Error{Code: e.Code, Message: ctx + ": " + e.Message, Cause: e.Cause}
	}
	return Wrap(ErrCodeInternal, err, "%s", ctx)
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := stderrors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// IsUnreachable reports whether err carries an UNREACHABLE_* code.
func IsUnreachable(err error) bool {
	return GetCode(err).Unreachable()
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when err carries none.
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its
// code or cause. Uncoded errors are returned as their Error() text.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}
