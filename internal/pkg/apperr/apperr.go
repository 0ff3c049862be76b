// Package apperr classifies failures returned to callers. Every rejection is
// an *Error with a Kind; anything else is treated as an internal fault.
package apperr

import (
	"errors"
	"maps"
)

type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindNotFound        Kind = "not_found"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindConflict        Kind = "conflict"
	KindInvalidState    Kind = "invalid_state"
	KindInternal        Kind = "internal"
)

// Error is a classified failure. Details carries structured context such as
// the offending field, seat number or reservation id.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// With returns a copy of e with key set in Details.
func (e *Error) With(key string, value any) *Error {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+1)
	maps.Copy(cp.Details, e.Details)
	cp.Details[key] = value
	return &cp
}

func InvalidInput(message, field string, cause error) *Error {
	e := New(KindInvalidInput, message, cause)
	if field != "" {
		e = e.With("field", field)
	}
	return e
}

func NotFound(message string, cause error) *Error {
	return New(KindNotFound, message, cause)
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message, nil)
}

func Forbidden(message string, cause error) *Error {
	return New(KindForbidden, message, cause)
}

func Conflict(message string, cause error) *Error {
	return New(KindConflict, message, cause)
}

func InvalidState(message string, cause error) *Error {
	return New(KindInvalidState, message, cause)
}

func Internal(cause error) *Error {
	return New(KindInternal, "internal error", cause)
}

// KindOf reports the kind of err, KindInternal when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As extracts the outermost *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
