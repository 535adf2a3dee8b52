// Package apperr defines the typed errors returned by the domain services.
// The web layer maps each Kind to a transport response.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindAlreadyExists
	KindAccessDenied
	KindIllegalState
	KindValidation
)

// KindConflict is the name used for duplicate reviews; it shares the AlreadyExists kind.
const KindConflict = KindAlreadyExists

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindAccessDenied:
		return "access_denied"
	case KindIllegalState:
		return "illegal_state"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// Error is a domain error carrying a Kind and a human readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Message returns the message of the first *Error in err's chain.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error { return newf(KindNotFound, format, args...) }

func AlreadyExists(format string, args ...any) *Error {
	return newf(KindAlreadyExists, format, args...)
}

func Conflict(format string, args ...any) *Error { return newf(KindConflict, format, args...) }

func AccessDenied(format string, args ...any) *Error {
	return newf(KindAccessDenied, format, args...)
}

func IllegalState(format string, args ...any) *Error {
	return newf(KindIllegalState, format, args...)
}

func Validation(format string, args ...any) *Error { return newf(KindValidation, format, args...) }

// Internal wraps an unexpected storage or infrastructure failure.
func Internal(err error, format string, args ...any) *Error {
	e := newf(KindInternal, format, args...)
	e.Err = err
	return e
}
