// Package apperrors defines the error taxonomy shared by the domain packages.
// Services return these (usually wrapped); the HTTP layer maps the Kind to a
// status code.
package apperrors

import "errors"

// Kind classifies a failure for the caller.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindAuthentication
	KindAuthorization
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	}
	return "internal"
}

// Error is a classified, caller-facing error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func Validation(msg string, err error) *Error {
	return &Error{Kind: KindValidation, Message: msg, Err: err}
}

func Unauthenticated(msg string) *Error { return &Error{Kind: KindAuthentication, Message: msg} }

func Forbidden(msg string) *Error { return &Error{Kind: KindAuthorization, Message: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the message of the first *Error in err's chain.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
