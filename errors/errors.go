package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an error so the transport layer can map it to a status
// code without inspecting internals.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is missing or malformed caller input.
	KindValidation
	// KindUnauthenticated means no, invalid, or expired credentials.
	KindUnauthenticated
	// KindForbidden means a valid identity with insufficient privilege.
	KindForbidden
	// KindNotFound means a referenced account or tenant is absent.
	KindNotFound
	// KindConflict is a uniqueness violation.
	KindConflict
	// KindUpstream is an identity-provider transport or protocol failure.
	KindUpstream
	// KindInternal is a hashing, signing, or persistence malfunction.
	KindInternal
)

// Error carries a classification, a message safe to return to clients, and
// the internal cause. The cause is for logs only and must never reach a
// response body.
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

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the classification of err, or KindUnknown when err was
// not built by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the client-safe message of err. Unclassified errors yield
// an opaque message so raw internals never leak into a response.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// HTTPStatus maps an error to its response status. Conflicts map to 400
// rather than 409: the public API reports uniqueness violations as bad
// requests.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthenticated, KindUpstream:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
