// Package apierror provides the error taxonomy of the application and the
// canonical JSON envelope returned to clients. All errors surfaced over HTTP
// go through this package so that internal details (stack traces, SQL errors)
// never leak.
package apierror

import (
	"errors"
	"net/http"
)

// Kind classifies an error into one of the categories the API distinguishes.
type Kind int

const (
	// KindValidation — missing or malformed required field, user-correctable.
	KindValidation Kind = iota
	// KindAuthentication — missing or invalid bearer token, forces re-login.
	KindAuthentication
	// KindPermission — role check failure.
	KindPermission
	// KindNotFound — the referenced entity does not exist.
	KindNotFound
	// KindConflict — unique-constraint violation or illegal state transition;
	// the caller must re-fetch state before retrying.
	KindConflict
	// KindTransient — network or storage failure mid-sequence.
	KindTransient
)

// Error is a classified application error. Services return *Error (or wrap
// one); handlers translate it into an HTTP status via Status.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error     { return &Error{Kind: KindValidation, Msg: msg} }
func Authentication(msg string) *Error { return &Error{Kind: KindAuthentication, Msg: msg} }
func Permission(msg string) *Error     { return &Error{Kind: KindPermission, Msg: msg} }
func NotFound(msg string) *Error       { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) *Error       { return &Error{Kind: KindConflict, Msg: msg} }

// Transient wraps a storage or network failure. The original cause is kept
// for logging but never serialized to the client.
func Transient(msg string, err error) *Error {
	return &Error{Kind: KindTransient, Msg: msg, Err: err}
}

// Status maps an error to the HTTP status code of its Kind.
// Unclassified errors map to 500.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// APIError is the canonical envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Message string `json:"error"`
}

func New(msg string) *APIError { return &APIError{Message: msg} }

// FieldErrors wraps multiple per-field validation messages.
type FieldErrors struct {
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func NewFields(fields map[string]string) *FieldErrors {
	return &FieldErrors{Message: "Erreur de validation", Fields: fields}
}
