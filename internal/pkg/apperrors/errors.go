// Package apperrors defines the engine's error taxonomy. Handlers map a
// kind to an HTTP status; usecases and repositories construct or wrap.
package apperrors

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation         Kind = "validation"
	KindNotFound           Kind = "not_found"
	KindInsufficientStock  Kind = "insufficient_stock"
	KindDuplicateReference Kind = "duplicate_reference"
	KindInvalidStatus      Kind = "invalid_status"
	KindServer             Kind = "server"
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Validation(msg string) *Error { return New(KindValidation, msg) }

func NotFound(msg string) *Error { return New(KindNotFound, msg) }

func InsufficientStock(msg string) *Error { return New(KindInsufficientStock, msg) }

func DuplicateReference(msg string) *Error { return New(KindDuplicateReference, msg) }

func InvalidStatus(msg string) *Error { return New(KindInvalidStatus, msg) }

func Server(msg string, err error) *Error { return Wrap(KindServer, msg, err) }

// KindOf extracts the kind of err, or KindServer for anything untyped.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindServer
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the status code the CRUD layer surfaces,
// so callers can tell "nothing happened" from a stock conflict from an
// infrastructure failure.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidStatus:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientStock, KindDuplicateReference:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
