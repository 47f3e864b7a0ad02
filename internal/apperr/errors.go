// Package apperr defines the closed set of errors the API can raise.
//
// Services and repositories return these values; only the HTTP layer turns
// them into responses. Two shapes exist: Error carries an explicit status and
// a user-facing message, StoreError carries the SQLSTATE code reported by
// PostgreSQL so it can be classified by code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lib/pq"
)

// Kind tags an Error with its category
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindMethodNotAllowed
	KindRouteNotFound
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindRouteNotFound:
		return "route_not_found"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a deliberate rejection raised by application code
type Error struct {
	Kind   Kind
	Status int
	Msg    string
	Err    error // optional cause, never exposed to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed or missing input (400)
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Msg: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity (404)
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Msg: fmt.Sprintf(format, args...)}
}

// MethodNotAllowed reports a known path requested with an unsupported verb (405)
func MethodNotAllowed() *Error {
	return &Error{Kind: KindMethodNotAllowed, Status: http.StatusMethodNotAllowed, Msg: "Method not allowed"}
}

// RouteNotFound reports a path no route serves (404)
func RouteNotFound() *Error {
	return &Error{Kind: KindRouteNotFound, Status: http.StatusNotFound, Msg: "Endpoint not found"}
}

// Internal reports a broken invariant. status may be 0 for a plain 500.
func Internal(status int, msg string, cause error) *Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &Error{Kind: KindInternal, Status: status, Msg: msg, Err: cause}
}

// SQLSTATE codes the classifier understands
const (
	CodeInvalidTextRepresentation = "22P02"
	CodeNumericValueOutOfRange    = "22003"
	CodeNotNullViolation          = "23502"
	CodeForeignKeyViolation       = "23503"
)

// StoreError is a failure reported by the query executor
type StoreError struct {
	Code    string // SQLSTATE, empty when the failure did not come from the server
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Code == "" {
		return "store: " + e.Message
	}
	return fmt.Sprintf("store %s: %s", e.Code, e.Message)
}

func (e *StoreError) Unwrap() error { return e.Err }

// FirstLine returns the first line of the store message, the only part that
// is ever shown to clients.
func (e *StoreError) FirstLine() string {
	line, _, _ := strings.Cut(e.Message, "\n")
	return line
}

// Store tags err as a store failure. nil stays nil and errors that already
// belong to this package are returned unchanged.
func Store(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	var storeErr *StoreError
	if errors.As(err, &appErr) || errors.As(err, &storeErr) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &StoreError{Code: string(pqErr.Code), Message: pqErr.Message, Err: err}
	}
	return &StoreError{Message: err.Error(), Err: err}
}
