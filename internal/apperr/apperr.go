package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for status code selection.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindRateLimited
	KindPersistence
	KindExternalUnavailable
	KindExternal
	KindProcessing
	KindNoRoute
	KindMethodNotAllowed
)

// Error codes sent in the error envelope.
const (
	CodeInternalError    = "INTERNAL_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeTooManyRequests  = "TOO_MANY_REQUESTS"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"

	CodeDatabaseUnavailable = "DATABASE_UNAVAILABLE"

	CodeWeeklyDBError   = "WEEKLY_PLAN_DB_ERROR"
	CodeWeeklyLoadError = "WEEKLY_PLAN_ERROR"
	CodeWeeklySwapError = "WEEKLY_SWAP_ERROR"
	CodeWeeklyMoveError = "WEEKLY_MOVE_ERROR"

	CodeIngredientsDBError         = "INGREDIENTS_DB_ERROR"
	CodeIngredientsProcessingError = "INGREDIENTS_PROCESSING_ERROR"

	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenInvalid       = "TOKEN_INVALID"

	CodeInvalidInput        = "INVALID_INPUT"
	CodeResourceNotFound    = "RESOURCE_NOT_FOUND"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
)

// Error is the application error carried from services to the HTTP boundary.
// Message is safe to show to users; Err holds the underlying cause.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Op      string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail returns e after setting a detail key.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// HTTPStatus maps the error kind to a response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindNotFound:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindNoRoute:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindPersistence, KindExternalUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether a client may repeat the request unchanged.
func (e *Error) Retryable() bool {
	return e.Kind == KindExternalUnavailable || e.Kind == KindPersistence || e.Kind == KindRateLimited
}

func newError(kind Kind, code, op, msg string, err error) *Error {
	return &Error{Kind: kind, Code: code, Op: op, Message: msg, Err: err}
}

func Validation(code, op, msg string) *Error {
	return newError(KindValidation, code, op, msg, nil)
}

func NotFound(code, op, msg string) *Error {
	return newError(KindNotFound, code, op, msg, nil)
}

func Unauthorized(code, msg string) *Error {
	return newError(KindUnauthorized, code, "", msg, nil)
}

func RateLimited(msg string) *Error {
	return newError(KindRateLimited, CodeTooManyRequests, "", msg, nil)
}

func NoRoute(path string) *Error {
	return newError(KindNoRoute, CodeNotFound, "", "Route not found", nil).WithDetail("path", path)
}

func MethodNotAllowed(method string) *Error {
	return newError(KindMethodNotAllowed, CodeMethodNotAllowed, "", "Method not allowed", nil).WithDetail("method", method)
}

func Persistence(code, op, msg string, err error) *Error {
	return newError(KindPersistence, code, op, msg, err)
}

func External(code, op, msg string, err error) *Error {
	return newError(KindExternal, code, op, msg, err)
}

func ExternalUnavailable(code, op, msg string, err error) *Error {
	return newError(KindExternalUnavailable, code, op, msg, err)
}

func Processing(code, op, msg string, err error) *Error {
	return newError(KindProcessing, code, op, msg, err)
}

func Internal(op string, err error) *Error {
	return newError(KindInternal, CodeInternalServerError, op, "An unexpected error occurred", err)
}

// From returns err as an *Error, classifying unknown errors as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("", err)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// ErrorType returns the Go type name of the innermost cause of err.
func ErrorType(err error) string {
	if err == nil {
		return ""
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return fmt.Sprintf("%T", err)
		}
		err = next
	}
}
