package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a failure independently of its HTTP status.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindUnauthorized  Kind = "unauthorized"
	KindForbidden     Kind = "forbidden"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindRateLimited   Kind = "rate_limited"
	KindMissingInput  Kind = "missing_input"
	KindConfiguration Kind = "configuration"
	KindUpstream      Kind = "upstream"
	KindInternal      Kind = "internal"
)

type AppError struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, kind Kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, KindValidation, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, KindUnauthorized, message, nil)
}

// Forbidden prefixes the reason with "403 Forbidden: " so clients can match on it.
func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, KindForbidden, "403 Forbidden: "+message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, KindConflict, message, nil)
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, KindRateLimited, message, nil)
}

func MissingInput(message string) *AppError {
	return New(http.StatusBadRequest, KindMissingInput, message, nil)
}

func Configuration(message string) *AppError {
	return New(http.StatusInternalServerError, KindConfiguration, message, nil)
}

func Upstream(message string, err error) *AppError {
	return New(http.StatusBadGateway, KindUpstream, message, err)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, KindInternal, "Internal Server Error", err)
}

// KindOf returns the Kind of err, or KindInternal for anything that is not an *AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}
