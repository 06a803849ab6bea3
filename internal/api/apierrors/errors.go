// Package apierrors defines the client-facing error taxonomy of the API.
package apierrors

import (
	"errors"
	"net/http"
)

// Kind classifies an API error.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// APIError is an error whose message is safe to show to clients.
type APIError struct {
	Kind    Kind
	Message string
	// Err is the internal cause. It is logged, never sent to the client.
	Err error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code the error is reported with.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, message string, cause error) *APIError {
	return &APIError{Kind: kind, Message: message, Err: cause}
}

func NewBadRequest(message string) *APIError {
	return newError(KindBadRequest, message, nil)
}

func NewUnauthorized(message string, cause error) *APIError {
	return newError(KindUnauthorized, message, cause)
}

func NewForbidden(message string, cause error) *APIError {
	return newError(KindForbidden, message, cause)
}

func NewNotFound(message string, cause error) *APIError {
	return newError(KindNotFound, message, cause)
}

func NewConflict(message string, cause error) *APIError {
	return newError(KindConflict, message, cause)
}

// NewInvalidCredentials is used for both unknown accounts and wrong passwords
// so that login responses do not reveal which accounts exist.
func NewInvalidCredentials(kind Kind, cause error) *APIError {
	return newError(kind, "invalid credentials", cause)
}

// As extracts an *APIError from err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal if err carries none.
func KindOf(err error) Kind {
	if apiErr, ok := As(err); ok {
		return apiErr.Kind
	}
	return KindInternal
}
