package handler

import (
	"errors"
	"net/http"
)

// ErrNilResponse indicates a handler returned nil instead of a Response.
var ErrNilResponse = errors.New("handler: nil response")

// HTTPError is an error with a status code and a client-facing message.
// Err, when set, is the underlying cause and is never sent to the client.
type HTTPError struct {
	Code    int
	Message string
	Details string
	Err     error
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}

func (e HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e HTTPError) Unwrap() error { return e.Err }

// WithDetails returns a copy carrying details.
func (e HTTPError) WithDetails(details string) HTTPError {
	e.Details = details
	return e
}

// WithCause returns a copy wrapping err.
func (e HTTPError) WithCause(err error) HTTPError {
	e.Err = err
	return e
}

// ErrInternal is the generic server error sent to clients.
var ErrInternal = NewHTTPError(http.StatusInternalServerError, "Internal server error")

// AsHTTPError returns the HTTPError in err's chain, or ErrInternal wrapping err.
func AsHTTPError(err error) HTTPError {
	var he HTTPError
	if errors.As(err, &he) {
		return he
	}
	return ErrInternal.WithCause(err)
}
