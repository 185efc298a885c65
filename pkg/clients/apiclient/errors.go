package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidPayload wraps request validation failures; nothing was sent
var ErrInvalidPayload = errors.New("invalid request payload")

// APIError is a non-2xx response from the backend
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string // best-effort response text, may be empty
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s failed with status %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsNotFound reports whether err is an APIError with status 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// DecodeError is a 2xx response whose body didn't match the expected shape
type DecodeError struct {
	Method     string
	Path       string
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s %s (status %d): %v", e.Method, e.Path, e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
