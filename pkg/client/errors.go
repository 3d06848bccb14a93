package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrInvalidPagination is returned before any request when page < 0 or size <= 0.
var ErrInvalidPagination = errors.New("invalid pagination: page must be >= 0 and size > 0")

// FieldError is one entry of a Spring validation error list
type FieldError struct {
	Field          string `json:"field"`
	DefaultMessage string `json:"defaultMessage"`
}

// APIError represents a non-2xx response from the FitPay backend
type APIError struct {
	StatusCode int          `json:"-"`
	ErrorText  string       `json:"error,omitempty"`
	Message    string       `json:"message"`
	Errors     []FieldError `json:"errors,omitempty"`
	Path       string       `json:"path,omitempty"`
	Body       string       `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if msg := e.UserMessage(); msg != "" {
		return fmt.Sprintf("API error: %s (status: %d)", msg, e.StatusCode)
	}
	return fmt.Sprintf("API error (status %d)", e.StatusCode)
}

// UserMessage returns the backend's structured message: the general message when
// present, otherwise the field errors joined as "field: message".
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Errors) > 0 {
		parts := make([]string, 0, len(e.Errors))
		for _, fe := range e.Errors {
			if fe.Field == "" {
				parts = append(parts, fe.DefaultMessage)
				continue
			}
			parts = append(parts, fe.Field+": "+fe.DefaultMessage)
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// IsNotFound returns true if the error is a 404 not found error
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsConflict returns true for 409, typically a referential constraint on delete
func (e *APIError) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}

// IsValidationError returns true if the error is a 400 validation error
func (e *APIError) IsValidationError() bool {
	return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
}

// IsServerError returns true if the error is a 5xx server error
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// TransportError is returned when the request never produced an HTTP response
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s %s failed: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsTransport reports whether err is a network/transport failure.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}
