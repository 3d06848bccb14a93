package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/fitpay/fitpay-admin/pkg/cep"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

// Kind classifies a failure the way a screen reports it
type Kind string

const (
	// KindValidation is a client-side check that blocked the request.
	KindValidation Kind = "VALIDATION_ERROR"
	// KindRejected is a non-2xx answer from the backend.
	KindRejected Kind = "REJECTED"
	// KindNotFound is a missing entity or postal code.
	KindNotFound Kind = "NOT_FOUND"
	// KindTransport means no response was received.
	KindTransport Kind = "TRANSPORT_ERROR"
	// KindInternal covers everything else.
	KindInternal Kind = "INTERNAL_ERROR"
)

// AppError represents an application error with additional context
type AppError struct {
	Kind    Kind              `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Wrap wraps an error with an AppError
func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// Validation creates a client-side validation error with per-field messages
func Validation(message string, fields map[string]string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

// Internal creates an internal error
func Internal(message string, err error) *AppError {
	return Wrap(err, KindInternal, message)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(KindNotFound, fmt.Sprintf("%s não encontrado", resource))
}

// KindOf classifies err, looking through wrapped backend and transport errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	if apiErr, ok := client.AsAPIError(err); ok {
		if apiErr.IsNotFound() {
			return KindNotFound
		}
		return KindRejected
	}
	if client.IsTransport(err) {
		return KindTransport
	}
	if stderrors.Is(err, cep.ErrNotFound) {
		return KindNotFound
	}
	if stderrors.Is(err, cep.ErrInvalidCEP) || stderrors.Is(err, client.ErrInvalidPagination) {
		return KindValidation
	}
	return KindInternal
}

// UserMessage picks the text shown to the operator: a validation message, the
// backend's structured message when present, otherwise fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Kind == KindValidation && appErr.Message != "" {
		return appErr.Message
	}
	if apiErr, ok := client.AsAPIError(err); ok {
		if msg := apiErr.UserMessage(); msg != "" {
			return msg
		}
	}
	if appErr != nil && appErr.Message != "" && appErr.Err == nil {
		return appErr.Message
	}
	return fallback
}

// HTTPStatus maps err to the status the console answers with.
func HTTPStatus(err error) int {
	if apiErr, ok := client.AsAPIError(err); ok {
		return apiErr.StatusCode
	}
	switch KindOf(err) {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindTransport:
		return http.StatusBadGateway
	case "":
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
