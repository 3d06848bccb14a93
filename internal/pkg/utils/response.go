package utils

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/fitpay/fitpay-admin/internal/pkg/errors"
)

// SuccessResponse wraps the payload of a successful JSON answer.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope for a failed JSON answer.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the error kind as Code, the operator message and, for
// validation failures, the offending form fields.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteJSON encodes data as the response body.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) error {
	return WriteJSON(w, status, SuccessResponse{Success: true, Data: data})
}

// WriteError classifies err and writes it with its HTTP status. fallback is
// the message used when err carries none for the operator.
func WriteError(w http.ResponseWriter, err error, fallback string) error {
	detail := ErrorDetail{
		Code:    string(errors.KindOf(err)),
		Message: errors.UserMessage(err, fallback),
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		detail.Fields = appErr.Fields
	}
	return WriteJSON(w, errors.HTTPStatus(err), ErrorResponse{Error: detail})
}

// WriteErrorCode writes an error that did not come from a backend call, such
// as a rate limit or a missing session.
func WriteErrorCode(w http.ResponseWriter, status int, code, message string) error {
	return WriteJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}
