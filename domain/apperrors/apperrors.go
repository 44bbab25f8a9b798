package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeUpstream      = "UPSTREAM_ERROR"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeInternal      = "INTERNAL_SERVER_ERROR"
)

// ApiError carries the structured error body surfaced over HTTP:
// message, machine code, HTTP status and diagnostic details.
type ApiError struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code"`
	Status  int                    `json:"-"`
	Details map[string]interface{} `json:"details,omitempty"`
	cause   error
}

func (e *ApiError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *ApiError) Unwrap() error { return e.cause }

// NewValidationError rejects bad or missing input. Never retried.
func NewValidationError(message string) *ApiError {
	return &ApiError{Message: message, Code: CodeValidation, Status: http.StatusBadRequest}
}

// NewUpstreamError wraps a generation or publication backend failure with the
// original error and enough request context to diagnose without reproducing.
func NewUpstreamError(message string, cause error, details map[string]interface{}) *ApiError {
	if details == nil {
		details = map[string]interface{}{}
	}
	if cause != nil {
		details["originalError"] = cause.Error()
	}
	return &ApiError{
		Message: message,
		Code:    CodeUpstream,
		Status:  http.StatusBadGateway,
		Details: details,
		cause:   cause,
	}
}

// NewConfigurationError reports a missing required credential. Fatal at
// startup; the process must not start serving.
func NewConfigurationError(message string) *ApiError {
	return &ApiError{Message: message, Code: CodeConfiguration, Status: http.StatusInternalServerError}
}

// AsApiError extracts an *ApiError from err's chain, if any.
func AsApiError(err error) (*ApiError, bool) {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
