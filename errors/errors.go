package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried on the next period.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status reported when the error is surfaced over HTTP.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// InvalidInput creates an AppError for an invalid configuration value.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Details: details,
	}
}

// MissingField creates an AppError for a missing required value.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field},
	}
}

// Validation creates an AppError summarizing struct validation failures.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// RegistryUnavailable creates an AppError for a registry endpoint that
// could not be reached.
func RegistryUnavailable(endpoint string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeRegistryUnavailable, Message: fmt.Sprintf("registry %s is unreachable", endpoint),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"endpoint": endpoint}, Cause: cause,
	}
}

// RegistryRejected creates an AppError for a registry endpoint that answered
// with an unexpected status code.
func RegistryRejected(endpoint string, statusCode int) *AppError {
	return &AppError{
		Code: ErrCodeRegistryRejected, Message: fmt.Sprintf("registry %s answered HTTP %d", endpoint, statusCode),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"endpoint": endpoint, "status_code": statusCode},
	}
}

// Timeout creates an AppError for an operation that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s timed out", operation),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// NotStarted creates an AppError for a component used before Start.
func NotStarted(component string) *AppError {
	return &AppError{
		Code: ErrCodeNotStarted, Message: fmt.Sprintf("%s is not started", component),
		HTTPStatus: http.StatusServiceUnavailable,
		Details:    map[string]any{"component": component},
	}
}

// Internal creates an AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
