package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors. Fatal at startup, never retried.
const (
	// ErrCodeInvalidInput indicates a configuration value is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required configuration value is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Registry errors. Local to one attempt against one endpoint.
const (
	// ErrCodeRegistryUnavailable indicates the registry could not be reached.
	ErrCodeRegistryUnavailable ErrorCode = "REGISTRY_UNAVAILABLE"
	// ErrCodeRegistryRejected indicates the registry answered with a status
	// other than the one expected.
	ErrCodeRegistryRejected ErrorCode = "REGISTRY_REJECTED"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Lifecycle and internal errors.
const (
	// ErrCodeNotStarted indicates a component was used before Start.
	ErrCodeNotStarted ErrorCode = "NOT_STARTED"
	// ErrCodeInternal indicates an unexpected failure such as a panic or an
	// encoding error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeRegistryUnavailable: true,
	ErrCodeRegistryRejected:    true,
	ErrCodeTimeout:             true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
