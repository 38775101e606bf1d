// Package errors provides the structured error type shared by the announcer.
//
// AppError carries a machine-readable code, a human message, a retryable
// flag and an optional cause. Configuration problems (InvalidInput,
// MissingField, Validation) are fatal at startup; registry failures
// (RegistryUnavailable, RegistryRejected) and Internal errors are local to a
// single announcement attempt.
package errors
