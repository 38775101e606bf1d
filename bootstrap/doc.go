// Package bootstrap runs a process built from lifecycle components.
//
// NewApp validates the config and initializes logging. Run starts the
// registered components in order, waits for SIGINT, SIGTERM or context
// cancellation, then stops them in reverse order within a graceful timeout.
package bootstrap
