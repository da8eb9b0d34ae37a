// Package bench ties the record table, executors, epoch advancer, workload
// generator, and metrics together into a runnable benchmark: Run builds the
// shared state once and passes it by reference to every worker (see
// SPEC_FULL.md §9).
package bench

import "github.com/pkg/errors"

// ConfigError reports a malformed or out-of-range CLI argument: a fatal,
// startup-time condition distinct from a recoverable transaction abort.
type ConfigError struct {
	cause error
}

func newConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{cause: errors.Errorf(format, args...)}
}

func (e *ConfigError) Error() string { return "config: " + e.cause.Error() }
func (e *ConfigError) Unwrap() error { return e.cause }

// AllocationError reports failure to build the record table or per-worker
// sets. In Go this realistically only happens when a size argument would
// overflow int, but the error type is kept distinct from ConfigError so
// callers can tell "bad input" from "could not build the table" apart.
type AllocationError struct {
	cause error
}

func newAllocationError(cause error) *AllocationError {
	return &AllocationError{cause: errors.Wrap(cause, "allocating table")}
}

func (e *AllocationError) Error() string { return e.cause.Error() }
func (e *AllocationError) Unwrap() error { return e.cause }
