// Package errdefs holds the error taxonomy shared by the cracking core.
//
// Errors are always wrapped around one of the sentinels below, so callers
// classify them with errors.Is.
package errdefs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned at construction time, before a run starts.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrGeneratorIO means the line source feeding a generator failed. It aborts the run.
	ErrGeneratorIO = errors.New("generator i/o failure")
	// ErrWorkerFailure means a worker returned an error or panicked. It aborts the run.
	ErrWorkerFailure = errors.New("worker failure")
	// ErrOverflow is returned by keyspace arithmetic that exceeds uint64.
	ErrOverflow = errors.New("keyspace overflow")
)

// Invalid wraps ErrInvalidConfiguration with a formatted detail.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// GeneratorIO wraps a line source error.
func GeneratorIO(err error) error {
	return fmt.Errorf("%w: %w", ErrGeneratorIO, err)
}

// WorkerFailure wraps a worker error or recovered panic.
func WorkerFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrWorkerFailure, err)
}
