package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates two strategies produced different products.
	ExitErrorConfig   = 4   // Indicates a configuration or precondition error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// Sentinels for matching the domain errors with errors.Is.
var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrIndexOutOfRange   = errors.New("index out of range")
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError encapsulates a multiplication failure while preserving the
// original cause.
type CalculationError struct {
	// Cause is the underlying error that triggered this calculation error.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e CalculationError) Error() string { return e.Cause.Error() }

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e CalculationError) Unwrap() error { return e.Cause }

// DimensionMismatchError is returned when the operands of a multiplication
// do not share the same dimension. No product is ever produced alongside it.
type DimensionMismatchError struct {
	Lhs int
	Rhs int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: lhs is %dx%d, rhs is %dx%d", e.Lhs, e.Lhs, e.Rhs, e.Rhs)
}

// Is reports whether target is ErrDimensionMismatch.
func (e *DimensionMismatchError) Is(target error) bool { return target == ErrDimensionMismatch }

// IndexOutOfRangeError is returned when a matrix is indexed outside [0, dim).
type IndexOutOfRangeError struct {
	Row int
	Col int
	Dim int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index (%d, %d) out of range for %dx%d matrix", e.Row, e.Col, e.Dim, e.Dim)
}

// Is reports whether target is ErrIndexOutOfRange.
func (e *IndexOutOfRangeError) Is(target error) bool { return target == ErrIndexOutOfRange }

// TaskError reports the failure of a single row task during a parallel
// multiplication. Row is the first output row owned by the task.
type TaskError struct {
	Row   int
	Cause error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("row task %d failed: %v", e.Row, e.Cause)
}

// Unwrap returns the task's underlying failure.
func (e *TaskError) Unwrap() error { return e.Cause }

// TimeoutError represents a multiplication timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// MemoryError represents a memory limit exceeded condition. It captures the
// requested, available, and limit memory values for diagnostic purposes.
type MemoryError struct {
	// Requested is the number of bytes the operation needed.
	Requested uint64
	// Available is the number of bytes currently available.
	Available uint64
	// Limit is the configured memory limit in bytes.
	Limit uint64
}

// Error returns a formatted message describing the memory error.
func (e MemoryError) Error() string {
	return fmt.Sprintf("memory error: requested %d bytes, available %d bytes (limit: %d)", e.Requested, e.Available, e.Limit)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// It returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsPreconditionError reports whether err is a caller contract violation
// (mismatched dimensions, bad index, invalid input) rather than a runtime fault.
func IsPreconditionError(err error) bool {
	var validationErr ValidationError
	return errors.Is(err, ErrDimensionMismatch) ||
		errors.Is(err, ErrIndexOutOfRange) ||
		errors.As(err, &validationErr)
}
