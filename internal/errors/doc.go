// Package apperrors defines structured application error types,
// separating error classes (configuration, precondition, task failure,
// calculation) while carrying the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// Wrapping types implement Unwrap() and the domain errors implement Is() so
// callers can match them with errors.Is against the exported sentinels.
package apperrors
