// Package apperr holds the error kinds shared across the narration pipeline.
// Concrete errors wrap one of these sentinels so callers can branch with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input the caller must fix: bad fragments,
	// out-of-range configuration, unsupported languages, malformed audio.
	ErrValidation = errors.New("validation error")

	// ErrResourceMissing marks a missing optional resource such as a
	// recognition model. The pipeline skips the dependent step.
	ErrResourceMissing = errors.New("resource missing")

	// ErrUpstream marks a failure reported by a synthesis or recognition backend.
	ErrUpstream = errors.New("upstream failure")
)

// Validation returns a formatted error wrapping ErrValidation.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ResourceMissing returns a formatted error wrapping ErrResourceMissing.
func ResourceMissing(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrResourceMissing, fmt.Sprintf(format, args...))
}

// Upstream tags err as a backend failure for op. A nil err stays nil.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}
