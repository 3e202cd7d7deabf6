package content

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no record matches the requested id or slug.
	ErrNotFound = errors.New("content: not found")
	// ErrConflict is returned when a write violates a uniqueness rule, such as a reused slug.
	ErrConflict = errors.New("content: conflict")
	// ErrValidation matches every *ValidationError through errors.Is.
	ErrValidation = errors.New("content: validation failed")
)

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StoreError wraps a failure reported by the content store (transport, auth, constraint).
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("content store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// IsStoreError reports whether err is a content-store failure that may succeed on retry.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
