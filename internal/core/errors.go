package core

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across service and transport layers. Handlers map
// them onto HTTP status codes; everything else is wrapped validation or
// dependency failure.
var (
	// ErrNotFound signals that a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden signals a cross-user access attempt.
	ErrForbidden = errors.New("forbidden")
)

// DependencyError wraps a failure of an accessor or persistence port,
// including timeouts. Op names the operation that failed.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency %s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// NewDependencyError wraps err as a dependency failure of op.
func NewDependencyError(op string, err error) *DependencyError {
	return &DependencyError{Op: op, Err: err}
}

// IsDependencyError reports whether err is (or wraps) a DependencyError.
func IsDependencyError(err error) bool {
	var de *DependencyError
	return errors.As(err, &de)
}

// ValidationError wraps a malformed input with the field that rejected it.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps err as a validation failure of field.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
