package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by repositories, services and the HTTP layer.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidID     = errors.New("invalid id")
	ErrValidation    = errors.New("validation failed")
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrConfiguration = errors.New("configuration error")
	ErrConnection    = errors.New("connection error")
)

// ValidationError reports every field or reference problem found while
// preparing a document for a write. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Problems []string
	Cause    error
}

// NewValidationError returns a ValidationError with the given problems.
func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
