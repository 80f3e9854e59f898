package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before any mutation.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned for unknown skill or log ids.
	ErrNotFound = errors.New("not found")
	// ErrMalformedImport is returned when a backup bundle is structurally corrupt.
	ErrMalformedImport = errors.New("malformed import")
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
