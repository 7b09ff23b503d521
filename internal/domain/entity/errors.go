package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a transaction id does not exist
	ErrNotFound = errors.New("transaction not found")

	// ErrEditWindowExpired is returned when a transaction is too old to be edited
	ErrEditWindowExpired = errors.New("edit window expired")
)

// ValidationError reports malformed input or a value outside a closed set
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a validation error for field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StoreError wraps a failure of the persistence layer
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStore reports whether err carries a StoreError
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
