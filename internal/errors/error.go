// Package errors provides the error taxonomy for catalog operations.
package errors

import (
	"errors"
	"fmt"
)

// ErrProductNotFound reports that no live record exists for a product code.
var ErrProductNotFound = errors.New("product not found")

// ErrDuplicateCode reports that a product code is already taken, whether
// detected by the pre-insert check or by the store's uniqueness constraint.
var ErrDuplicateCode = errors.New("product code already exists")

// ValidationError reports rejected input. It is always recoverable by the
// caller resubmitting corrected input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
