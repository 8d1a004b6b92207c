package entities

import (
	"errors"
	"fmt"
)

// ErrValidation is the sentinel matched by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports rejected input on a store mutation.
// It is the only error a mutator returns to its caller.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
