package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced feedback item does not exist.
	ErrNotFound = errors.New("feedback not found")

	// ErrInvalidID is returned when an identifier is not structurally valid
	// for the backing store. It is distinct from ErrNotFound.
	ErrInvalidID = errors.New("invalid feedback id")
)

// ValidationError reports missing or invalid client input. Message is safe
// to show to the caller as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalidf builds a ValidationError with a formatted message.
func Invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
