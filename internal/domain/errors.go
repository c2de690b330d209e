package domain

import "errors"

var ErrNotFound = errors.New("not found")

// ValidationError carries a message meant for the shopper.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrCorruptSnapshot marks a stored value that exists but cannot be parsed.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")
