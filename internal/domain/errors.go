package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals a rejected request argument.
	ErrValidation = errors.New("validation failed")
	// ErrMalformedCursor signals a pagination cursor that cannot be decoded.
	ErrMalformedCursor = errors.New("malformed cursor")
	// ErrUnsupportedArgument signals an argument the API accepts in its schema but never serves.
	ErrUnsupportedArgument = errors.New("unsupported argument")
	// ErrUpstream signals a failed search engine call.
	ErrUpstream = errors.New("search engine error")
)

// ValidationError wraps ErrValidation with the name of the offending argument.
type ValidationError struct {
	Argument string
	Message  string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for argument.
func NewValidationError(argument, message string) error {
	return &ValidationError{Argument: argument, Message: message}
}

// NewUnsupportedArgument reports that argument was supplied but is not supported.
func NewUnsupportedArgument(argument string) error {
	return fmt.Errorf("%w: %q is not supported", ErrUnsupportedArgument, argument)
}
