package domain

import (
	"errors"
	"testing"
)

func TestValidationError_Unwrap(t *testing.T) {
	err := NewValidationError("orderByName", `"orderByName" cannot be null.`)
	if !errors.Is(err, ErrValidation) {
		t.Fatal("expected errors.Is(err, ErrValidation)")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("expected *ValidationError")
	}
	if ve.Argument != "orderByName" {
		t.Errorf("unexpected argument: %s", ve.Argument)
	}
	if err.Error() != `"orderByName" cannot be null.` {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestNewUnsupportedArgument(t *testing.T) {
	err := NewUnsupportedArgument("before")
	if !errors.Is(err, ErrUnsupportedArgument) {
		t.Fatal("expected errors.Is(err, ErrUnsupportedArgument)")
	}
	if errors.Is(err, ErrValidation) {
		t.Error("unsupported argument must not be a validation error")
	}
}
