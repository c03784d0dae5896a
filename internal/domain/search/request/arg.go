package request

import (
	"encoding/json"
	"fmt"
)

// Arg is an optional argument that tells an absent key from an explicit null.
type Arg[T any] struct {
	Set   bool
	Value *T
}

// Some returns a supplied, non-null argument.
func Some[T any](v T) Arg[T] {
	return Arg[T]{Set: true, Value: &v}
}

// Null returns an argument supplied as an explicit null.
func Null[T any]() Arg[T] {
	return Arg[T]{Set: true}
}

// IsNull reports whether the argument was supplied as null.
func (a Arg[T]) IsNull() bool { return a.Set && a.Value == nil }

// UnmarshalJSON implements json.Unmarshaler. It is only called for keys present in the input.
func (a *Arg[T]) UnmarshalJSON(data []byte) error {
	a.Set = true
	if string(data) == "null" {
		a.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode argument: %w", err)
	}
	a.Value = &v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Arg[T]) MarshalJSON() ([]byte, error) {
	if a.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}
