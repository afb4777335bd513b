package mutator

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidTarget is returned when target is not a non-nil pointer
	// to struct.
	ErrInvalidTarget = errors.New("target must be a non-nil pointer to struct")
	// ErrAlreadyRegistered is returned when a mutator for the key exists.
	ErrAlreadyRegistered = errors.New("mutator already registered")
)

// PropertyNotFoundError is returned if property doesn't name a writable
// field of the target type.
type PropertyNotFoundError struct {
	Key
	Reason string
}

func (e *PropertyNotFoundError) Error() string {
	return fmt.Sprintf("property %v not found: %s", e.Key, e.Reason)
}

// TypeMismatchError is returned if value cannot be assigned to the
// property. Actual is nil for untyped nil values.
type TypeMismatchError struct {
	Key
	Expected reflect.Type
	Actual   reflect.Type
}

func (e *TypeMismatchError) Error() string {
	actual := "nil"
	if e.Actual != nil {
		actual = e.Actual.String()
	}
	return fmt.Sprintf("property %v: cannot assign %s to %v", e.Key, actual, e.Expected)
}
