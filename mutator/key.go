package mutator

import (
	"fmt"
	"reflect"
)

// Key identifies the mutator of a single property of a struct type.
type Key struct {
	Type     reflect.Type
	Property string
}

// KeyOf returns key for provided type and property. Pointer types are
// reduced to their struct type.
func KeyOf(t reflect.Type, property string) Key {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return Key{
		Type:     t,
		Property: property,
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%v.%s", k.Type, k.Property)
}
