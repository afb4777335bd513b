// Package mutator sets struct properties by name.
//
// A mutator is built once per struct type and property name and then kept
// in a Registry, so repeated calls skip the field lookup. Mutators can also
// be defined explicitly with Define, in which case no reflection is used to
// reach the property.
package mutator

import (
	"reflect"
)

// Func assigns value to the property of target. Target is the addressable
// struct value, value is either invalid for untyped nil or holds a
// concrete value.
type Func func(target, value reflect.Value) error

// build returns mutator that sets struct field named after key property.
func build(key Key) (Func, error) {
	if key.Property == "" {
		return nil, &PropertyNotFoundError{Key: key, Reason: "empty property name"}
	}
	field, ok := key.Type.FieldByName(key.Property)
	if !ok {
		return nil, &PropertyNotFoundError{Key: key, Reason: "no such field"}
	}
	if field.PkgPath != "" {
		return nil, &PropertyNotFoundError{Key: key, Reason: "field is unexported"}
	}
	index := field.Index
	fieldType := field.Type
	return func(target, value reflect.Value) error {
		f, err := target.FieldByIndexErr(index)
		if err != nil {
			return &PropertyNotFoundError{Key: key, Reason: "embedded struct is nil"}
		}
		if !f.CanSet() {
			return &PropertyNotFoundError{Key: key, Reason: "field is not writable"}
		}
		v, err := convert(key, fieldType, value)
		if err != nil {
			return err
		}
		f.Set(v)
		return nil
	}, nil
}

// Define registers mutator of O property that calls set function. The
// property doesn't have to be a struct field.
func Define[O any, V any](r *Registry, property string, set func(*O, V)) error {
	t := reflect.TypeOf((*O)(nil)).Elem()
	key := KeyOf(t, property)
	valueType := reflect.TypeOf((*V)(nil)).Elem()
	return r.Register(t, property, func(target, value reflect.Value) error {
		v, err := convert(key, valueType, value)
		if err != nil {
			return err
		}
		// zero value of interface type holds no dynamic type.
		typed, _ := v.Interface().(V)
		set(target.Addr().Interface().(*O), typed)
		return nil
	})
}

// convert checks if value can be assigned to the type t and returns the
// value of type t.
func convert(key Key, t reflect.Type, value reflect.Value) (reflect.Value, error) {
	if !value.IsValid() {
		if nillable(t.Kind()) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, &TypeMismatchError{Key: key, Expected: t}
	}
	vt := value.Type()
	if vt == t {
		return value, nil
	}
	if !vt.AssignableTo(t) {
		return reflect.Value{}, &TypeMismatchError{Key: key, Expected: t, Actual: vt}
	}
	v := reflect.New(t).Elem()
	v.Set(value)
	return v, nil
}

// normalize unwraps interface values so assignability is checked against
// the dynamic type. Nil interfaces become invalid values.
func normalize(value reflect.Value) reflect.Value {
	for value.IsValid() && value.Kind() == reflect.Interface {
		if value.IsNil() {
			return reflect.Value{}
		}
		value = value.Elem()
	}
	return value
}

func nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	}
	return false
}
