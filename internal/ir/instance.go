package ir

import (
	"reflect"
	"strings"
)

// Marshaler is the projection hook of a class instance: it returns a plain
// value that stands in for the instance on the wire.
type Marshaler interface {
	MarshalValue() (any, error)
}

// Unmarshaler is implemented by a pointer to a registered class type that
// can rebuild itself from the projected value produced by Marshaler.
type Unmarshaler interface {
	UnmarshalValue(v any) error
}

// FieldTag is the struct tag consulted for instance field names.
const FieldTag = "jsonx"

// ClassOf returns the struct type behind a class instance, dereferencing
// one pointer level. It reports false for anything that is not a struct.
func ClassOf(v any) (reflect.Type, bool) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, false
	}
	return t, true
}

// HasUnmarshaler reports whether a pointer to t implements Unmarshaler.
func HasUnmarshaler(t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(reflect.TypeFor[Unmarshaler]())
}

// Field is one enumerable field of a class instance.
type Field struct {
	Name  string
	Value any
}

// InstanceFields returns the exported fields of a struct (or pointer to
// struct) in declaration order. The jsonx tag renames a field and "-"
// skips it. Embedded structs are flattened.
func InstanceFields(v any) []Field {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	var fields []Field
	collectFields(rv, &fields)
	return fields
}

func collectFields(rv reflect.Value, out *[]Field) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get(FieldTag) == "" {
			collectFields(rv.Field(i), out)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		name, skip := FieldName(sf)
		if skip {
			continue
		}
		*out = append(*out, Field{Name: name, Value: rv.Field(i).Interface()})
	}
}

// FieldName returns the wire name of a struct field and whether to skip it.
func FieldName(sf reflect.StructField) (string, bool) {
	tag := sf.Tag.Get(FieldTag)
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}
	return name, false
}
