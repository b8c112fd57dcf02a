package ir

import (
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// NewInstance allocates a zero instance of the struct type t and returns a
// pointer to it.
func NewInstance(t reflect.Type) any {
	return reflect.New(t).Interface()
}

// PopulateInstance copies fields onto the struct that inst points to.
//
// A value assignable to its field is stored as is, so pointers keep their
// identity and an instance may hold a reference to itself. Other values
// (objects into nested structs, arrays into typed slices, numbers into
// integer fields) are converted with mapstructure. Keys without a matching
// field and symbol keys are ignored.
func PopulateInstance(inst any, fields *Object) error {
	rv := reflect.ValueOf(inst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("populate: need a non-nil pointer to struct, got %T", inst)
	}
	target := rv.Elem()
	index := fieldIndex(target.Type())

	for _, p := range fields.Pairs() {
		name, ok := p.Key.(string)
		if !ok {
			continue
		}
		idx, ok := index[name]
		if !ok {
			continue
		}
		field := target.FieldByIndex(idx)
		if err := assignField(field, p.Value); err != nil {
			return fmt.Errorf("populate %s.%s: %w", target.Type().Name(), name, err)
		}
	}
	return nil
}

func assignField(field reflect.Value, v any) error {
	switch Classify(v) {
	case CategoryUndefined, CategoryNull:
		field.SetZero()
		return nil
	}

	val := reflect.ValueOf(v)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}

	plain, err := plainValue(v, map[any]bool{})
	if err != nil {
		return err
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          FieldTag,
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           field.Addr().Interface(),
		DecodeHook:       mapstructure.DecodeHookFuncType(valueModelHook),
	})
	if err != nil {
		return err
	}
	return dec.Decode(plain)
}

var timeType = reflect.TypeFor[time.Time]()

// valueModelHook converts value-model scalars into the Go types struct
// fields commonly use for them.
func valueModelHook(_, to reflect.Type, data any) (any, error) {
	switch v := data.(type) {
	case *big.Int:
		switch to.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if !v.IsInt64() {
				return nil, fmt.Errorf("big integer %s overflows %s", v, to)
			}
			return v.Int64(), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if !v.IsUint64() {
				return nil, fmt.Errorf("big integer %s overflows %s", v, to)
			}
			return v.Uint64(), nil
		case reflect.String:
			return v.String(), nil
		}
	case *Date:
		if to == timeType {
			return v.Time, nil
		}
		if to.Kind() == reflect.String {
			return v.ISOString(), nil
		}
	case *URL:
		if to.Kind() == reflect.String {
			return v.String(), nil
		}
	}
	return data, nil
}

// plainValue turns objects and arrays into the map and slice shapes
// mapstructure understands. Other values pass through.
func plainValue(v any, active map[any]bool) (any, error) {
	switch val := v.(type) {
	case *Object:
		if active[val] {
			return nil, fmt.Errorf("cyclic object cannot be converted to a field value")
		}
		active[val] = true
		defer delete(active, val)
		out := make(map[string]any, val.Len())
		for _, p := range val.Pairs() {
			k, ok := p.Key.(string)
			if !ok {
				continue
			}
			pv, err := plainValue(p.Value, active)
			if err != nil {
				return nil, err
			}
			out[k] = pv
		}
		return out, nil
	case *Array:
		if active[val] {
			return nil, fmt.Errorf("cyclic array cannot be converted to a field value")
		}
		active[val] = true
		defer delete(active, val)
		out := make([]any, len(val.Items))
		for i, it := range val.Items {
			pv, err := plainValue(it, active)
			if err != nil {
				return nil, err
			}
			out[i] = pv
		}
		return out, nil
	case *Boxed:
		return val.Value, nil
	case Undefined, Null:
		return nil, nil
	}
	return v, nil
}

// fieldIndex maps wire field names to struct field index paths, using the
// same naming and flattening rules as InstanceFields.
func fieldIndex(t reflect.Type) map[string][]int {
	out := map[string][]int{}
	var walk func(t reflect.Type, prefix []int)
	walk = func(t reflect.Type, prefix []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			idx := append(append([]int(nil), prefix...), i)
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get(FieldTag) == "" {
				walk(sf.Type, idx)
				continue
			}
			if !sf.IsExported() {
				continue
			}
			name, skip := FieldName(sf)
			if skip {
				continue
			}
			if _, exists := out[name]; !exists {
				out[name] = idx
			}
		}
	}
	walk(t, nil)
	return out
}
