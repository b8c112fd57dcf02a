package ir

import (
	"cmp"
	"fmt"
	"math/big"
	"net/url"
	"reflect"
	"slices"
	"time"
)

// Category is the runtime classification of a value. Encoders classify a
// value once and switch on the result.
type Category int

const (
	CategoryUnsupported Category = iota
	CategoryUndefined
	CategoryNull
	CategoryBoolean
	CategoryNumber
	CategoryBigInt
	CategoryString
	CategorySymbol
	CategoryBoxed
	CategoryArray
	CategoryObject
	CategoryRegExp
	CategoryDate
	CategoryURL
	CategoryURLSearchParams
	CategoryError
	CategorySet
	CategoryMap
	CategoryBuffer
	CategoryInstance
)

var categoryNames = map[Category]string{
	CategoryUnsupported:     "unsupported",
	CategoryUndefined:       "undefined",
	CategoryNull:            "null",
	CategoryBoolean:         "boolean",
	CategoryNumber:          "number",
	CategoryBigInt:          "bigint",
	CategoryString:          "string",
	CategorySymbol:          "symbol",
	CategoryBoxed:           "boxed",
	CategoryArray:           "array",
	CategoryObject:          "object",
	CategoryRegExp:          "regexp",
	CategoryDate:            "date",
	CategoryURL:             "url",
	CategoryURLSearchParams: "urlsearchparams",
	CategoryError:           "error",
	CategorySet:             "set",
	CategoryMap:             "map",
	CategoryBuffer:          "buffer",
	CategoryInstance:        "instance",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// IsObjectLike reports whether values of the category carry identity and
// take part in the reference protocol. Symbols take part too but are not
// object-like.
func (c Category) IsObjectLike() bool {
	switch c {
	case CategoryUndefined, CategoryNull, CategoryBoolean, CategoryNumber,
		CategoryBigInt, CategoryString, CategorySymbol, CategoryUnsupported:
		return false
	}
	return true
}

// Classify returns the category of v. Besides the ir types it accepts Go
// conveniences: integer and float kinds, slices, maps, structs, time.Time,
// *url.URL, url.Values, []byte and any error.
func Classify(v any) Category {
	switch val := v.(type) {
	case nil, Null:
		return CategoryNull
	case Undefined:
		return CategoryUndefined
	case bool:
		return CategoryBoolean
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return CategoryNumber
	case *big.Int:
		if val == nil {
			return CategoryNull
		}
		return CategoryBigInt
	case string:
		return CategoryString
	case *Symbol:
		return nilOr(val == nil, CategorySymbol)
	case *Boxed:
		return nilOr(val == nil, CategoryBoxed)
	case *Array:
		return nilOr(val == nil, CategoryArray)
	case *Object:
		return nilOr(val == nil, CategoryObject)
	case *RegExp:
		return nilOr(val == nil, CategoryRegExp)
	case *Date:
		return nilOr(val == nil, CategoryDate)
	case time.Time:
		return CategoryDate
	case *URL:
		return nilOr(val == nil, CategoryURL)
	case *url.URL:
		return nilOr(val == nil, CategoryURL)
	case *URLSearchParams:
		return nilOr(val == nil, CategoryURLSearchParams)
	case url.Values:
		return CategoryURLSearchParams
	case *Error:
		return nilOr(val == nil, CategoryError)
	case *Set:
		return nilOr(val == nil, CategorySet)
	case *Map:
		return nilOr(val == nil, CategoryMap)
	case []byte:
		return CategoryBuffer
	case Buffer:
		if reflect.ValueOf(val).IsNil() {
			return CategoryNull
		}
		return CategoryBuffer
	case Marshaler:
		if isNilPointer(v) {
			return CategoryNull
		}
		return CategoryInstance
	case error:
		if isNilPointer(v) {
			return CategoryNull
		}
		return CategoryError
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return CategoryNull
		}
		if rv.Elem().Kind() == reflect.Struct {
			return CategoryInstance
		}
	case reflect.Struct:
		return CategoryInstance
	case reflect.Slice:
		if rv.IsNil() {
			return CategoryNull
		}
		return CategoryArray
	case reflect.Array:
		return CategoryArray
	case reflect.Map:
		if rv.IsNil() {
			return CategoryNull
		}
		if rv.Type().Key().Kind() == reflect.String {
			return CategoryObject
		}
		return CategoryMap
	case reflect.String:
		return CategoryString
	case reflect.Bool:
		return CategoryBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return CategoryNumber
	}
	return CategoryUnsupported
}

func nilOr(isNil bool, c Category) Category {
	if isNil {
		return CategoryNull
	}
	return c
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// KindName names the runtime kind of v for error messages, in typeof terms.
func KindName(v any) string {
	switch Classify(v) {
	case CategoryUndefined:
		return "undefined"
	case CategoryNull:
		return "null"
	case CategoryBoolean:
		return "boolean"
	case CategoryNumber:
		return "number"
	case CategoryBigInt:
		return "bigint"
	case CategoryString:
		return "string"
	case CategorySymbol:
		return "symbol"
	case CategoryUnsupported:
		return fmt.Sprintf("%T", v)
	default:
		return "object"
	}
}

// UnsupportedTypeError is returned when a value has no category.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("jsonx: unsupported type: %v", e.Type)
}

// Identity returns the key under which v takes part in the reference
// protocol. Pointers are their own identity; Go maps and slices are keyed
// by their backing storage.
func Identity(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, false
		}
		return v, true
	case reflect.Map:
		if rv.IsNil() {
			return nil, false
		}
		return mapIdentity{ptr: rv.Pointer()}, true
	case reflect.Slice:
		if rv.IsNil() || rv.Len() == 0 {
			return nil, false
		}
		return sliceIdentity{ptr: rv.Pointer(), len: rv.Len(), elem: rv.Type().Elem()}, true
	}
	return nil, false
}

type mapIdentity struct{ ptr uintptr }

type sliceIdentity struct {
	ptr  uintptr
	len  int
	elem reflect.Type
}

// ArrayItems returns the elements of an array-category value.
func ArrayItems(v any) []any {
	if a, ok := v.(*Array); ok {
		return a.Items
	}
	if items, ok := v.([]any); ok {
		return items
	}
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// ObjectPairs returns the entries of an object-category value. Go maps are
// returned in sorted key order.
func ObjectPairs(v any) []Pair {
	if o, ok := v.(*Object); ok {
		return o.Pairs()
	}
	rv := reflect.ValueOf(v)
	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return cmp.Compare(a.String(), b.String())
	})
	out := make([]Pair, len(keys))
	for i, k := range keys {
		out[i] = Pair{Key: k.String(), Value: rv.MapIndex(k).Interface()}
	}
	return out
}

// MapEntries returns the entries of a map-category value. Go maps with
// numeric or string-like keys are returned in sorted key order.
func MapEntries(v any) []Pair {
	if m, ok := v.(*Map); ok {
		return m.Entries()
	}
	rv := reflect.ValueOf(v)
	keys := rv.MapKeys()
	slices.SortFunc(keys, compareReflectKeys)
	out := make([]Pair, len(keys))
	for i, k := range keys {
		out[i] = Pair{Key: k.Interface(), Value: rv.MapIndex(k).Interface()}
	}
	return out
}

func compareReflectKeys(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	}
	return 0
}
