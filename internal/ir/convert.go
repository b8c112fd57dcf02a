package ir

import (
	"net/url"
	"reflect"
	"time"
)

func numberOf(v any) float64 {
	if f, ok := toFloat(v); ok {
		return f
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	default:
		return rv.Float()
	}
}

// NumberOf returns the float64 value of a number-category value.
func NumberOf(v any) float64 {
	return numberOf(v)
}

// DateTime returns the instant of a date-category value.
func DateTime(v any) time.Time {
	switch d := v.(type) {
	case *Date:
		return d.Time
	case time.Time:
		return d.UTC().Truncate(time.Millisecond)
	}
	return time.Time{}
}

func urlString(v any) string {
	switch u := v.(type) {
	case *URL:
		return u.String()
	case *url.URL:
		if parsed, err := URLFrom(u); err == nil {
			return parsed.String()
		}
		return u.String()
	}
	return ""
}

// URLOf converts a URL-category value to *URL.
func URLOf(v any) (*URL, error) {
	switch u := v.(type) {
	case *URL:
		return u, nil
	case *url.URL:
		return URLFrom(u)
	}
	return nil, &UnsupportedTypeError{Type: reflect.TypeOf(v)}
}

// SearchParamsOf converts a query-category value to *URLSearchParams.
// url.Values are emitted in sorted name order.
func SearchParamsOf(v any) *URLSearchParams {
	switch p := v.(type) {
	case *URLSearchParams:
		return p
	case url.Values:
		return ParseURLSearchParams(p.Encode())
	}
	return &URLSearchParams{}
}

// ErrorOf converts an error-category value to *Error.
func ErrorOf(v any) *Error {
	if e, ok := v.(*Error); ok {
		return e
	}
	if err, ok := v.(error); ok {
		return FromGoError(err)
	}
	return NewError("")
}

// BufferOf converts a buffer-category value to a Buffer. A []byte becomes
// a Uint8Array sharing the same storage.
func BufferOf(v any) Buffer {
	switch b := v.(type) {
	case Buffer:
		return b
	case []byte:
		return &Uint8Array{Elems: b}
	}
	return &Uint8Array{}
}
