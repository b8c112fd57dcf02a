package typify

import (
	"fmt"
	"math"
	"math/big"

	"github.com/roach88/jsonx/internal/ir"
)

// conversion turns the transformed argument of a constructor call into a
// value. Set, Map and Error are handled by the transformer itself because
// they are recorded before their argument is transformed.
type conversion func(arg any) (any, error)

var conversions = map[string]conversion{
	"Boolean":         boxBoolean,
	"Number":          boxNumber,
	"BigInt":          boxBigInt,
	"String":          boxString,
	"Date":            date,
	"RegExp":          regExp,
	"URL":             urlValue,
	"URLSearchParams": searchParams,
}

func init() {
	for _, kind := range ir.BufferKinds {
		conversions[string(kind)] = bufferConversion(kind)
	}
}

func boxBoolean(arg any) (any, error) {
	b, ok := arg.(bool)
	if !ok {
		return nil, fmt.Errorf("need a boolean, got %s", ir.KindName(arg))
	}
	return ir.NewBoxed(b), nil
}

func boxNumber(arg any) (any, error) {
	switch v := arg.(type) {
	case float64:
		return ir.NewBoxed(v), nil
	case string:
		f, err := ir.DecodeNumber(v)
		if err != nil {
			return nil, err
		}
		return ir.NewBoxed(f), nil
	}
	return nil, fmt.Errorf("need a number, got %s", ir.KindName(arg))
}

func boxBigInt(arg any) (any, error) {
	switch v := arg.(type) {
	case *big.Int:
		return ir.NewBoxed(v), nil
	case string:
		n, err := ir.NewBigInt(v)
		if err != nil {
			return nil, err
		}
		return ir.NewBoxed(n), nil
	}
	return nil, fmt.Errorf("need a big integer, got %s", ir.KindName(arg))
}

func boxString(arg any) (any, error) {
	s, ok := arg.(string)
	if !ok {
		return nil, fmt.Errorf("need a string, got %s", ir.KindName(arg))
	}
	return ir.NewBoxed(s), nil
}

func date(arg any) (any, error) {
	s, ok := arg.(string)
	if !ok {
		return nil, fmt.Errorf("need an ISO-8601 string, got %s", ir.KindName(arg))
	}
	return ir.ParseDate(s)
}

func regExp(arg any) (any, error) {
	obj, ok := arg.(*ir.Object)
	if !ok {
		return nil, fmt.Errorf("need an object with source and flags, got %s", ir.KindName(arg))
	}
	source, _ := obj.Get("source")
	flags, _ := obj.Get("flags")
	src, ok1 := source.(string)
	fl, ok2 := flags.(string)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("source and flags must be strings")
	}
	return ir.NewRegExp(src, fl), nil
}

func urlValue(arg any) (any, error) {
	s, ok := arg.(string)
	if !ok {
		return nil, fmt.Errorf("need a string, got %s", ir.KindName(arg))
	}
	return ir.ParseURL(s)
}

func searchParams(arg any) (any, error) {
	s, ok := arg.(string)
	if !ok {
		return nil, fmt.Errorf("need a string, got %s", ir.KindName(arg))
	}
	return ir.ParseURLSearchParams(s), nil
}

// bufferConversion builds a buffer from an array of numbers, or of big
// integers for the 64-bit kinds.
func bufferConversion(kind ir.BufferKind) conversion {
	return func(arg any) (any, error) {
		arr, ok := arg.(*ir.Array)
		if !ok {
			return nil, fmt.Errorf("need an array, got %s", ir.KindName(arg))
		}
		if kind.IsBigElement() {
			ns := make([]*big.Int, len(arr.Items))
			for i, it := range arr.Items {
				n, err := bigElement(it)
				if err != nil {
					return nil, fmt.Errorf("element %d: %w", i, err)
				}
				ns[i] = n
			}
			return ir.NewBufferFromBigInts(kind, ns)
		}
		fs := make([]float64, len(arr.Items))
		for i, it := range arr.Items {
			f, ok := it.(float64)
			if !ok {
				return nil, fmt.Errorf("element %d: need a number, got %s", i, ir.KindName(it))
			}
			fs[i] = f
		}
		return ir.NewBufferFromNumbers(kind, fs)
	}
}

func bigElement(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			b, _ := big.NewFloat(n).Int(nil)
			return b, nil
		}
	}
	return nil, fmt.Errorf("need a big integer, got %s", ir.KindName(v))
}
