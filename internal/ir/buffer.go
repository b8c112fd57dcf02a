package ir

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// BufferKind names a binary buffer or typed element array kind.
// The string value is also the constructor name used by the text codec.
type BufferKind string

const (
	KindArrayBuffer       BufferKind = "ArrayBuffer"
	KindSharedArrayBuffer BufferKind = "SharedArrayBuffer"
	KindDataView          BufferKind = "DataView"
	KindInt8Array         BufferKind = "Int8Array"
	KindUint8Array        BufferKind = "Uint8Array"
	KindUint8ClampedArray BufferKind = "Uint8ClampedArray"
	KindInt16Array        BufferKind = "Int16Array"
	KindUint16Array       BufferKind = "Uint16Array"
	KindInt32Array        BufferKind = "Int32Array"
	KindUint32Array       BufferKind = "Uint32Array"
	KindFloat32Array      BufferKind = "Float32Array"
	KindFloat64Array      BufferKind = "Float64Array"
	KindBigInt64Array     BufferKind = "BigInt64Array"
	KindBigUint64Array    BufferKind = "BigUint64Array"
)

// BufferKinds lists every buffer kind in tag order.
var BufferKinds = []BufferKind{
	KindArrayBuffer, KindSharedArrayBuffer, KindDataView,
	KindInt8Array, KindUint8Array, KindUint8ClampedArray,
	KindInt16Array, KindUint16Array, KindInt32Array, KindUint32Array,
	KindFloat32Array, KindFloat64Array, KindBigInt64Array, KindBigUint64Array,
}

// IsBigElement reports whether elements of the kind travel as decimal strings.
func (k BufferKind) IsBigElement() bool {
	return k == KindBigInt64Array || k == KindBigUint64Array
}

// Buffer is implemented by every binary buffer and typed array value.
type Buffer interface {
	BufferKind() BufferKind
}

type (
	// ArrayBuffer is a raw byte buffer.
	ArrayBuffer struct{ Data []byte }
	// SharedArrayBuffer is a byte buffer that may be shared between agents.
	SharedArrayBuffer struct{ Data []byte }
	// DataView is a byte view over a buffer; it serializes the whole buffer.
	DataView struct{ Data []byte }

	Int8Array         struct{ Elems []int8 }
	Uint8Array        struct{ Elems []uint8 }
	Uint8ClampedArray struct{ Elems []uint8 }
	Int16Array        struct{ Elems []int16 }
	Uint16Array       struct{ Elems []uint16 }
	Int32Array        struct{ Elems []int32 }
	Uint32Array       struct{ Elems []uint32 }
	Float32Array      struct{ Elems []float32 }
	Float64Array      struct{ Elems []float64 }
	BigInt64Array     struct{ Elems []int64 }
	BigUint64Array    struct{ Elems []uint64 }
)

func (*ArrayBuffer) BufferKind() BufferKind       { return KindArrayBuffer }
func (*SharedArrayBuffer) BufferKind() BufferKind { return KindSharedArrayBuffer }
func (*DataView) BufferKind() BufferKind          { return KindDataView }
func (*Int8Array) BufferKind() BufferKind         { return KindInt8Array }
func (*Uint8Array) BufferKind() BufferKind        { return KindUint8Array }
func (*Uint8ClampedArray) BufferKind() BufferKind { return KindUint8ClampedArray }
func (*Int16Array) BufferKind() BufferKind        { return KindInt16Array }
func (*Uint16Array) BufferKind() BufferKind       { return KindUint16Array }
func (*Int32Array) BufferKind() BufferKind        { return KindInt32Array }
func (*Uint32Array) BufferKind() BufferKind       { return KindUint32Array }
func (*Float32Array) BufferKind() BufferKind      { return KindFloat32Array }
func (*Float64Array) BufferKind() BufferKind      { return KindFloat64Array }
func (*BigInt64Array) BufferKind() BufferKind     { return KindBigInt64Array }
func (*BigUint64Array) BufferKind() BufferKind    { return KindBigUint64Array }

type numeric interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~float32 | ~float64
}

type wrapping interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32
}

func toFloats[E numeric](elems []E) []float64 {
	out := make([]float64, len(elems))
	for i, e := range elems {
		out[i] = float64(e)
	}
	return out
}

// wrapInts converts numbers with modular wrap-around, NaN and ±Infinity
// becoming 0.
func wrapInts[E wrapping](fs []float64) []E {
	out := make([]E, len(fs))
	for i, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		out[i] = E(int64(math.Mod(math.Trunc(f), 1<<32)))
	}
	return out
}

// clampBytes converts numbers with clamping to 0..255 and round-half-even.
func clampBytes(fs []float64) []uint8 {
	out := make([]uint8, len(fs))
	for i, f := range fs {
		switch {
		case math.IsNaN(f) || f <= 0:
			out[i] = 0
		case f >= 255:
			out[i] = 255
		default:
			out[i] = uint8(math.RoundToEven(f))
		}
	}
	return out
}

// BufferNumbers returns the wire elements of a non-64-bit buffer kind.
// Byte buffers yield their bytes.
func BufferNumbers(b Buffer) ([]float64, error) {
	switch v := b.(type) {
	case *ArrayBuffer:
		return toFloats(v.Data), nil
	case *SharedArrayBuffer:
		return toFloats(v.Data), nil
	case *DataView:
		return toFloats(v.Data), nil
	case *Int8Array:
		return toFloats(v.Elems), nil
	case *Uint8Array:
		return toFloats(v.Elems), nil
	case *Uint8ClampedArray:
		return toFloats(v.Elems), nil
	case *Int16Array:
		return toFloats(v.Elems), nil
	case *Uint16Array:
		return toFloats(v.Elems), nil
	case *Int32Array:
		return toFloats(v.Elems), nil
	case *Uint32Array:
		return toFloats(v.Elems), nil
	case *Float32Array:
		return toFloats(v.Elems), nil
	case *Float64Array:
		return toFloats(v.Elems), nil
	default:
		return nil, fmt.Errorf("%s elements are not plain numbers", b.BufferKind())
	}
}

// BufferBigInts returns the elements of a 64-bit buffer kind.
func BufferBigInts(b Buffer) ([]*big.Int, error) {
	switch v := b.(type) {
	case *BigInt64Array:
		out := make([]*big.Int, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = big.NewInt(e)
		}
		return out, nil
	case *BigUint64Array:
		out := make([]*big.Int, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = new(big.Int).SetUint64(e)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s elements are not big integers", b.BufferKind())
	}
}

// BufferDecimals returns the elements of a 64-bit buffer kind as decimal strings.
func BufferDecimals(b Buffer) ([]string, error) {
	switch v := b.(type) {
	case *BigInt64Array:
		out := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = strconv.FormatInt(e, 10)
		}
		return out, nil
	case *BigUint64Array:
		out := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = strconv.FormatUint(e, 10)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s elements are not big integers", b.BufferKind())
	}
}

// NewBufferFromNumbers builds a non-64-bit buffer kind from wire elements.
func NewBufferFromNumbers(kind BufferKind, fs []float64) (Buffer, error) {
	switch kind {
	case KindArrayBuffer:
		return &ArrayBuffer{Data: wrapInts[uint8](fs)}, nil
	case KindSharedArrayBuffer:
		return &SharedArrayBuffer{Data: wrapInts[uint8](fs)}, nil
	case KindDataView:
		return &DataView{Data: wrapInts[uint8](fs)}, nil
	case KindInt8Array:
		return &Int8Array{Elems: wrapInts[int8](fs)}, nil
	case KindUint8Array:
		return &Uint8Array{Elems: wrapInts[uint8](fs)}, nil
	case KindUint8ClampedArray:
		return &Uint8ClampedArray{Elems: clampBytes(fs)}, nil
	case KindInt16Array:
		return &Int16Array{Elems: wrapInts[int16](fs)}, nil
	case KindUint16Array:
		return &Uint16Array{Elems: wrapInts[uint16](fs)}, nil
	case KindInt32Array:
		return &Int32Array{Elems: wrapInts[int32](fs)}, nil
	case KindUint32Array:
		return &Uint32Array{Elems: wrapInts[uint32](fs)}, nil
	case KindFloat32Array:
		out := make([]float32, len(fs))
		for i, f := range fs {
			out[i] = float32(f)
		}
		return &Float32Array{Elems: out}, nil
	case KindFloat64Array:
		out := make([]float64, len(fs))
		copy(out, fs)
		return &Float64Array{Elems: out}, nil
	default:
		return nil, fmt.Errorf("%s cannot be built from numbers", kind)
	}
}

// NewBufferFromBigInts builds a 64-bit buffer kind, wrapping values modulo 2^64.
func NewBufferFromBigInts(kind BufferKind, ns []*big.Int) (Buffer, error) {
	mod := new(big.Int).Lsh(big.NewInt(1), 64)
	wrapped := make([]uint64, len(ns))
	for i, n := range ns {
		wrapped[i] = new(big.Int).Mod(n, mod).Uint64()
	}
	switch kind {
	case KindBigInt64Array:
		out := make([]int64, len(wrapped))
		for i, w := range wrapped {
			out[i] = int64(w)
		}
		return &BigInt64Array{Elems: out}, nil
	case KindBigUint64Array:
		return &BigUint64Array{Elems: wrapped}, nil
	default:
		return nil, fmt.Errorf("%s cannot be built from big integers", kind)
	}
}

// NewBufferFromDecimals builds a 64-bit buffer kind from decimal strings.
func NewBufferFromDecimals(kind BufferKind, ss []string) (Buffer, error) {
	ns := make([]*big.Int, len(ss))
	for i, s := range ss {
		n, err := NewBigInt(s)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", kind, i, err)
		}
		ns[i] = n
	}
	return NewBufferFromBigInts(kind, ns)
}
