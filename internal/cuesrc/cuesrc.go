// Package cuesrc imports CUE documents into the value model.
//
// Structs become objects in field order, lists become arrays. Integers
// that a float64 holds exactly become numbers; larger ones become big
// integers. Bytes become a Uint8Array. Definitions, hidden fields and
// optional fields are skipped.
//
// A field may carry a @jsonx(kind) attribute to select a richer value
// for a string or list:
//
//	born: "1815-12-10T00:00:00Z" @jsonx(date)
//	site: "https://example.com"  @jsonx(url)
//	n:    "123456789012345678901" @jsonx(bigint)
//	tags: ["a", "b"]            @jsonx(set)
//	pat:  "a+"                   @jsonx(regexp)
//	sym:  "app.token"            @jsonx(symbol)
//
// The symbol kind yields the global symbol for the string.
package cuesrc

import (
	"fmt"
	"math"
	"math/big"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/jsonx/internal/ir"
)

// AttrKey is the attribute consulted for value kinds.
const AttrKey = "jsonx"

// Error codes for import failures.
const (
	ErrCodeReadFailed      = "READ_FAILED"
	ErrCodeBuildFailed     = "BUILD_FAILED"
	ErrCodeNotConcrete     = "NOT_CONCRETE"
	ErrCodeUnsupportedKind = "UNSUPPORTED_KIND"
	ErrCodeBadAttribute    = "BAD_ATTRIBUTE"
)

// Error is an import failure with the CUE position it refers to, if any.
type Error struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads and imports the CUE file at path.
func Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Code: ErrCodeReadFailed, Message: err.Error()}
	}
	return Compile(path, string(data))
}

// Compile imports CUE source. name is used as the file name in positions.
func Compile(name, src string) (any, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(ErrCodeBuildFailed, err)
	}
	return Convert(v)
}

// Convert imports an evaluated CUE value. The value must be concrete.
func Convert(v cue.Value) (any, error) {
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(ErrCodeNotConcrete, err)
	}
	return convert(v)
}

func convert(v cue.Value) (any, error) {
	base, err := convertKind(v)
	if err != nil {
		return nil, err
	}
	attr := v.Attribute(AttrKey)
	if attr.Err() != nil {
		return base, nil
	}
	kind, err := attr.String(0)
	if err != nil {
		return nil, &Error{Code: ErrCodeBadAttribute, Message: err.Error(), Pos: v.Pos()}
	}
	out, err := applyKind(kind, base)
	if err != nil {
		return nil, &Error{Code: ErrCodeBadAttribute, Message: fmt.Sprintf("@%s(%s): %v", AttrKey, kind, err), Pos: v.Pos()}
	}
	return out, nil
}

func convertKind(v cue.Value) (any, error) {
	switch k := v.Kind(); k {
	case cue.NullKind:
		return ir.Null{}, nil
	case cue.BoolKind:
		return v.Bool()
	case cue.IntKind:
		n, err := v.Int(nil)
		if err != nil {
			return nil, formatCUEError(ErrCodeUnsupportedKind, err)
		}
		return integer(n), nil
	case cue.FloatKind:
		f, err := v.Float64()
		if err != nil {
			return nil, formatCUEError(ErrCodeUnsupportedKind, err)
		}
		return f, nil
	case cue.StringKind:
		return v.String()
	case cue.BytesKind:
		b, err := v.Bytes()
		if err != nil {
			return nil, formatCUEError(ErrCodeUnsupportedKind, err)
		}
		return &ir.Uint8Array{Elems: b}, nil
	case cue.ListKind:
		return convertList(v)
	case cue.StructKind:
		return convertStruct(v)
	default:
		return nil, &Error{Code: ErrCodeUnsupportedKind, Message: fmt.Sprintf("cannot import %s", k), Pos: v.Pos()}
	}
}

func convertList(v cue.Value) (any, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(ErrCodeUnsupportedKind, err)
	}
	arr := ir.NewArray()
	for iter.Next() {
		item, err := convert(iter.Value())
		if err != nil {
			return nil, err
		}
		arr.Append(item)
	}
	return arr, nil
}

func convertStruct(v cue.Value) (any, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(ErrCodeUnsupportedKind, err)
	}
	obj := ir.NewObject()
	for iter.Next() {
		item, err := convert(iter.Value())
		if err != nil {
			return nil, err
		}
		if err := obj.Set(iter.Selector().Unquoted(), item); err != nil {
			return nil, &Error{Code: ErrCodeUnsupportedKind, Message: err.Error(), Pos: iter.Value().Pos()}
		}
	}
	return obj, nil
}

// maxExact is the largest integer magnitude a float64 represents exactly.
var maxExact = big.NewInt(1 << 53)

func integer(n *big.Int) any {
	if new(big.Int).Abs(n).Cmp(maxExact) <= 0 {
		f, _ := new(big.Float).SetInt(n).Float64()
		return f
	}
	return n
}

func applyKind(kind string, v any) (any, error) {
	switch kind {
	case "date":
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("need a string, got %s", ir.KindName(v))
		}
		return ir.ParseDate(s)
	case "url":
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("need a string, got %s", ir.KindName(v))
		}
		return ir.ParseURL(s)
	case "regexp":
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("need a string, got %s", ir.KindName(v))
		}
		return ir.NewRegExp(s, ""), nil
	case "symbol":
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("need a string, got %s", ir.KindName(v))
		}
		return ir.SymbolFor(s), nil
	case "bigint":
		switch n := v.(type) {
		case string:
			return ir.NewBigInt(n)
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("%v is not an integer", n)
			}
			b, _ := big.NewFloat(n).Int(nil)
			return b, nil
		case *big.Int:
			return n, nil
		}
		return nil, fmt.Errorf("need a string or integer, got %s", ir.KindName(v))
	case "set":
		arr, ok := v.(*ir.Array)
		if !ok {
			return nil, fmt.Errorf("need a list, got %s", ir.KindName(v))
		}
		set := ir.NewSet()
		for _, it := range arr.Items {
			if err := set.Add(it); err != nil {
				return nil, err
			}
		}
		return set, nil
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(code string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &Error{Code: code, Message: err.Error()}
	}
	first := errs[0]
	e := &Error{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		e.Pos = positions[0]
	}
	return e
}
