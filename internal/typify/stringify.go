package typify

import (
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/roach88/jsonx/internal/ir"
)

// Stringify renders v as grammar text.
func (c *Codec) Stringify(v any) (string, error) {
	s := &stringifier{codec: c, refs: map[any]string{}}
	if err := s.write(v, RootPath); err != nil {
		return "", err
	}
	return s.b.String(), nil
}

// stringifier holds the output and reference table of one Stringify call.
type stringifier struct {
	codec *Codec
	refs  map[any]string
	b     strings.Builder
}

func (s *stringifier) write(v any, path string) error {
	cat := ir.Classify(v)

	if cat.IsObjectLike() || cat == ir.CategorySymbol {
		if id, ok := ir.Identity(v); ok {
			if seen, hit := s.refs[id]; hit {
				s.call("Ref", ir.Quote(seen))
				return nil
			}
			s.refs[id] = path
		}
	}

	switch cat {
	case ir.CategoryUndefined:
		s.b.WriteString("undefined")
	case ir.CategoryNull:
		s.b.WriteString("null")
	case ir.CategoryBoolean, ir.CategoryNumber, ir.CategoryBigInt, ir.CategoryString:
		s.primitive(v)
	case ir.CategorySymbol:
		s.symbol(v.(*ir.Symbol))
	case ir.CategoryBoxed:
		s.boxed(v.(*ir.Boxed).Value)
	case ir.CategoryArray:
		return s.array(ir.ArrayItems(v), path)
	case ir.CategoryObject:
		return s.object(ir.ObjectPairs(v), path)
	case ir.CategoryRegExp:
		re := v.(*ir.RegExp)
		s.call("RegExp", `{"source": `+ir.Quote(re.Source)+`,"flags": `+ir.Quote(re.Flags)+`}`)
	case ir.CategoryDate:
		s.call("Date", ir.Quote(ir.NewDate(ir.DateTime(v)).ISOString()))
	case ir.CategoryURL:
		u, err := ir.URLOf(v)
		if err != nil {
			return &StringifyError{Code: ErrCodeUnsupportedType, Message: "invalid URL", Path: path, Err: err}
		}
		s.call("URL", ir.Quote(u.String()))
	case ir.CategoryURLSearchParams:
		s.call("URLSearchParams", ir.Quote(ir.SearchParamsOf(v).String()))
	case ir.CategoryError:
		return s.errorValue(ir.ErrorOf(v), path)
	case ir.CategorySet:
		s.b.WriteString("Set(")
		if err := s.array(v.(*ir.Set).Values(), join(path, "Set")); err != nil {
			return err
		}
		s.b.WriteByte(')')
	case ir.CategoryMap:
		return s.mapValue(ir.MapEntries(v), path)
	case ir.CategoryBuffer:
		return s.buffer(ir.BufferOf(v), path)
	case ir.CategoryInstance:
		return s.instance(v, path)
	default:
		return &StringifyError{
			Code:    ErrCodeUnsupportedType,
			Message: "value has no text form",
			Path:    path,
			Err:     &ir.UnsupportedTypeError{Type: reflect.TypeOf(v)},
		}
	}
	return nil
}

func (s *stringifier) call(name, arg string) {
	s.b.WriteString(name)
	s.b.WriteByte('(')
	s.b.WriteString(arg)
	s.b.WriteByte(')')
}

func (s *stringifier) primitive(v any) {
	switch ir.Classify(v) {
	case ir.CategoryBoolean:
		s.b.WriteString(strconv.FormatBool(reflect.ValueOf(v).Bool()))
	case ir.CategoryNumber:
		s.b.WriteString(ir.FormatNumber(ir.NumberOf(v)))
	case ir.CategoryBigInt:
		s.b.WriteString(v.(*big.Int).String())
		s.b.WriteByte('n')
	case ir.CategoryString:
		s.b.WriteString(ir.Quote(reflect.ValueOf(v).String()))
	}
}

// symbol writes SymbolFor for global symbols, SymbolReg for registered
// ones and Symbol otherwise.
func (s *stringifier) symbol(sym *ir.Symbol) {
	if key, ok := ir.KeyFor(sym); ok {
		s.call("SymbolFor", ir.Quote(key))
		return
	}
	if id, ok := s.codec.reg.SymbolIdentifier(sym); ok {
		s.call("SymbolReg", ir.Quote(id))
		return
	}
	if desc, ok := sym.Description(); ok {
		s.call("Symbol", ir.Quote(desc))
		return
	}
	s.b.WriteString("Symbol()")
}

// boxed writes Boolean(...), Number(...), BigInt(...) or String(...). A
// boxed symbol is written as the symbol itself.
func (s *stringifier) boxed(inner any) {
	var name string
	switch ir.Classify(inner) {
	case ir.CategorySymbol:
		s.symbol(inner.(*ir.Symbol))
		return
	case ir.CategoryBoolean:
		name = "Boolean"
	case ir.CategoryNumber:
		name = "Number"
	case ir.CategoryBigInt:
		name = "BigInt"
	default:
		name = "String"
	}
	s.b.WriteString(name)
	s.b.WriteByte('(')
	s.primitive(inner)
	s.b.WriteByte(')')
}

func (s *stringifier) array(items []any, path string) error {
	s.b.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			s.b.WriteByte(',')
		}
		if err := s.write(it, join(path, index(i))); err != nil {
			return err
		}
	}
	s.b.WriteByte(']')
	return nil
}

// object writes {"k": v,...}. String keys are quoted; symbol keys use
// their call form and take part in reference tracking.
func (s *stringifier) object(pairs []ir.Pair, path string) error {
	s.b.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			s.b.WriteByte(',')
		}
		if key, ok := p.Key.(string); ok {
			s.b.WriteString(ir.Quote(key))
		} else if err := s.write(p.Key, join(path, keySlot(i))); err != nil {
			return err
		}
		s.b.WriteString(": ")
		if err := s.write(p.Value, join(path, valueSlot(i))); err != nil {
			return err
		}
	}
	s.b.WriteByte('}')
	return nil
}

// mapValue writes Map([[k,v],...]); entry paths are <path>/Map/[i]/[0]
// and <path>/Map/[i]/[1].
func (s *stringifier) mapValue(entries []ir.Pair, path string) error {
	base := join(path, "Map")
	s.b.WriteString("Map([")
	for i, e := range entries {
		if i > 0 {
			s.b.WriteByte(',')
		}
		entryPath := join(base, index(i))
		s.b.WriteByte('[')
		if err := s.write(e.Key, join(entryPath, index(0))); err != nil {
			return err
		}
		s.b.WriteByte(',')
		if err := s.write(e.Value, join(entryPath, index(1))); err != nil {
			return err
		}
		s.b.WriteByte(']')
	}
	s.b.WriteString("])")
	return nil
}

// errorValue writes Error({...}) with name, message, stack when set,
// cause when present and then the extra properties.
func (s *stringifier) errorValue(e *ir.Error, path string) error {
	pairs := []ir.Pair{{Key: "name", Value: e.Name}, {Key: "message", Value: e.Message}}
	if e.Stack != "" {
		pairs = append(pairs, ir.Pair{Key: "stack", Value: e.Stack})
	}
	if e.Cause != nil {
		pairs = append(pairs, ir.Pair{Key: "cause", Value: e.Cause})
	}
	if e.Props != nil {
		for _, p := range e.Props.Pairs() {
			if k, ok := p.Key.(string); ok && ir.ReservedErrorKeys[k] {
				continue
			}
			pairs = append(pairs, p)
		}
	}
	s.b.WriteString("Error(")
	if err := s.object(pairs, join(path, "Error")); err != nil {
		return err
	}
	s.b.WriteByte(')')
	return nil
}

func (s *stringifier) buffer(b ir.Buffer, path string) error {
	kind := b.BufferKind()
	var elems []string
	if kind.IsBigElement() {
		decimals, err := ir.BufferDecimals(b)
		if err != nil {
			return &StringifyError{Code: ErrCodeUnsupportedType, Message: err.Error(), Path: path, Err: err}
		}
		for _, d := range decimals {
			elems = append(elems, d+"n")
		}
	} else {
		nums, err := ir.BufferNumbers(b)
		if err != nil {
			return &StringifyError{Code: ErrCodeUnsupportedType, Message: err.Error(), Path: path, Err: err}
		}
		for _, f := range nums {
			elems = append(elems, ir.FormatNumber(f))
		}
	}
	s.call(string(kind), "["+strings.Join(elems, ",")+"]")
	return nil
}

// instance writes a class instance. A registered class uses ClassJson when
// it round-trips through its projection hook and ClassReg otherwise. An
// unregistered instance is replaced by its projection or written as a
// plain object of its fields.
func (s *stringifier) instance(v any, path string) error {
	marshaler, hasHook := v.(ir.Marshaler)

	if id, ok := s.codec.reg.ClassIdentifier(v); ok {
		t, _ := ir.ClassOf(v)
		if hasHook && ir.HasUnmarshaler(t) {
			projected, err := s.project(marshaler, path)
			if err != nil {
				return err
			}
			s.b.WriteString("ClassJson(" + ir.Quote(id) + ", ")
			if err := s.write(projected, join(path, "ClassJson")); err != nil {
				return err
			}
			s.b.WriteByte(')')
			return nil
		}
		s.b.WriteString("ClassReg(" + ir.Quote(id) + ", ")
		if err := s.object(fieldPairs(v), join(path, "ClassReg")); err != nil {
			return err
		}
		s.b.WriteByte(')')
		return nil
	}

	if hasHook {
		projected, err := s.project(marshaler, path)
		if err != nil {
			return err
		}
		return s.write(projected, path)
	}
	return s.object(fieldPairs(v), path)
}

func (s *stringifier) project(m ir.Marshaler, path string) (any, error) {
	projected, err := m.MarshalValue()
	if err != nil {
		return nil, &StringifyError{Code: ErrCodeProjection, Message: err.Error(), Path: path, Err: err}
	}
	return projected, nil
}

func fieldPairs(v any) []ir.Pair {
	fields := ir.InstanceFields(v)
	out := make([]ir.Pair, len(fields))
	for i, f := range fields {
		out[i] = ir.Pair{Key: f.Name, Value: f.Value}
	}
	return out
}
