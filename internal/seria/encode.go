package seria

import (
	"math/big"
	"reflect"

	"github.com/roach88/jsonx/internal/ir"
)

// Serialize encodes v as a tagged tree.
func (c *Codec) Serialize(v any) (*ir.Node, error) {
	e := &encoder{codec: c, refs: map[any]string{}}
	return e.encode(v, RootPath)
}

// encoder holds the reference table of one Serialize call.
type encoder struct {
	codec *Codec
	refs  map[any]string
}

func (e *encoder) encode(v any, path string) (*ir.Node, error) {
	cat := ir.Classify(v)

	if cat.IsObjectLike() || cat == ir.CategorySymbol {
		if id, ok := ir.Identity(v); ok {
			if seen, hit := e.refs[id]; hit {
				return ir.Ref(seen), nil
			}
			e.refs[id] = path
		}
	}

	switch cat {
	case ir.CategoryUndefined:
		return ir.Leaf(ir.TagUndefined), nil
	case ir.CategoryNull:
		return ir.Leaf(ir.TagNull), nil
	case ir.CategoryBoolean, ir.CategoryNumber, ir.CategoryBigInt, ir.CategoryString:
		return primitiveNode(v), nil
	case ir.CategorySymbol:
		return e.symbolNode(v.(*ir.Symbol)), nil
	case ir.CategoryBoxed:
		inner := v.(*ir.Boxed).Value
		if sym, ok := inner.(*ir.Symbol); ok {
			return e.symbolNode(sym), nil
		}
		return primitiveNode(inner), nil
	case ir.CategoryArray:
		return e.arrayNode(ir.ArrayItems(v), path)
	case ir.CategoryObject:
		pairs, err := e.pairs(ir.ObjectPairs(v), path, objectKey, objectValue)
		if err != nil {
			return nil, err
		}
		return &ir.Node{Tag: ir.TagObject, Pairs: pairs}, nil
	case ir.CategoryRegExp:
		re := v.(*ir.RegExp)
		return &ir.Node{Tag: ir.TagRegExp, RegExp: &ir.RegExpPayload{Source: re.Source, Flags: re.Flags}}, nil
	case ir.CategoryDate:
		return ir.Leaf(ir.TagDate, ir.NewDate(ir.DateTime(v)).ISOString()), nil
	case ir.CategoryURL:
		u, err := ir.URLOf(v)
		if err != nil {
			return nil, &EncodeError{Code: ErrCodeUnsupportedType, Message: "invalid URL", Path: path, Err: err}
		}
		return ir.Leaf(ir.TagURL, u.String()), nil
	case ir.CategoryURLSearchParams:
		return ir.Leaf(ir.TagURLSearchParams, ir.SearchParamsOf(v).String()), nil
	case ir.CategoryError:
		return e.errorNode(ir.ErrorOf(v), path)
	case ir.CategorySet:
		return e.setNode(v.(*ir.Set), path)
	case ir.CategoryMap:
		pairs, err := e.pairs(ir.MapEntries(v), path, mapKey, mapValue)
		if err != nil {
			return nil, err
		}
		return &ir.Node{Tag: ir.TagMap, Pairs: pairs}, nil
	case ir.CategoryBuffer:
		return bufferNode(ir.BufferOf(v), path)
	case ir.CategoryInstance:
		return e.instanceNode(v, path)
	}
	return nil, &EncodeError{
		Code:    ErrCodeUnsupportedType,
		Message: "value has no tag",
		Path:    path,
		Err:     &ir.UnsupportedTypeError{Type: reflect.TypeOf(v)},
	}
}

// primitiveNode encodes a boolean, number, big integer or string.
func primitiveNode(v any) *ir.Node {
	switch ir.Classify(v) {
	case ir.CategoryBoolean:
		return ir.Leaf(ir.TagBoolean, reflect.ValueOf(v).Bool())
	case ir.CategoryNumber:
		return ir.Leaf(ir.TagNumber, ir.EncodeNumber(ir.NumberOf(v)))
	case ir.CategoryBigInt:
		return ir.Leaf(ir.TagBigInt, v.(*big.Int).String())
	default:
		return ir.Leaf(ir.TagString, reflect.ValueOf(v).String())
	}
}

// symbolNode records a global symbol by key and any other symbol by its
// registered identifier, falling back to its description.
func (e *encoder) symbolNode(sym *ir.Symbol) *ir.Node {
	payload := &ir.SymbolPayload{}
	if key, ok := ir.KeyFor(sym); ok {
		payload.Global = true
		payload.Key = &key
	} else if id, ok := e.codec.reg.SymbolIdentifier(sym); ok {
		payload.Key = &id
	} else if desc, ok := sym.Description(); ok {
		payload.Key = &desc
	}
	return &ir.Node{Tag: ir.TagSymbol, Symbol: payload}
}

func (e *encoder) arrayNode(items []any, path string) (*ir.Node, error) {
	out := make([]*ir.Node, len(items))
	for i, it := range items {
		child, err := e.encode(it, join(path, arrayIndex(i)))
		if err != nil {
			return nil, err
		}
		out[i] = child
	}
	return &ir.Node{Tag: ir.TagArray, Items: out}, nil
}

func (e *encoder) setNode(s *ir.Set, path string) (*ir.Node, error) {
	values := s.Values()
	out := make([]*ir.Node, len(values))
	for i, v := range values {
		child, err := e.encode(v, join(path, setIndex(i)))
		if err != nil {
			return nil, err
		}
		out[i] = child
	}
	return &ir.Node{Tag: ir.TagSet, Items: out}, nil
}

func (e *encoder) pairs(entries []ir.Pair, path string, keySeg, valSeg func(int) string) ([]ir.NodePair, error) {
	out := make([]ir.NodePair, len(entries))
	for i, p := range entries {
		k, err := e.encode(p.Key, join(path, keySeg(i)))
		if err != nil {
			return nil, err
		}
		v, err := e.encode(p.Value, join(path, valSeg(i)))
		if err != nil {
			return nil, err
		}
		out[i] = ir.NodePair{Key: k, Value: v}
	}
	return out, nil
}

func (e *encoder) errorNode(err *ir.Error, path string) (*ir.Node, error) {
	payload := &ir.ErrorPayload{Name: err.Name, Message: err.Message, Stack: err.Stack}
	if err.Cause != nil {
		cause, cerr := e.encode(err.Cause, join(path, "cause"))
		if cerr != nil {
			return nil, cerr
		}
		payload.Cause = cause
	}
	if err.Props != nil {
		var props []ir.Pair
		for _, p := range err.Props.Pairs() {
			if k, ok := p.Key.(string); ok && ir.ReservedErrorKeys[k] {
				continue
			}
			props = append(props, p)
		}
		pairs, perr := e.pairs(props, path, objectKey, objectValue)
		if perr != nil {
			return nil, perr
		}
		payload.Props = pairs
	}
	return &ir.Node{Tag: ir.TagError, Error: payload}, nil
}

// bufferNode lists the elements of a buffer. Non-finite float elements use
// the number sentinels and 64-bit elements are decimal strings.
func bufferNode(b ir.Buffer, path string) (*ir.Node, error) {
	kind := b.BufferKind()
	n := &ir.Node{Tag: ir.BufferTag(kind)}
	if kind.IsBigElement() {
		decimals, err := ir.BufferDecimals(b)
		if err != nil {
			return nil, &EncodeError{Code: ErrCodeUnsupportedType, Message: err.Error(), Path: path, Err: err}
		}
		n.Elems = make([]any, len(decimals))
		for i, d := range decimals {
			n.Elems[i] = d
		}
		return n, nil
	}
	nums, err := ir.BufferNumbers(b)
	if err != nil {
		return nil, &EncodeError{Code: ErrCodeUnsupportedType, Message: err.Error(), Path: path, Err: err}
	}
	n.Elems = make([]any, len(nums))
	for i, f := range nums {
		n.Elems[i] = ir.EncodeNumber(f)
	}
	return n, nil
}

// instanceNode encodes a class instance. A registered class uses $json when
// it round-trips through its projection hook and $class otherwise. An
// unregistered instance is replaced by its projection, or encoded as a
// plain object of its fields.
func (e *encoder) instanceNode(v any, path string) (*ir.Node, error) {
	marshaler, hasHook := v.(ir.Marshaler)

	if id, ok := e.codec.reg.ClassIdentifier(v); ok {
		t, _ := ir.ClassOf(v)
		if hasHook && ir.HasUnmarshaler(t) {
			inner, err := e.project(marshaler, path)
			if err != nil {
				return nil, err
			}
			return &ir.Node{Tag: ir.TagJSON, Class: id, Inner: inner}, nil
		}
		pairs, err := e.pairs(fieldPairs(v), path, objectKey, objectValue)
		if err != nil {
			return nil, err
		}
		return &ir.Node{Tag: ir.TagClass, Class: id, Pairs: pairs}, nil
	}

	if hasHook {
		return e.project(marshaler, path)
	}
	pairs, err := e.pairs(fieldPairs(v), path, objectKey, objectValue)
	if err != nil {
		return nil, err
	}
	return &ir.Node{Tag: ir.TagObject, Pairs: pairs}, nil
}

// project encodes the projection of an instance at the instance's own path.
func (e *encoder) project(m ir.Marshaler, path string) (*ir.Node, error) {
	projected, err := m.MarshalValue()
	if err != nil {
		return nil, &EncodeError{Code: ErrCodeProjection, Message: err.Error(), Path: path, Err: err}
	}
	return e.encode(projected, path)
}

func fieldPairs(v any) []ir.Pair {
	fields := ir.InstanceFields(v)
	out := make([]ir.Pair, len(fields))
	for i, f := range fields {
		out[i] = ir.Pair{Key: f.Name, Value: f.Value}
	}
	return out
}
