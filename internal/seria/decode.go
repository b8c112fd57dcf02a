package seria

import (
	"fmt"

	"github.com/roach88/jsonx/internal/ir"
)

// Deserialize rebuilds a value from a tagged tree.
//
// Containers are recorded in the reference table as soon as they are
// allocated, before their children are decoded, so a child may refer back
// to any enclosing container. Scalars and projected class values are
// recorded once complete.
func (c *Codec) Deserialize(n *ir.Node) (any, error) {
	if n == nil {
		return ir.Undefined{}, nil
	}
	d := &decoder{codec: c, refs: map[string]any{}}
	return d.decode(n, RootPath)
}

// decoder holds the reference table of one Deserialize call.
type decoder struct {
	codec *Codec
	refs  map[string]any
}

func (d *decoder) record(path string, v any) any {
	d.refs[path] = v
	return v
}

func (d *decoder) decode(n *ir.Node, path string) (any, error) {
	if n == nil {
		return nil, decodeErr(ErrCodeInvalidPayload, path, nil, "missing node")
	}

	switch n.Tag {
	case ir.TagUndefined:
		return d.record(path, ir.Undefined{}), nil
	case ir.TagNull:
		return d.record(path, ir.Null{}), nil
	case ir.TagBoolean:
		b, ok := n.Value.(bool)
		if !ok {
			return nil, decodeErr(ErrCodeInvalidPayload, path, nil, "%s payload must be a boolean", n.Tag)
		}
		return d.record(path, b), nil
	case ir.TagNumber:
		f, err := ir.DecodeNumber(n.Value)
		if err != nil {
			return nil, decodeErr(ErrCodeInvalidPayload, path, err, "%v", err)
		}
		return d.record(path, f), nil
	case ir.TagBigInt:
		s, _ := n.Value.(string)
		b, err := ir.NewBigInt(s)
		if err != nil {
			return nil, decodeErr(ErrCodeInvalidPayload, path, err, "%v", err)
		}
		return d.record(path, b), nil
	case ir.TagString:
		s, ok := n.Value.(string)
		if !ok {
			return nil, decodeErr(ErrCodeInvalidPayload, path, nil, "%s payload must be a string", n.Tag)
		}
		return d.record(path, s), nil
	case ir.TagSymbol:
		return d.record(path, d.symbol(n.Symbol)), nil
	case ir.TagRegExp:
		if n.RegExp == nil {
			return nil, decodeErr(ErrCodeInvalidPayload, path, nil, "%s payload missing", n.Tag)
		}
		return d.record(path, ir.NewRegExp(n.RegExp.Source, n.RegExp.Flags)), nil
	case ir.TagDate:
		s, _ := n.Value.(string)
		date, err := ir.ParseDate(s)
		if err != nil {
			return nil, decodeErr(ErrCodeInvalidPayload, path, err, "%v", err)
		}
		return d.record(path, date), nil
	case ir.TagURL:
		s, _ := n.Value.(string)
		u, err := ir.ParseURL(s)
		if err != nil {
			return nil, decodeErr(ErrCodeInvalidPayload, path, err, "%v", err)
		}
		return d.record(path, u), nil
	case ir.TagURLSearchParams:
		s, _ := n.Value.(string)
		return d.record(path, ir.ParseURLSearchParams(s)), nil
	case ir.TagArray:
		arr := ir.NewArray()
		d.record(path, arr)
		for i, it := range n.Items {
			v, err := d.decode(it, join(path, arrayIndex(i)))
			if err != nil {
				return nil, err
			}
			arr.Append(v)
		}
		return arr, nil
	case ir.TagObject:
		obj := ir.NewObject()
		d.record(path, obj)
		if err := d.fillObject(obj, n.Pairs, path); err != nil {
			return nil, err
		}
		return obj, nil
	case ir.TagSet:
		set := ir.NewSet()
		d.record(path, set)
		for i, it := range n.Items {
			childPath := join(path, setIndex(i))
			v, err := d.decode(it, childPath)
			if err != nil {
				return nil, err
			}
			if err := set.Add(v); err != nil {
				return nil, decodeErr(ErrCodeInvalidKey, childPath, err, "%v", err)
			}
		}
		return set, nil
	case ir.TagMap:
		m := ir.NewMap()
		d.record(path, m)
		for i, p := range n.Pairs {
			k, err := d.decode(p.Key, join(path, mapKey(i)))
			if err != nil {
				return nil, err
			}
			v, err := d.decode(p.Value, join(path, mapValue(i)))
			if err != nil {
				return nil, err
			}
			if err := m.Set(k, v); err != nil {
				return nil, decodeErr(ErrCodeInvalidKey, join(path, mapKey(i)), err, "%v", err)
			}
		}
		return m, nil
	case ir.TagError:
		return d.errorValue(n.Error, path)
	case ir.TagRef:
		target, _ := n.Value.(string)
		v, ok := d.refs[target]
		if !ok {
			return nil, decodeErr(ErrCodeUnresolvedRef, path, nil, "reference to unvisited path %q", target)
		}
		return d.record(path, v), nil
	case ir.TagJSON:
		return d.projected(n, path)
	case ir.TagClass:
		return d.classFields(n, path)
	}

	if kind, ok := n.Tag.BufferKind(); ok {
		b, err := bufferValue(kind, n.Elems)
		if err != nil {
			return nil, decodeErr(ErrCodeInvalidPayload, path, err, "%v", err)
		}
		return d.record(path, b), nil
	}
	return nil, decodeErr(ErrCodeInvalidPayload, path, nil, "unknown tag %q", n.Tag)
}

// symbol resolves a symbol payload: global symbols by key, others through
// the registry with a fresh symbol as fallback.
func (d *decoder) symbol(p *ir.SymbolPayload) *ir.Symbol {
	if p == nil || p.Key == nil {
		return ir.NewSymbol()
	}
	if p.Global {
		return ir.SymbolFor(*p.Key)
	}
	if sym, ok := d.codec.reg.Symbol(*p.Key); ok {
		return sym
	}
	return ir.NewSymbol(*p.Key)
}

func (d *decoder) fillObject(obj *ir.Object, pairs []ir.NodePair, path string) error {
	for i, p := range pairs {
		keyPath := join(path, objectKey(i))
		k, err := d.decode(p.Key, keyPath)
		if err != nil {
			return err
		}
		v, err := d.decode(p.Value, join(path, objectValue(i)))
		if err != nil {
			return err
		}
		if err := obj.Set(k, v); err != nil {
			return decodeErr(ErrCodeInvalidKey, keyPath, err, "%v", err)
		}
	}
	return nil
}

func (d *decoder) errorValue(p *ir.ErrorPayload, path string) (any, error) {
	if p == nil {
		return nil, decodeErr(ErrCodeInvalidPayload, path, nil, "%s payload missing", ir.TagError)
	}
	e := &ir.Error{Name: p.Name, Message: p.Message, Stack: p.Stack, Props: ir.NewObject()}
	d.record(path, e)
	if p.Cause != nil {
		cause, err := d.decode(p.Cause, join(path, "cause"))
		if err != nil {
			return nil, err
		}
		if _, undefined := cause.(ir.Undefined); !undefined {
			e.Cause = cause
		}
	}
	if err := d.fillObject(e.Props, p.Props, path); err != nil {
		return nil, err
	}
	return e, nil
}

// projected rebuilds a $json node. The projection is decoded first; a
// registered class then rebuilds itself from it through ir.Unmarshaler, or
// by field copy when it has no hook.
func (d *decoder) projected(n *ir.Node, path string) (any, error) {
	inner, err := d.decode(n.Inner, path)
	if err != nil {
		return nil, err
	}
	t, ok := d.codec.reg.Class(n.Class)
	if !ok {
		d.warnUnknownClass(n.Class, path)
		return d.record(path, inner), nil
	}

	inst := ir.NewInstance(t)
	if u, ok := inst.(ir.Unmarshaler); ok {
		if err := u.UnmarshalValue(inner); err != nil {
			return nil, decodeErr(ErrCodeReconstruct, path, err, "class %q: %v", n.Class, err)
		}
		return d.record(path, inst), nil
	}
	fields, ok := inner.(*ir.Object)
	if !ok {
		return nil, decodeErr(ErrCodeReconstruct, path, nil, "class %q has no Unmarshaler and its projection is %s, not an object", n.Class, ir.KindName(inner))
	}
	if err := ir.PopulateInstance(inst, fields); err != nil {
		return nil, decodeErr(ErrCodeReconstruct, path, err, "class %q: %v", n.Class, err)
	}
	return d.record(path, inst), nil
}

// classFields rebuilds a $class node by field copy. The instance is
// allocated and recorded before its fields are decoded.
func (d *decoder) classFields(n *ir.Node, path string) (any, error) {
	t, ok := d.codec.reg.Class(n.Class)
	if !ok {
		d.warnUnknownClass(n.Class, path)
		obj := ir.NewObject()
		d.record(path, obj)
		if err := d.fillObject(obj, n.Pairs, path); err != nil {
			return nil, err
		}
		return obj, nil
	}

	inst := ir.NewInstance(t)
	d.record(path, inst)
	fields := ir.NewObject()
	if err := d.fillObject(fields, n.Pairs, path); err != nil {
		return nil, err
	}
	if err := ir.PopulateInstance(inst, fields); err != nil {
		return nil, decodeErr(ErrCodeReconstruct, path, err, "class %q: %v", n.Class, err)
	}
	return inst, nil
}

func (d *decoder) warnUnknownClass(id, path string) {
	d.codec.logger.Warn("unknown class identifier, keeping plain value",
		"identifier", id,
		"path", path,
	)
}

func bufferValue(kind ir.BufferKind, elems []any) (ir.Buffer, error) {
	if kind.IsBigElement() {
		decimals := make([]string, len(elems))
		for i, e := range elems {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a decimal string", kind, i)
			}
			decimals[i] = s
		}
		return ir.NewBufferFromDecimals(kind, decimals)
	}
	nums := make([]float64, len(elems))
	for i, e := range elems {
		f, err := ir.DecodeNumber(e)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", kind, i, err)
		}
		nums[i] = f
	}
	return ir.NewBufferFromNumbers(kind, nums)
}
