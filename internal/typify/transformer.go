package typify

import (
	"math/big"

	"github.com/roach88/jsonx/internal/ir"
)

// Transform turns a parsed program into a value. An empty program yields
// ir.Undefined.
//
// Arrays, objects, sets, maps, errors and ClassReg instances are recorded
// in the reference table when allocated, before their contents are
// transformed, so Ref may point at any enclosing container. Other values
// are recorded once complete.
func (c *Codec) Transform(prog *Program) (any, error) {
	if prog == nil || len(prog.Body) == 0 {
		return ir.Undefined{}, nil
	}
	t := &transformer{codec: c, refs: map[string]any{}}
	return t.transform(prog.Body[0], RootPath)
}

// transformer holds the reference table of one Transform call.
type transformer struct {
	codec *Codec
	refs  map[string]any
}

func (t *transformer) record(path string, v any) any {
	t.refs[path] = v
	return v
}

func (t *transformer) transform(n Node, path string) (any, error) {
	switch node := n.(type) {
	case *UndefinedLiteral:
		return t.record(path, ir.Undefined{}), nil
	case *NullLiteral:
		return t.record(path, ir.Null{}), nil
	case *BooleanLiteral:
		return t.record(path, node.Value), nil
	case *NumberLiteral:
		return t.record(path, node.Value), nil
	case *BigIntLiteral:
		return t.record(path, new(big.Int).Set(node.Value)), nil
	case *StringLiteral:
		return t.record(path, node.Value), nil
	case *ArrayExpression:
		arr := ir.NewArray()
		t.record(path, arr)
		for i, el := range node.Elements {
			v, err := t.transform(el, join(path, index(i)))
			if err != nil {
				return nil, err
			}
			arr.Append(v)
		}
		return arr, nil
	case *ObjectExpression:
		obj := ir.NewObject()
		t.record(path, obj)
		for i, prop := range node.Properties {
			key, err := t.key(prop.Key, join(path, keySlot(i)))
			if err != nil {
				return nil, err
			}
			v, err := t.transform(prop.Value, join(path, valueSlot(i)))
			if err != nil {
				return nil, err
			}
			if err := obj.Set(key, v); err != nil {
				return nil, transformErr(ErrCodeInvalidKey, join(path, keySlot(i)), err, "%v", err)
			}
		}
		return obj, nil
	case *CallExpression:
		return t.call(node, path)
	case nil:
		return nil, transformErr(ErrCodeUnknownNode, path, nil, "missing node")
	}
	return nil, transformErr(ErrCodeUnknownNode, path, nil, "unknown node %s", n.Kind())
}

// key evaluates an object key. String literal keys are taken as is; call
// keys are transformed and must produce a string, number or symbol.
func (t *transformer) key(n Node, path string) (any, error) {
	if s, ok := n.(*StringLiteral); ok {
		return s.Value, nil
	}
	k, err := t.transform(n, path)
	if err != nil {
		return nil, err
	}
	if _, ok := ir.PropertyKey(k); !ok {
		return nil, transformErr(ErrCodeInvalidKey, path, nil, "object keys must be string, number or symbol, got %s", ir.KindName(k))
	}
	return k, nil
}

func (t *transformer) call(n *CallExpression, path string) (any, error) {
	name := n.Callee.Name
	argPath := join(path, name)

	switch name {
	case "Ref":
		target, err := t.stringArg(n, argPath)
		if err != nil {
			return nil, err
		}
		v, ok := t.refs[target]
		if !ok {
			return nil, transformErr(ErrCodeUnresolvedRef, path, nil, "reference to unvisited path %q", target)
		}
		return t.record(path, v), nil
	case "Symbol":
		sym, err := t.symbol(n, argPath)
		if err != nil {
			return nil, err
		}
		return t.record(path, sym), nil
	case "SymbolFor":
		key, err := t.stringArg(n, argPath)
		if err != nil {
			return nil, err
		}
		return t.record(path, ir.SymbolFor(key)), nil
	case "SymbolReg":
		id, err := t.stringArg(n, argPath)
		if err != nil {
			return nil, err
		}
		sym, ok := t.codec.reg.Symbol(id)
		if !ok {
			sym = ir.NewSymbol(id)
		}
		return t.record(path, sym), nil
	case "ClassJson":
		return t.classJSON(n, path, argPath)
	case "ClassReg":
		return t.classFields(n, path, argPath)
	case "Set":
		return t.set(n, path, argPath)
	case "Map":
		return t.mapValue(n, path, argPath)
	case "Error":
		return t.errorValue(n, path, argPath)
	}

	conv, ok := conversions[name]
	if !ok {
		return nil, transformErr(ErrCodeUnknownConstructor, path, nil, "unknown constructor %s", name)
	}
	arg, err := t.singleArg(n, argPath)
	if err != nil {
		return nil, err
	}
	v, err := conv(arg)
	if err != nil {
		return nil, transformErr(ErrCodeInvalidArgument, path, err, "%s: %v", name, err)
	}
	return t.record(path, v), nil
}

func (t *transformer) arity(n *CallExpression, path string, want int) error {
	if len(n.Args) != want {
		return transformErr(ErrCodeInvalidArgument, path, nil, "%s takes %d argument(s), got %d", n.Callee.Name, want, len(n.Args))
	}
	return nil
}

func (t *transformer) singleArg(n *CallExpression, argPath string) (any, error) {
	if err := t.arity(n, argPath, 1); err != nil {
		return nil, err
	}
	return t.transform(n.Args[0], argPath)
}

func (t *transformer) stringArg(n *CallExpression, argPath string) (string, error) {
	v, err := t.singleArg(n, argPath)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", transformErr(ErrCodeInvalidArgument, argPath, nil, "%s needs a string, got %s", n.Callee.Name, ir.KindName(v))
	}
	return s, nil
}

// symbol handles Symbol() and Symbol(description). A numeric description
// is converted to its string form.
func (t *transformer) symbol(n *CallExpression, argPath string) (*ir.Symbol, error) {
	if len(n.Args) == 0 {
		return ir.NewSymbol(), nil
	}
	v, err := t.singleArg(n, argPath)
	if err != nil {
		return nil, err
	}
	switch d := v.(type) {
	case ir.Undefined:
		return ir.NewSymbol(), nil
	case string:
		return ir.NewSymbol(d), nil
	case float64:
		return ir.NewSymbol(ir.FormatNumber(d)), nil
	}
	return nil, transformErr(ErrCodeInvalidArgument, argPath, nil, "Symbol description must be a string or number, got %s", ir.KindName(v))
}

func (t *transformer) set(n *CallExpression, path, argPath string) (any, error) {
	if err := t.arity(n, argPath, 1); err != nil {
		return nil, err
	}
	set := ir.NewSet()
	t.record(path, set)
	items, err := t.arrayArg(n, argPath)
	if err != nil {
		return nil, err
	}
	for i, it := range items {
		if err := set.Add(it); err != nil {
			return nil, transformErr(ErrCodeInvalidArgument, join(argPath, index(i)), err, "%v", err)
		}
	}
	return set, nil
}

func (t *transformer) mapValue(n *CallExpression, path, argPath string) (any, error) {
	if err := t.arity(n, argPath, 1); err != nil {
		return nil, err
	}
	m := ir.NewMap()
	t.record(path, m)
	entries, err := t.arrayArg(n, argPath)
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		entryPath := join(argPath, index(i))
		pair, ok := e.(*ir.Array)
		if !ok || pair.Len() != 2 {
			return nil, transformErr(ErrCodeInvalidArgument, entryPath, nil, "Map entry must be a [key, value] array")
		}
		if err := m.Set(pair.Items[0], pair.Items[1]); err != nil {
			return nil, transformErr(ErrCodeInvalidArgument, entryPath, err, "%v", err)
		}
	}
	return m, nil
}

func (t *transformer) arrayArg(n *CallExpression, argPath string) ([]any, error) {
	v, err := t.transform(n.Args[0], argPath)
	if err != nil {
		return nil, err
	}
	arr, ok := v.(*ir.Array)
	if !ok {
		return nil, transformErr(ErrCodeInvalidArgument, argPath, nil, "%s needs an array, got %s", n.Callee.Name, ir.KindName(v))
	}
	return arr.Items, nil
}

// errorValue rebuilds Error({"name": ..., "message": ..., ...}). The
// stack and cause keys fill their fields; other keys become properties.
func (t *transformer) errorValue(n *CallExpression, path, argPath string) (any, error) {
	if err := t.arity(n, argPath, 1); err != nil {
		return nil, err
	}
	e := &ir.Error{Props: ir.NewObject()}
	t.record(path, e)

	v, err := t.transform(n.Args[0], argPath)
	if err != nil {
		return nil, err
	}
	fields, ok := v.(*ir.Object)
	if !ok {
		return nil, transformErr(ErrCodeInvalidArgument, argPath, nil, "Error needs an object, got %s", ir.KindName(v))
	}

	for _, key := range []string{"name", "message"} {
		fv, _ := fields.Get(key)
		s, ok := fv.(string)
		if !ok {
			return nil, transformErr(ErrCodeInvalidArgument, argPath, nil, "Error %s must be a string, got %s", key, ir.KindName(fv))
		}
		if key == "name" {
			e.Name = s
		} else {
			e.Message = s
		}
	}
	for _, p := range fields.Pairs() {
		switch p.Key {
		case "name", "message":
		case "stack":
			s, ok := p.Value.(string)
			if !ok {
				return nil, transformErr(ErrCodeInvalidArgument, argPath, nil, "Error stack must be a string, got %s", ir.KindName(p.Value))
			}
			e.Stack = s
		case "cause":
			if _, undefined := p.Value.(ir.Undefined); !undefined {
				e.Cause = p.Value
			}
		default:
			if err := e.Props.Set(p.Key, p.Value); err != nil {
				return nil, transformErr(ErrCodeInvalidKey, argPath, err, "%v", err)
			}
		}
	}
	return e, nil
}

// classJSON rebuilds ClassJson(id, projection): through ir.Unmarshaler
// when the class has one, by field copy otherwise.
func (t *transformer) classJSON(n *CallExpression, path, argPath string) (any, error) {
	id, err := t.classID(n, argPath)
	if err != nil {
		return nil, err
	}
	inner, err := t.transform(n.Args[1], argPath)
	if err != nil {
		return nil, err
	}
	typ, ok := t.codec.reg.Class(id)
	if !ok {
		t.warnUnknownClass(id, path)
		return t.record(path, inner), nil
	}

	inst := ir.NewInstance(typ)
	if u, ok := inst.(ir.Unmarshaler); ok {
		if err := u.UnmarshalValue(inner); err != nil {
			return nil, transformErr(ErrCodeReconstruct, path, err, "class %q: %v", id, err)
		}
		return t.record(path, inst), nil
	}
	fields, ok := inner.(*ir.Object)
	if !ok {
		return nil, transformErr(ErrCodeReconstruct, path, nil, "class %q has no Unmarshaler and its projection is %s, not an object", id, ir.KindName(inner))
	}
	if err := ir.PopulateInstance(inst, fields); err != nil {
		return nil, transformErr(ErrCodeReconstruct, path, err, "class %q: %v", id, err)
	}
	return t.record(path, inst), nil
}

// classFields rebuilds ClassReg(id, {fields}). The instance is recorded
// before its fields are transformed.
func (t *transformer) classFields(n *CallExpression, path, argPath string) (any, error) {
	id, err := t.classID(n, argPath)
	if err != nil {
		return nil, err
	}
	typ, ok := t.codec.reg.Class(id)
	if !ok {
		t.warnUnknownClass(id, path)
		v, err := t.transform(n.Args[1], argPath)
		if err != nil {
			return nil, err
		}
		return t.record(path, v), nil
	}

	inst := ir.NewInstance(typ)
	t.record(path, inst)
	v, err := t.transform(n.Args[1], argPath)
	if err != nil {
		return nil, err
	}
	fields, ok := v.(*ir.Object)
	if !ok {
		return nil, transformErr(ErrCodeInvalidArgument, argPath, nil, "ClassReg needs an object of fields, got %s", ir.KindName(v))
	}
	if err := ir.PopulateInstance(inst, fields); err != nil {
		return nil, transformErr(ErrCodeReconstruct, path, err, "class %q: %v", id, err)
	}
	return inst, nil
}

func (t *transformer) classID(n *CallExpression, argPath string) (string, error) {
	if err := t.arity(n, argPath, 2); err != nil {
		return "", err
	}
	v, err := t.transform(n.Args[0], argPath)
	if err != nil {
		return "", err
	}
	id, ok := v.(string)
	if !ok {
		return "", transformErr(ErrCodeInvalidArgument, argPath, nil, "%s needs a class identifier string, got %s", n.Callee.Name, ir.KindName(v))
	}
	return id, nil
}

func (t *transformer) warnUnknownClass(id, path string) {
	t.codec.logger.Warn("unknown class identifier, keeping plain value",
		"identifier", id,
		"path", path,
	)
}
