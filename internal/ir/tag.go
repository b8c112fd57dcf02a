package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Tag discriminates a tagged tree node.
type Tag string

const (
	TagUndefined       Tag = "$udf"
	TagNull            Tag = "$null"
	TagBoolean         Tag = "$bool"
	TagNumber          Tag = "$num"
	TagBigInt          Tag = "$bint"
	TagString          Tag = "$str"
	TagSymbol          Tag = "$sym"
	TagArray           Tag = "$arr"
	TagObject          Tag = "$obj"
	TagRegExp          Tag = "$regx"
	TagDate            Tag = "$date"
	TagURL             Tag = "$url"
	TagURLSearchParams Tag = "$urlsp"
	TagError           Tag = "$err"
	TagSet             Tag = "$set"
	TagMap             Tag = "$map"

	TagArrayBuffer       Tag = "$buf"
	TagSharedArrayBuffer Tag = "$sbuf"
	TagDataView          Tag = "$dv"
	TagInt8Array         Tag = "$i8a"
	TagUint8Array        Tag = "$u8a"
	TagUint8ClampedArray Tag = "$u8ca"
	TagInt16Array        Tag = "$i16a"
	TagUint16Array       Tag = "$u16a"
	TagInt32Array        Tag = "$i32a"
	TagUint32Array       Tag = "$u32a"
	TagFloat32Array      Tag = "$f32a"
	TagFloat64Array      Tag = "$f64a"
	TagBigInt64Array     Tag = "$i64a"
	TagBigUint64Array    Tag = "$u64a"

	// TagJSON carries a registered class instance through its projection hook.
	TagJSON Tag = "$json"
	// TagClass carries a registered class instance as a field map.
	TagClass Tag = "$class"
	TagRef   Tag = "$ref"
)

var bufferTags = map[BufferKind]Tag{
	KindArrayBuffer:       TagArrayBuffer,
	KindSharedArrayBuffer: TagSharedArrayBuffer,
	KindDataView:          TagDataView,
	KindInt8Array:         TagInt8Array,
	KindUint8Array:        TagUint8Array,
	KindUint8ClampedArray: TagUint8ClampedArray,
	KindInt16Array:        TagInt16Array,
	KindUint16Array:       TagUint16Array,
	KindInt32Array:        TagInt32Array,
	KindUint32Array:       TagUint32Array,
	KindFloat32Array:      TagFloat32Array,
	KindFloat64Array:      TagFloat64Array,
	KindBigInt64Array:     TagBigInt64Array,
	KindBigUint64Array:    TagBigUint64Array,
}

var tagBuffers = func() map[Tag]BufferKind {
	m := make(map[Tag]BufferKind, len(bufferTags))
	for k, t := range bufferTags {
		m[t] = k
	}
	return m
}()

// BufferTag returns the tag of a buffer kind.
func BufferTag(kind BufferKind) Tag {
	return bufferTags[kind]
}

// BufferKind returns the buffer kind a tag stands for.
func (t Tag) BufferKind() (BufferKind, bool) {
	k, ok := tagBuffers[t]
	return k, ok
}

var knownTags = map[Tag]bool{
	TagUndefined: true, TagNull: true, TagBoolean: true, TagNumber: true,
	TagBigInt: true, TagString: true, TagSymbol: true, TagArray: true,
	TagObject: true, TagRegExp: true, TagDate: true, TagURL: true,
	TagURLSearchParams: true, TagError: true, TagSet: true, TagMap: true,
	TagJSON: true, TagClass: true, TagRef: true,
}

// Valid reports whether t is one of the closed tag set.
func (t Tag) Valid() bool {
	if knownTags[t] {
		return true
	}
	_, ok := tagBuffers[t]
	return ok
}

// Node is one node of the tagged tree. Which fields are set depends on Tag:
//
//	$bool $num $bint $str $date $url $urlsp $ref  Value
//	$arr $set                                     Items
//	$obj $map                                     Pairs
//	$sym                                          Symbol
//	$regx                                         RegExp
//	$err                                          Error
//	buffers                                       Elems
//	$json                                         Class, Inner
//	$class                                        Class, Pairs
type Node struct {
	Tag    Tag
	Value  any
	Items  []*Node
	Pairs  []NodePair
	Symbol *SymbolPayload
	RegExp *RegExpPayload
	Error  *ErrorPayload
	Elems  []any
	Class  string
	Inner  *Node
}

// NodePair is a key/value slot of an object, map, error props or class field map.
type NodePair struct {
	Key   *Node
	Value *Node
}

// SymbolPayload describes a symbol. Key is nil for a symbol with no
// description.
type SymbolPayload struct {
	Global bool    `json:"global" yaml:"global"`
	Key    *string `json:"key,omitempty" yaml:"key,omitempty"`
}

// RegExpPayload holds a regular expression's source and flags.
type RegExpPayload struct {
	Source string `json:"source" yaml:"source"`
	Flags  string `json:"flags" yaml:"flags"`
}

// ErrorPayload holds the fields of an error node.
type ErrorPayload struct {
	Name    string
	Message string
	Stack   string
	Cause   *Node
	Props   []NodePair
}

// errorTree is the wire record of ErrorPayload.
type errorTree struct {
	Name    string `json:"name" yaml:"name"`
	Message string `json:"message" yaml:"message"`
	Stack   string `json:"stack,omitempty" yaml:"stack,omitempty"`
	Cause   any    `json:"cause,omitempty" yaml:"cause,omitempty"`
	Props   []any  `json:"props" yaml:"props"`
}

// Leaf builds a node with a scalar payload, or none when value is omitted.
func Leaf(tag Tag, value ...any) *Node {
	n := &Node{Tag: tag}
	if len(value) > 0 {
		n.Value = value[0]
	}
	return n
}

// Ref builds a reference node.
func Ref(path string) *Node {
	return &Node{Tag: TagRef, Value: path}
}

// ToTree returns the nested list form of the node, ready for framing.
func (n *Node) ToTree() any {
	if n == nil {
		return nil
	}
	switch n.Tag {
	case TagUndefined, TagNull:
		return []any{string(n.Tag)}
	case TagArray, TagSet:
		return []any{string(n.Tag), itemsTree(n.Items)}
	case TagObject, TagMap:
		return []any{string(n.Tag), pairsTree(n.Pairs)}
	case TagSymbol:
		return []any{string(n.Tag), n.Symbol}
	case TagRegExp:
		return []any{string(n.Tag), n.RegExp}
	case TagError:
		return []any{string(n.Tag), n.Error.tree()}
	case TagJSON:
		return []any{string(n.Tag), n.Class, n.Inner.ToTree()}
	case TagClass:
		return []any{string(n.Tag), n.Class, pairsTree(n.Pairs)}
	}
	if _, ok := n.Tag.BufferKind(); ok {
		elems := n.Elems
		if elems == nil {
			elems = []any{}
		}
		return []any{string(n.Tag), elems}
	}
	return []any{string(n.Tag), n.Value}
}

func (e *ErrorPayload) tree() *errorTree {
	if e == nil {
		return nil
	}
	out := &errorTree{
		Name:    e.Name,
		Message: e.Message,
		Stack:   e.Stack,
		Props:   pairsTree(e.Props),
	}
	if e.Cause != nil {
		out.Cause = e.Cause.ToTree()
	}
	return out
}

func itemsTree(items []*Node) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = it.ToTree()
	}
	return out
}

func pairsTree(pairs []NodePair) []any {
	out := make([]any, len(pairs))
	for i, p := range pairs {
		out[i] = []any{p.Key.ToTree(), p.Value.ToTree()}
	}
	return out
}

// FromTree parses the nested list form produced by ToTree, or by decoding
// it with a JSON, YAML or CBOR decoder.
func FromTree(v any) (*Node, error) {
	list, ok := asList(v)
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("tagged node must be a non-empty list, got %T", v)
	}
	tagStr, ok := list[0].(string)
	if !ok {
		return nil, fmt.Errorf("tag must be a string, got %T", list[0])
	}
	tag := Tag(tagStr)
	if !tag.Valid() {
		return nil, fmt.Errorf("unknown tag %q", tagStr)
	}
	n := &Node{Tag: tag}

	switch tag {
	case TagUndefined, TagNull:
		return n, nil
	case TagJSON, TagClass:
		if len(list) != 3 {
			return nil, fmt.Errorf("%s node needs an identifier and a payload", tag)
		}
		id, ok := list[1].(string)
		if !ok {
			return nil, fmt.Errorf("%s identifier must be a string, got %T", tag, list[1])
		}
		n.Class = id
		if tag == TagJSON {
			inner, err := FromTree(list[2])
			if err != nil {
				return nil, fmt.Errorf("%s payload: %w", tag, err)
			}
			n.Inner = inner
			return n, nil
		}
		pairs, err := pairsFromTree(list[2])
		if err != nil {
			return nil, fmt.Errorf("%s payload: %w", tag, err)
		}
		n.Pairs = pairs
		return n, nil
	}

	if len(list) != 2 {
		return nil, fmt.Errorf("%s node needs exactly one payload", tag)
	}
	payload := list[1]

	switch tag {
	case TagBoolean:
		b, ok := payload.(bool)
		if !ok {
			return nil, fmt.Errorf("%s payload must be a boolean, got %T", tag, payload)
		}
		n.Value = b
	case TagNumber:
		if s, ok := payload.(string); ok {
			n.Value = s
			break
		}
		f, ok := toFloat(payload)
		if !ok {
			return nil, fmt.Errorf("%s payload must be a number, got %T", tag, payload)
		}
		n.Value = f
	case TagBigInt, TagString, TagDate, TagURL, TagURLSearchParams, TagRef:
		s, ok := payload.(string)
		if !ok {
			return nil, fmt.Errorf("%s payload must be a string, got %T", tag, payload)
		}
		n.Value = s
	case TagArray, TagSet:
		items, ok := asList(payload)
		if !ok {
			return nil, fmt.Errorf("%s payload must be a list, got %T", tag, payload)
		}
		n.Items = make([]*Node, len(items))
		for i, it := range items {
			child, err := FromTree(it)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", tag, i, err)
			}
			n.Items[i] = child
		}
	case TagObject, TagMap:
		pairs, err := pairsFromTree(payload)
		if err != nil {
			return nil, fmt.Errorf("%s payload: %w", tag, err)
		}
		n.Pairs = pairs
	case TagSymbol:
		sym, err := symbolFromTree(payload)
		if err != nil {
			return nil, err
		}
		n.Symbol = sym
	case TagRegExp:
		re, err := regexpFromTree(payload)
		if err != nil {
			return nil, err
		}
		n.RegExp = re
	case TagError:
		e, err := errorFromTree(payload)
		if err != nil {
			return nil, err
		}
		n.Error = e
	default:
		kind, _ := tag.BufferKind()
		elems, ok := asList(payload)
		if !ok {
			return nil, fmt.Errorf("%s payload must be a list, got %T", tag, payload)
		}
		n.Elems = make([]any, len(elems))
		for i, e := range elems {
			if kind.IsBigElement() {
				s, ok := e.(string)
				if !ok {
					return nil, fmt.Errorf("%s[%d] must be a decimal string, got %T", tag, i, e)
				}
				n.Elems[i] = s
				continue
			}
			if s, ok := e.(string); ok {
				n.Elems[i] = s
				continue
			}
			f, ok := toFloat(e)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a number, got %T", tag, i, e)
			}
			n.Elems[i] = f
		}
	}
	return n, nil
}

func pairsFromTree(v any) ([]NodePair, error) {
	list, ok := asList(v)
	if !ok {
		return nil, fmt.Errorf("pairs must be a list, got %T", v)
	}
	out := make([]NodePair, len(list))
	for i, raw := range list {
		kv, ok := asList(raw)
		if !ok || len(kv) != 2 {
			return nil, fmt.Errorf("pair %d must be a [key, value] list", i)
		}
		k, err := FromTree(kv[0])
		if err != nil {
			return nil, fmt.Errorf("pair %d key: %w", i, err)
		}
		val, err := FromTree(kv[1])
		if err != nil {
			return nil, fmt.Errorf("pair %d value: %w", i, err)
		}
		out[i] = NodePair{Key: k, Value: val}
	}
	return out, nil
}

func symbolFromTree(v any) (*SymbolPayload, error) {
	if p, ok := v.(*SymbolPayload); ok {
		return p, nil
	}
	rec, ok := asRecord(v)
	if !ok {
		return nil, fmt.Errorf("%s payload must be a record, got %T", TagSymbol, v)
	}
	out := &SymbolPayload{}
	if g, ok := rec["global"].(bool); ok {
		out.Global = g
	}
	if raw, present := rec["key"]; present && raw != nil {
		key, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%s key must be a string, got %T", TagSymbol, raw)
		}
		out.Key = &key
	}
	if out.Global && out.Key == nil {
		return nil, fmt.Errorf("global %s needs a key", TagSymbol)
	}
	return out, nil
}

func regexpFromTree(v any) (*RegExpPayload, error) {
	if p, ok := v.(*RegExpPayload); ok {
		return p, nil
	}
	rec, ok := asRecord(v)
	if !ok {
		return nil, fmt.Errorf("%s payload must be a record, got %T", TagRegExp, v)
	}
	src, ok := rec["source"].(string)
	if !ok {
		return nil, fmt.Errorf("%s source must be a string", TagRegExp)
	}
	flags, _ := rec["flags"].(string)
	return &RegExpPayload{Source: src, Flags: flags}, nil
}

func errorFromTree(v any) (*ErrorPayload, error) {
	if t, ok := v.(*errorTree); ok {
		v = map[string]any{
			"name": t.Name, "message": t.Message, "stack": t.Stack,
			"cause": t.Cause, "props": t.Props,
		}
	}
	rec, ok := asRecord(v)
	if !ok {
		return nil, fmt.Errorf("%s payload must be a record, got %T", TagError, v)
	}
	out := &ErrorPayload{}
	out.Name, _ = rec["name"].(string)
	out.Message, _ = rec["message"].(string)
	out.Stack, _ = rec["stack"].(string)
	if raw, present := rec["cause"]; present && raw != nil {
		cause, err := FromTree(raw)
		if err != nil {
			return nil, fmt.Errorf("%s cause: %w", TagError, err)
		}
		out.Cause = cause
	}
	if raw, present := rec["props"]; present && raw != nil {
		props, err := pairsFromTree(raw)
		if err != nil {
			return nil, fmt.Errorf("%s props: %w", TagError, err)
		}
		out.Props = props
	}
	return out, nil
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// asRecord accepts the map shapes JSON, YAML and CBOR decoders produce.
func asRecord(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

// MarshalJSON renders the nested list form. HTML characters are not
// escaped.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(n.ToTree()); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON parses the nested list form.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromTree(raw)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}
