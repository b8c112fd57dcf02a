package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selfReferenceNode() *Node {
	return &Node{Tag: TagObject, Pairs: []NodePair{
		{Key: Leaf(TagString, "a"), Value: Leaf(TagNumber, 1.0)},
		{Key: Leaf(TagString, "self"), Value: Ref("#")},
	}}
}

func TestNodeMarshalJSON(t *testing.T) {
	data, err := json.Marshal(selfReferenceNode())
	require.NoError(t, err)
	assert.Equal(t, `["$obj",[[["$str","a"],["$num",1]],[["$str","self"],["$ref","#"]]]]`, string(data))
}

func TestNodeMarshalJSONPayloadRecords(t *testing.T) {
	key := "k"
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"undefined", Leaf(TagUndefined), `["$udf"]`},
		{"nan sentinel", Leaf(TagNumber, NaNSentinel), `["$num","NaN"]`},
		{"html kept", Leaf(TagString, "<a&b>"), `["$str","<a&b>"]`},
		{"global symbol", &Node{Tag: TagSymbol, Symbol: &SymbolPayload{Global: true, Key: &key}}, `["$sym",{"global":true,"key":"k"}]`},
		{"bare symbol", &Node{Tag: TagSymbol, Symbol: &SymbolPayload{}}, `["$sym",{"global":false}]`},
		{"regexp", &Node{Tag: TagRegExp, RegExp: &RegExpPayload{Source: "a+", Flags: "g"}}, `["$regx",{"source":"a+","flags":"g"}]`},
		{"error", &Node{Tag: TagError, Error: &ErrorPayload{Name: "Error", Message: "boom"}}, `["$err",{"name":"Error","message":"boom","props":[]}]`},
		{"empty buffer", &Node{Tag: TagUint8Array}, `["$u8a",[]]`},
		{"big buffer", &Node{Tag: TagBigInt64Array, Elems: []any{"1", "-2"}}, `["$i64a",["1","-2"]]`},
		{"json class", &Node{Tag: TagJSON, Class: "Point", Inner: Leaf(TagString, "1,2")}, `["$json","Point",["$str","1,2"]]`},
		{"field class", &Node{Tag: TagClass, Class: "Point", Pairs: []NodePair{{Key: Leaf(TagString, "x"), Value: Leaf(TagNumber, 1.0)}}}, `["$class","Point",[[["$str","x"],["$num",1]]]]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.node.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))

			var back Node
			require.NoError(t, json.Unmarshal(data, &back))
			again, err := back.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(again))
		})
	}
}

func TestFromTreeAcceptsDecoderShapes(t *testing.T) {
	// YAML decodes integers as int and records as map[string]any; CBOR may
	// produce map[any]any and uint64.
	n, err := FromTree([]any{"$arr", []any{
		[]any{"$num", 3},
		[]any{"$num", uint64(4)},
		[]any{"$regx", map[any]any{"source": "x", "flags": ""}},
		[]any{"$err", map[string]any{"name": "Error", "message": "m", "cause": []any{"$null"}, "props": []any{}}},
	}})
	require.NoError(t, err)
	require.Len(t, n.Items, 4)
	assert.Equal(t, 3.0, n.Items[0].Value)
	assert.Equal(t, 4.0, n.Items[1].Value)
	assert.Equal(t, "x", n.Items[2].RegExp.Source)
	require.NotNil(t, n.Items[3].Error.Cause)
	assert.Equal(t, TagNull, n.Items[3].Error.Cause.Tag)
}

func TestFromTreeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   any
		msg  string
	}{
		{"not a list", "x", "non-empty list"},
		{"empty", []any{}, "non-empty list"},
		{"tag not string", []any{1}, "tag must be a string"},
		{"unknown tag", []any{"$nope"}, `unknown tag "$nope"`},
		{"missing payload", []any{"$str"}, "exactly one payload"},
		{"bad bool", []any{"$bool", "yes"}, "must be a boolean"},
		{"bad pair", []any{"$obj", []any{[]any{[]any{"$str", "a"}}}}, "[key, value]"},
		{"class without id", []any{"$class", []any{}}, "identifier"},
		{"global symbol without key", []any{"$sym", map[string]any{"global": true}}, "needs a key"},
		{"big element not string", []any{"$u64a", []any{1}}, "decimal string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromTree(tt.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
