package typify

import (
	"errors"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jsonx/internal/ir"
	"github.com/roach88/jsonx/internal/registry"
	"github.com/roach88/jsonx/internal/testutil"
)

type point struct {
	X float64 `jsonx:"x"`
	Y float64 `jsonx:"y"`
}

// temperature projects to its Celsius reading and rebuilds from it.
type temperature struct {
	Celsius float64
}

func (t temperature) MarshalValue() (any, error) { return t.Celsius, nil }

func (t *temperature) UnmarshalValue(v any) error {
	f, ok := v.(float64)
	if !ok {
		return errors.New("temperature needs a number")
	}
	t.Celsius = f
	return nil
}

type node struct {
	Name string `jsonx:"name"`
	Next *node  `jsonx:"next"`
}

func stringify(t *testing.T, c *Codec, v any) string {
	t.Helper()
	out, err := c.Stringify(v)
	require.NoError(t, err)
	return out
}

func parse(t *testing.T, c *Codec, text string) any {
	t.Helper()
	v, err := c.Parse(text)
	require.NoError(t, err)
	return v
}

func TestStringifyPrimitives(t *testing.T) {
	c := New(nil)
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"undefined", ir.Undefined{}, "undefined"},
		{"null", ir.Null{}, "null"},
		{"number", 123, "123"},
		{"fraction", 0.5, "0.5"},
		{"large", 1e21, "1e+21"},
		{"nan", math.NaN(), "NaN"},
		{"infinity", math.Inf(1), "Infinity"},
		{"negative infinity", math.Inf(-1), "-Infinity"},
		{"string", "hello", `"hello"`},
		{"true", true, "true"},
		{"false", false, "false"},
		{"bigint", big.NewInt(123), "123n"},
		{"boxed string", ir.NewBoxed("test"), `String("test")`},
		{"boxed number", ir.NewBoxed(1.5), "Number(1.5)"},
		{"boxed boolean", ir.NewBoxed(false), "Boolean(false)"},
		{"boxed bigint", ir.NewBoxed(big.NewInt(-4)), "BigInt(-4n)"},
		{"date", time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC), `Date("2024-01-02T03:04:05.006Z")`},
		{"regexp", ir.NewRegExp(`\d+`, "g"), `RegExp({"source": "\\d+","flags": "g"})`},
		{"url", mustURL(t, "https://example.com/x"), `URL("https://example.com/x")`},
		{"search params", ir.ParseURLSearchParams("q=a b"), `URLSearchParams("q=a+b")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stringify(t, c, tt.in))
		})
	}
}

func mustURL(t *testing.T, s string) *ir.URL {
	t.Helper()
	u, err := ir.ParseURL(s)
	require.NoError(t, err)
	return u
}

func TestStringifyContainers(t *testing.T) {
	c := New(nil)
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"empty array", ir.NewArray(), "[]"},
		{"numbers", ir.NewArray(1.0, 2.0, 3.0), "[1,2,3]"},
		{"strings", []string{"a", "b"}, `["a","b"]`},
		{"mixed", []any{1, "a", true}, `[1,"a",true]`},
		{"empty object", ir.NewObject(), "{}"},
		{"object", ir.NewObjectFromPairs(ir.O("a", 1.0)), `{"a": 1}`},
		{"two keys", ir.NewObjectFromPairs(ir.O("a", 1.0), ir.O("b", "2")), `{"a": 1,"b": "2"}`},
		{"nested", ir.NewObjectFromPairs(
			ir.O("a", ir.NewArray(1.0, 2.0, ir.NewObjectFromPairs(ir.O("b", 3.0)))),
			ir.O("c", ir.NewObjectFromPairs(ir.O("d", ir.NewArray(4.0, 5.0)))),
		), `{"a": [1,2,{"b": 3}],"c": {"d": [4,5]}}`},
		{"set", ir.NewSet(1.0, 2.0, 3.0), "Set([1,2,3])"},
		{"map", ir.NewMap(ir.O("k", 1.0), ir.O(2.0, ir.NewArray())), `Map([["k",1],[2,[]]])`},
		{"symbol key", ir.NewObjectFromPairs(ir.O(ir.SymbolFor("k"), 1.0)), `{SymbolFor("k"): 1}`},
		{"go map", map[string]int{"b": 2, "a": 1}, `{"a": 1,"b": 2}`},
		{"bytes", []byte{0, 255}, "Uint8Array([0,255])"},
		{"float buffer", &ir.Float64Array{Elems: []float64{0.25, math.NaN()}}, "Float64Array([0.25,NaN])"},
		{"big buffer", &ir.BigUint64Array{Elems: []uint64{math.MaxUint64}}, "BigUint64Array([18446744073709551615n])"},
		{"array buffer", &ir.ArrayBuffer{Data: []byte{7}}, "ArrayBuffer([7])"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stringify(t, c, tt.in))
		})
	}
}

func TestStringifySymbols(t *testing.T) {
	reg := registry.New()
	registered := ir.NewSymbol("token")
	reg.RegisterSymbol(registered, "app.token")
	c := New(reg)

	assert.Equal(t, `Symbol("test")`, stringify(t, c, ir.NewSymbol("test")))
	assert.Equal(t, "Symbol()", stringify(t, c, ir.NewSymbol()))
	assert.Equal(t, `SymbolFor("global")`, stringify(t, c, ir.SymbolFor("global")))
	assert.Equal(t, `SymbolReg("app.token")`, stringify(t, c, registered))
	assert.Equal(t, `SymbolFor("global")`, stringify(t, c, ir.NewBoxed(ir.SymbolFor("global"))))
}

func TestStringifySelfReference(t *testing.T) {
	obj := ir.NewObjectFromPairs(ir.O("a", 1.0))
	require.NoError(t, obj.Set("self", obj))
	assert.Equal(t, `{"a": 1,"self": Ref("#")}`, stringify(t, New(nil), obj))
}

func TestStringifySharedReference(t *testing.T) {
	shared := ir.NewObject()
	root := ir.NewArray(shared, ir.NewSet(shared), ir.NewMap(ir.O("k", shared)))
	assert.Equal(t, `[{},Set([Ref("#/[0]")]),Map([["k",Ref("#/[0]")]])]`, stringify(t, New(nil), root))

	sym := ir.NewSymbol("s")
	assert.Equal(t, `[Symbol("s"),Ref("#/[0]")]`, stringify(t, New(nil), ir.NewArray(sym, sym)))
}

func TestStringifyErrors(t *testing.T) {
	e := &ir.Error{Name: "TypeError", Message: "outer", Cause: ir.NewError("inner"), Props: ir.NewObjectFromPairs(
		ir.O("code", 7.0),
		ir.O("name", "skipped"),
	)}
	assert.Equal(t,
		`Error({"name": "TypeError","message": "outer","cause": Error({"name": "Error","message": "inner"}),"code": 7})`,
		stringify(t, New(nil), e))
}

func TestStringifyClasses(t *testing.T) {
	reg := registry.New()
	reg.RegisterClass(point{}, "Point")
	reg.RegisterClass(temperature{}, "Temperature")
	c := New(reg)

	assert.Equal(t, `ClassReg("Point", {"x": 1,"y": 2})`, stringify(t, c, &point{X: 1, Y: 2}))
	assert.Equal(t, `ClassJson("Temperature", 21.5)`, stringify(t, c, &temperature{Celsius: 21.5}))

	plain := New(nil)
	assert.Equal(t, "21.5", stringify(t, plain, temperature{Celsius: 21.5}))
	assert.Equal(t, `{"x": 3,"y": 4}`, stringify(t, plain, point{X: 3, Y: 4}))
}

func TestStringifyUnsupported(t *testing.T) {
	_, err := New(nil).Stringify(map[string]any{"f": func() {}})
	var se *StringifyError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCodeUnsupportedType, se.Code)
	assert.Equal(t, "#/[0,1]", se.Path)
}

func TestParseLiterals(t *testing.T) {
	c := New(nil)
	assert.Equal(t, ir.Undefined{}, parse(t, c, ""))
	assert.Equal(t, ir.Undefined{}, parse(t, c, "undefined"))
	assert.Equal(t, ir.Null{}, parse(t, c, "null"))
	assert.Equal(t, true, parse(t, c, "true"))
	assert.Equal(t, 123.0, parse(t, c, "123"))
	assert.Equal(t, "test", parse(t, c, `"test"`))
	assert.Equal(t, 0, big.NewInt(123).Cmp(parse(t, c, "123n").(*big.Int)))
	assert.True(t, math.IsInf(parse(t, c, "-Infinity").(float64), -1))
}

func TestParseSimpleObject(t *testing.T) {
	v := parse(t, New(nil), `{"foo": "bar"}`)
	assert.True(t, ir.Equal(ir.NewObjectFromPairs(ir.O("foo", "bar")), v))
}

func TestParseSelfReference(t *testing.T) {
	v := parse(t, New(nil), `{"a": 1,"self": Ref("#")}`)
	obj := v.(*ir.Object)
	self, _ := obj.Get("self")
	assert.Same(t, obj, self)
}

func TestParseReferencesIntoContainers(t *testing.T) {
	c := New(nil)

	set := parse(t, c, `Set([1, Ref("#")])`).(*ir.Set)
	assert.True(t, set.Has(set))

	m := parse(t, c, `Map([["me", Ref("#")]])`).(*ir.Map)
	got, _ := m.Get("me")
	assert.Same(t, m, got)

	e := parse(t, c, `Error({"name": "Error","message": "loop","cause": Ref("#")})`).(*ir.Error)
	assert.Same(t, e, e.Cause)

	arr := parse(t, c, `[{"k": 1}, Ref("#/[0]")]`).(*ir.Array)
	assert.Same(t, arr.Items[0], arr.Items[1])
}

func TestParseSet(t *testing.T) {
	v := parse(t, New(nil), "Set([1,2,3])")
	assert.True(t, ir.Equal(ir.NewSet(1.0, 2.0, 3.0), v))
}

func TestParseSymbols(t *testing.T) {
	reg := registry.New()
	registered := ir.NewSymbol("token")
	reg.RegisterSymbol(registered, "app.token")
	c := New(reg)

	assert.Same(t, ir.SymbolFor("g"), parse(t, c, `SymbolFor("g")`))
	assert.Same(t, registered, parse(t, c, `SymbolReg("app.token")`))

	unknown := parse(t, c, `SymbolReg("missing")`).(*ir.Symbol)
	desc, _ := unknown.Description()
	assert.Equal(t, "missing", desc)

	numbered := parse(t, c, "Symbol(12)").(*ir.Symbol)
	desc, _ = numbered.Description()
	assert.Equal(t, "12", desc)

	bare := parse(t, c, "Symbol()").(*ir.Symbol)
	_, ok := bare.Description()
	assert.False(t, ok)

	obj := parse(t, c, `{Symbol("k"): 1, Ref("#/[0,0]"): 2}`).(*ir.Object)
	require.Equal(t, 1, obj.Len(), "the second key refers to the same symbol")
	v, _ := obj.Get(obj.Keys()[0])
	assert.Equal(t, 2.0, v)
}

func TestParseClasses(t *testing.T) {
	reg := registry.New()
	reg.RegisterClass(point{}, "Point")
	reg.RegisterClass(temperature{}, "Temperature")
	reg.RegisterClass(node{}, "Node")
	c := New(reg)

	assert.Equal(t, &point{X: 1, Y: 2}, parse(t, c, `ClassReg("Point", {"x": 1,"y": 2})`))
	assert.Equal(t, &temperature{Celsius: 21.5}, parse(t, c, `ClassJson("Temperature", 21.5)`))
	assert.Equal(t, &point{X: 4}, parse(t, c, `ClassJson("Point", {"x": 4})`))

	n := parse(t, c, `ClassReg("Node", {"name": "loop","next": Ref("#")})`).(*node)
	assert.Same(t, n, n.Next)
}

func TestParseUnknownClassWarns(t *testing.T) {
	logger, rec := testutil.NewLogger()
	c := New(nil, WithLogger(logger))

	v := parse(t, c, `ClassReg("Ghost", {"a": 1})`)
	assert.True(t, ir.Equal(ir.NewObjectFromPairs(ir.O("a", 1.0)), v))
	assert.Equal(t, "plain", parse(t, c, `ClassJson("Ghost", "plain")`))

	warnings := rec.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, "Ghost", warnings[1].Attrs["identifier"])
}

func TestParseErrors(t *testing.T) {
	reg := registry.New()
	reg.RegisterClass(temperature{}, "Temperature")
	c := New(reg)

	tests := []struct {
		name string
		src  string
		code ErrorCode
		path string
	}{
		{"bare identifier", "[Foo]", ErrCodeUnknownNode, "#/[0]"},
		{"unknown constructor", "Widget(1)", ErrCodeUnknownConstructor, "#"},
		{"unresolved ref", `[Ref("#/[3]")]`, ErrCodeUnresolvedRef, "#/[0]"},
		{"invalid key", `{Set([]): 1}`, ErrCodeInvalidKey, "#/[0,0]"},
		{"wrong arity", `Date()`, ErrCodeInvalidArgument, "#/Date"},
		{"bad date", `Date("soon")`, ErrCodeInvalidArgument, "#"},
		{"bad set argument", `Set(1)`, ErrCodeInvalidArgument, "#/Set"},
		{"bad map entry", `Map([[1]])`, ErrCodeInvalidArgument, "#/Map/[0]"},
		{"error without message", `Error({"name": "E"})`, ErrCodeInvalidArgument, "#/Error"},
		{"bad buffer element", `Int8Array(["x"])`, ErrCodeInvalidArgument, "#"},
		{"ref needs string", `Ref(1)`, ErrCodeInvalidArgument, "#/Ref"},
		{"reconstruct", `ClassJson("Temperature", "warm")`, ErrCodeReconstruct, "#"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Parse(tt.src)
			require.Error(t, err)
			assert.True(t, IsTransformError(err))

			var te *TransformError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.code, te.Code)
			assert.Equal(t, tt.path, te.Path)
		})
	}
}

func TestParseMalformedInput(t *testing.T) {
	v, err := New(nil).Parse("{invalid")
	require.Error(t, err)
	assert.Nil(t, v)
	assert.True(t, IsParseError(err))
}

func TestTransformProgram(t *testing.T) {
	c := New(nil)
	v, err := c.Transform(&Program{Body: []Node{&StringLiteral{Value: "test"}}})
	require.NoError(t, err)
	assert.Equal(t, "test", v)

	v, err = c.Transform(&Program{})
	require.NoError(t, err)
	assert.Equal(t, ir.Undefined{}, v)

	_, err = c.Transform(&Program{Body: []Node{&Program{}}})
	var te *TransformError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, ErrCodeUnknownNode, te.Code)
	assert.Contains(t, te.Message, "Program")
}

func TestRoundTrip(t *testing.T) {
	reg := registry.New()
	reg.RegisterClass(point{}, "Point")
	reg.RegisterClass(temperature{}, "Temperature")
	c := New(reg)

	cyclic := ir.NewArray("head")
	cyclic.Append(cyclic)

	withProps := ir.NewError("boom")
	withProps.Name = "RangeError"
	withProps.Stack = "RangeError: boom\n    at f"
	withProps.Cause = ir.Null{}
	require.NoError(t, withProps.Props.Set("code", "E1"))

	tests := []struct {
		name string
		in   any
	}{
		{"nested", ir.NewObjectFromPairs(ir.O("a", ir.NewArray(1.0, "x\n\"q\"", true, ir.Null{})), ir.O("b", ir.Undefined{}))},
		{"cyclic array", cyclic},
		{"symbol keys", ir.NewObjectFromPairs(ir.O(ir.SymbolFor("k"), "sym"), ir.O("1", "one"))},
		{"map with object key", ir.NewMap(ir.O(ir.NewObject(), "v"), ir.O(2.0, ir.NewSet("a", "b")))},
		{"special numbers", ir.NewArray(math.NaN(), math.Inf(1), math.Inf(-1), 1e21, 5e-7, -0.125)},
		{"bigint", new(big.Int).Lsh(big.NewInt(1), 80)},
		{"boxes", ir.NewArray(ir.NewBoxed(true), ir.NewBoxed(2.5), ir.NewBoxed("s"), ir.NewBoxed(big.NewInt(9)))},
		{"date", ir.NewDate(time.Date(1969, 7, 20, 20, 17, 40, 0, time.UTC))},
		{"regexp", ir.NewRegExp(`a"b\/c`, "gimsuy")},
		{"url", mustURL(t, "https://example.com/p?q=1#frag")},
		{"search params", ir.ParseURLSearchParams("a=1&a=2&b=x+y")},
		{"error", withProps},
		{"buffers", ir.NewArray(
			&ir.Float32Array{Elems: []float32{1.5, float32(math.Inf(1)), 0.1}},
			&ir.BigInt64Array{Elems: []int64{math.MinInt64}},
			&ir.Uint8ClampedArray{Elems: []uint8{0, 255}},
			&ir.SharedArrayBuffer{Data: []byte{1, 2}},
			&ir.DataView{Data: []byte{3}},
		)},
		{"classes", ir.NewArray(&point{X: 1, Y: -1}, &temperature{Celsius: -3})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := stringify(t, c, tt.in)
			back := parse(t, c, text)
			assert.True(t, ir.Equal(tt.in, back), "round trip changed value: %s", text)
		})
	}
}

func TestStringifyGolden(t *testing.T) {
	reg := registry.New()
	reg.RegisterClass(point{}, "Point")
	c := New(reg)

	shared := ir.NewArray(1.0)
	value := ir.NewObjectFromPairs(
		ir.O("date", ir.NewDate(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))),
		ir.O("big", big.NewInt(12)),
		ir.O("nan", math.NaN()),
		ir.O("set", ir.NewSet(shared, "x")),
		ir.O("again", shared),
		ir.O("point", &point{X: 1, Y: 2}),
		ir.O(ir.SymbolFor("tag"), ir.NewMap(ir.O(1.0, ir.Null{}))),
	)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "kitchen_sink", []byte(stringify(t, c, value)))
}
