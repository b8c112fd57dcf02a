package ir

import (
	"math"
	"math/big"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type point struct {
	X, Y float64
}

type otherPoint struct {
	X, Y float64
}

func TestEqual(t *testing.T) {
	shared := NewSymbol("s")
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nan", math.NaN(), math.NaN(), true},
		{"int vs float", 1, 1.0, true},
		{"undefined vs null", Undefined{}, Null{}, false},
		{"nil is null", nil, Null{}, true},
		{"big ints", big.NewInt(10), big.NewInt(10), true},
		{"same symbol", shared, shared, true},
		{"local symbols by description", NewSymbol("d"), NewSymbol("d"), true},
		{"local vs global", NewSymbol("d"), SymbolFor("d"), false},
		{"described vs bare", NewSymbol(""), NewSymbol(), false},
		{"arrays", NewArray(1.0, "a"), []any{1, "a"}, true},
		{"array length", NewArray(1.0), NewArray(1.0, 2.0), false},
		{"object order matters", NewObjectFromPairs(O("a", 1.0), O("b", 2.0)), NewObjectFromPairs(O("b", 2.0), O("a", 1.0)), false},
		{"object vs go map", NewObjectFromPairs(O("a", 1.0), O("b", 2.0)), map[string]any{"b": 2.0, "a": 1.0}, true},
		{"dates", NewDate(time.Unix(0, 0)), time.Unix(0, 0), true},
		{"urls", mustURL(t, "https://a.example/x"), &url.URL{Scheme: "https", Host: "a.example", Path: "/x"}, true},
		{"boxed", NewBoxed(1), NewBoxed(1.0), true},
		{"boxed vs primitive", NewBoxed(1), 1.0, false},
		{"instances", &point{1, 2}, &point{1, 2}, true},
		{"instance fields", &point{1, 2}, &point{1, 3}, false},
		{"instance class", &point{1, 2}, &otherPoint{1, 2}, false},
		{"buffers", &Uint8Array{Elems: []byte{1, 2}}, []byte{1, 2}, true},
		{"buffer kinds", &Uint8Array{Elems: []byte{1}}, &Int8Array{Elems: []int8{1}}, false},
		{"regexp", NewRegExp("a", "g"), NewRegExp("a", "g"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestEqualCyclic(t *testing.T) {
	a := NewObjectFromPairs(O("n", 1.0))
	_ = a.Set("self", a)
	b := NewObjectFromPairs(O("n", 1.0))
	_ = b.Set("self", b)

	assert.True(t, Equal(a, b))

	c := NewObjectFromPairs(O("n", 2.0))
	_ = c.Set("self", c)
	assert.False(t, Equal(a, c))
}

func TestEqualErrors(t *testing.T) {
	a := NewError("outer")
	a.Cause = NewError("inner")
	b := NewError("outer")
	b.Cause = NewError("inner")
	assert.True(t, Equal(a, b))

	b.Cause.(*Error).Message = "different"
	assert.False(t, Equal(a, b))
}

func mustURL(t *testing.T, s string) *URL {
	t.Helper()
	u, err := ParseURL(s)
	if err != nil {
		t.Fatal(err)
	}
	return u
}
