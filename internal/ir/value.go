package ir

import (
	"fmt"
	"math/big"
	"sync"
)

// Undefined represents the absent value.
// It is distinct from Null: an object field holding Undefined still exists.
type Undefined struct{}

// Null represents the null value. Go nil is treated as Null by every encoder.
type Null struct{}

// Symbol is a unique symbolic identifier. Two symbols are the same symbol
// only if they are the same pointer.
//
// Global symbols (created with SymbolFor) are interned by key, so
// SymbolFor("k") == SymbolFor("k").
type Symbol struct {
	description    string
	hasDescription bool
	global         bool
}

// NewSymbol creates a fresh symbol. The optional argument is its description.
func NewSymbol(description ...string) *Symbol {
	if len(description) == 0 {
		return &Symbol{}
	}
	return &Symbol{description: description[0], hasDescription: true}
}

var (
	globalSymbolsMu sync.Mutex
	globalSymbols   = map[string]*Symbol{}
)

// SymbolFor returns the global symbol for key, creating it on first use.
func SymbolFor(key string) *Symbol {
	globalSymbolsMu.Lock()
	defer globalSymbolsMu.Unlock()
	if sym, ok := globalSymbols[key]; ok {
		return sym
	}
	sym := &Symbol{description: key, hasDescription: true, global: true}
	globalSymbols[key] = sym
	return sym
}

// KeyFor returns the key of a global symbol.
func KeyFor(sym *Symbol) (string, bool) {
	if sym == nil || !sym.global {
		return "", false
	}
	return sym.description, true
}

// Description returns the symbol description and whether one was given.
func (s *Symbol) Description() (string, bool) {
	return s.description, s.hasDescription
}

// String renders the symbol the way a debugger would show it.
func (s *Symbol) String() string {
	return fmt.Sprintf("Symbol(%s)", s.description)
}

// Boxed is an object wrapper around a primitive: bool, float64, *big.Int,
// string or *Symbol. Boxes have identity; the primitive inside does not.
type Boxed struct {
	Value any
}

// NewBoxed wraps a primitive. Go integer kinds are stored as float64.
func NewBoxed(v any) *Boxed {
	if f, ok := toFloat(v); ok {
		return &Boxed{Value: f}
	}
	return &Boxed{Value: v}
}

// NewBigInt parses a decimal big integer literal.
func NewBigInt(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid big integer %q", s)
	}
	return n, nil
}

// Array is an ordered sequence of values.
type Array struct {
	Items []any
}

// NewArray creates an Array from values.
func NewArray(items ...any) *Array {
	if items == nil {
		items = []any{}
	}
	return &Array{Items: items}
}

// Append adds a value at the end.
func (a *Array) Append(v any) {
	a.Items = append(a.Items, v)
}

// Len returns the number of items.
func (a *Array) Len() int {
	return len(a.Items)
}

// Object is an ordered key-value sequence. Keys are either string or
// *Symbol; insertion order is preserved and re-setting a key keeps its
// original position.
type Object struct {
	keys   []any
	values map[any]any
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{values: map[any]any{}}
}

// Pair is a key-value pair for ordered Object construction.
type Pair struct {
	Key   any
	Value any
}

// O is a shorthand for Pair for ergonomic construction.
// Example: NewObjectFromPairs(O("name", "cart"), O("count", 5.0))
func O(key any, value any) Pair {
	return Pair{Key: key, Value: value}
}

// NewObjectFromPairs creates an Object from key-value pairs in order.
// It panics if a key is not a valid property key.
func NewObjectFromPairs(pairs ...Pair) *Object {
	obj := NewObject()
	for _, p := range pairs {
		if err := obj.Set(p.Key, p.Value); err != nil {
			panic(err)
		}
	}
	return obj
}

// PropertyKey normalizes a runtime value to an object key.
// Strings and symbols are kept, numbers are rendered the way Number to
// string conversion does. Everything else is rejected.
func PropertyKey(k any) (any, bool) {
	switch key := k.(type) {
	case string:
		return key, true
	case *Symbol:
		return key, key != nil
	}
	if f, ok := toFloat(k); ok {
		return FormatNumber(f), true
	}
	return nil, false
}

// Set stores value under key.
func (o *Object) Set(key any, value any) error {
	k, ok := PropertyKey(key)
	if !ok {
		return fmt.Errorf("object keys must be string, number or symbol, got %s", KindName(key))
	}
	if o.values == nil {
		o.values = map[any]any{}
	}
	if _, exists := o.values[k]; !exists {
		o.keys = append(o.keys, k)
	}
	o.values[k] = value
	return nil
}

// Get returns the value stored under key.
func (o *Object) Get(key any) (any, bool) {
	k, ok := PropertyKey(key)
	if !ok || o.values == nil {
		return nil, false
	}
	v, found := o.values[k]
	return v, found
}

// Delete removes key. It reports whether the key existed.
func (o *Object) Delete(key any) bool {
	k, ok := PropertyKey(key)
	if !ok {
		return false
	}
	if _, found := o.values[k]; !found {
		return false
	}
	delete(o.values, k)
	for i, existing := range o.keys {
		if existing == k {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns keys in insertion order.
func (o *Object) Keys() []any {
	out := make([]any, len(o.keys))
	copy(out, o.keys)
	return out
}

// Pairs returns the entries in insertion order.
func (o *Object) Pairs() []Pair {
	out := make([]Pair, len(o.keys))
	for i, k := range o.keys {
		out[i] = Pair{Key: k, Value: o.values[k]}
	}
	return out
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}
