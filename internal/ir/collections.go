package ir

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
)

// bigKey and nanKey stand in for values whose Go representation does not
// compare the way SameValueZero requires.
type (
	bigKey string
	nanKey struct{}
)

// sameValueZeroKey returns a comparable key under which v is indexed.
// Primitives compare by value (NaN equals NaN, +0 equals -0), big integers by
// numeric value and everything else by identity.
func sameValueZeroKey(v any) (any, error) {
	if v == nil {
		return Null{}, nil
	}
	if f, ok := toFloat(v); ok {
		if math.IsNaN(f) {
			return nanKey{}, nil
		}
		if f == 0 {
			return 0.0, nil
		}
		return f, nil
	}
	if n, ok := v.(*big.Int); ok {
		return bigKey(n.String()), nil
	}
	if !reflect.TypeOf(v).Comparable() {
		return nil, fmt.Errorf("value of type %T cannot be a collection key", v)
	}
	return v, nil
}

// Set is a collection of unique values in insertion order.
type Set struct {
	items []any
	index map[any]int
}

// NewSet creates a Set holding the given values.
// It panics if a value is not usable as a key.
func NewSet(values ...any) *Set {
	s := &Set{index: map[any]int{}}
	for _, v := range values {
		if err := s.Add(v); err != nil {
			panic(err)
		}
	}
	return s
}

// Add inserts v unless an equal value is already present.
func (s *Set) Add(v any) error {
	k, err := sameValueZeroKey(v)
	if err != nil {
		return err
	}
	if s.index == nil {
		s.index = map[any]int{}
	}
	if _, ok := s.index[k]; ok {
		return nil
	}
	s.index[k] = len(s.items)
	s.items = append(s.items, v)
	return nil
}

// Has reports whether an equal value is present.
func (s *Set) Has(v any) bool {
	k, err := sameValueZeroKey(v)
	if err != nil {
		return false
	}
	_, ok := s.index[k]
	return ok
}

// Values returns the values in insertion order.
func (s *Set) Values() []any {
	out := make([]any, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of values.
func (s *Set) Len() int {
	return len(s.items)
}

// Map is a key-value collection in insertion order. Keys may be any value.
type Map struct {
	keys   []any
	values []any
	index  map[any]int
}

// NewMap creates a Map from entries.
// It panics if a key is not usable as a key.
func NewMap(entries ...Pair) *Map {
	m := &Map{index: map[any]int{}}
	for _, e := range entries {
		if err := m.Set(e.Key, e.Value); err != nil {
			panic(err)
		}
	}
	return m
}

// Set stores value under key, keeping the original position of an existing key.
func (m *Map) Set(key, value any) error {
	k, err := sameValueZeroKey(key)
	if err != nil {
		return err
	}
	if m.index == nil {
		m.index = map[any]int{}
	}
	if i, ok := m.index[k]; ok {
		m.values[i] = value
		return nil
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
	return nil
}

// Get returns the value stored under key.
func (m *Map) Get(key any) (any, bool) {
	k, err := sameValueZeroKey(key)
	if err != nil {
		return nil, false
	}
	i, ok := m.index[k]
	if !ok {
		return nil, false
	}
	return m.values[i], true
}

// Entries returns the entries in insertion order.
func (m *Map) Entries() []Pair {
	out := make([]Pair, len(m.keys))
	for i := range m.keys {
		out[i] = Pair{Key: m.keys[i], Value: m.values[i]}
	}
	return out
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}
