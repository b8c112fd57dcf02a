// Package registry holds the identifier registries that let symbols and
// class types round-trip by name.
//
// A Registry is an injective map between string identifiers and values.
// Registering an identifier again replaces its binding, and registering a
// value again moves it to the new identifier; either way the stale entry
// is dropped so lookups in both directions stay consistent.
package registry

import (
	"reflect"
	"sync"

	"github.com/roach88/jsonx/internal/ir"
)

// Registry is a bidirectional identifier <-> value map. It is safe for
// concurrent use.
type Registry[K comparable, V comparable] struct {
	mu         sync.RWMutex
	keyToValue map[K]V
	valueToKey map[V]K
}

// NewRegistry creates an empty Registry.
func NewRegistry[K comparable, V comparable]() *Registry[K, V] {
	return &Registry[K, V]{
		keyToValue: make(map[K]V),
		valueToKey: make(map[V]K),
	}
}

// Register binds key to value.
func (r *Registry[K, V]) Register(key K, value V) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.keyToValue[key]; ok {
		delete(r.valueToKey, old)
	}
	if oldKey, ok := r.valueToKey[value]; ok {
		delete(r.keyToValue, oldKey)
	}
	r.keyToValue[key] = value
	r.valueToKey[value] = key
}

// LookupByIdentifier returns the value bound to key.
func (r *Registry[K, V]) LookupByIdentifier(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.keyToValue[key]
	return v, ok
}

// LookupByValue returns the identifier bound to value.
func (r *Registry[K, V]) LookupByValue(value V) (K, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.valueToKey[value]
	return k, ok
}

// Len returns the number of bindings.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keyToValue)
}

// Registries groups the symbol and class registries consumed by both
// codecs. Pass one explicitly to each codec; tests use fresh instances.
type Registries struct {
	Symbols *Registry[string, *ir.Symbol]
	Classes *Registry[string, reflect.Type]
}

// New creates empty registries.
func New() *Registries {
	return &Registries{
		Symbols: NewRegistry[string, *ir.Symbol](),
		Classes: NewRegistry[string, reflect.Type](),
	}
}

// RegisterSymbol binds sym to identifier, defaulting to the symbol's
// description, or "" when it has none.
func (r *Registries) RegisterSymbol(sym *ir.Symbol, identifier ...string) {
	id, _ := sym.Description()
	if len(identifier) > 0 {
		id = identifier[0]
	}
	r.Symbols.Register(id, sym)
}

// RegisterClass binds a struct type to identifier. class is either a
// reflect.Type or a value of the class (a struct or a pointer to one, nil
// pointers included). The identifier defaults to the type name, or "" for
// an anonymous struct. It panics when class is not a struct type.
func (r *Registries) RegisterClass(class any, identifier ...string) {
	t, ok := class.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(class)
	}
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		panic("registry: RegisterClass needs a struct type, got " + typeName(t))
	}
	id := t.Name()
	if len(identifier) > 0 {
		id = identifier[0]
	}
	r.Classes.Register(id, t)
}

// Register binds the struct type T to identifier, as RegisterClass does.
func Register[T any](r *Registries, identifier ...string) {
	r.RegisterClass(reflect.TypeFor[T](), identifier...)
}

// SymbolIdentifier returns the identifier registered for sym.
func (r *Registries) SymbolIdentifier(sym *ir.Symbol) (string, bool) {
	if r == nil {
		return "", false
	}
	return r.Symbols.LookupByValue(sym)
}

// Symbol returns the symbol registered under identifier.
func (r *Registries) Symbol(identifier string) (*ir.Symbol, bool) {
	if r == nil {
		return nil, false
	}
	return r.Symbols.LookupByIdentifier(identifier)
}

// ClassIdentifier returns the identifier registered for the class of v.
func (r *Registries) ClassIdentifier(v any) (string, bool) {
	if r == nil {
		return "", false
	}
	t, ok := ir.ClassOf(v)
	if !ok {
		return "", false
	}
	return r.Classes.LookupByValue(t)
}

// Class returns the struct type registered under identifier.
func (r *Registries) Class(identifier string) (reflect.Type, bool) {
	if r == nil {
		return nil, false
	}
	return r.Classes.LookupByIdentifier(identifier)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}
