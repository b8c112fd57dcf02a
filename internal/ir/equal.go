package ir

import (
	"math"
	"math/big"
	"reflect"
)

// Equal reports whether a and b are deeply equal values:
//   - NaN equals NaN and all numeric kinds compare by value
//   - symbols are equal when they are the same symbol, the same global key,
//     or two local symbols with the same description
//   - class instances must have the same class and equal fields
//   - boxes compare by their primitive
//
// Cyclic graphs are compared structurally; a pair already under comparison
// is assumed equal.
func Equal(a, b any) bool {
	return equal(a, b, map[[2]any]bool{})
}

func equal(a, b any, seen map[[2]any]bool) bool {
	ca, cb := Classify(a), Classify(b)
	if ca != cb {
		return false
	}

	if ka, ok := Identity(a); ok {
		if kb, ok := Identity(b); ok {
			pair := [2]any{ka, kb}
			if seen[pair] {
				return true
			}
			seen[pair] = true
		}
	}

	switch ca {
	case CategoryUndefined, CategoryNull:
		return true
	case CategoryBoolean:
		return reflect.ValueOf(a).Bool() == reflect.ValueOf(b).Bool()
	case CategoryNumber:
		fa, fb := numberOf(a), numberOf(b)
		if math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
		return fa == fb
	case CategoryBigInt:
		return a.(*big.Int).Cmp(b.(*big.Int)) == 0
	case CategoryString:
		return reflect.ValueOf(a).String() == reflect.ValueOf(b).String()
	case CategorySymbol:
		return SymbolsEqual(a.(*Symbol), b.(*Symbol))
	case CategoryBoxed:
		return equal(a.(*Boxed).Value, b.(*Boxed).Value, seen)
	case CategoryArray:
		return equalItems(ArrayItems(a), ArrayItems(b), seen)
	case CategoryObject:
		return equalPairs(ObjectPairs(a), ObjectPairs(b), seen)
	case CategoryMap:
		return equalPairs(MapEntries(a), MapEntries(b), seen)
	case CategorySet:
		return equalItems(a.(*Set).Values(), b.(*Set).Values(), seen)
	case CategoryRegExp:
		return *a.(*RegExp) == *b.(*RegExp)
	case CategoryDate:
		return DateTime(a).Equal(DateTime(b))
	case CategoryURL:
		return urlString(a) == urlString(b)
	case CategoryURLSearchParams:
		return SearchParamsOf(a).String() == SearchParamsOf(b).String()
	case CategoryError:
		return equalErrors(ErrorOf(a), ErrorOf(b), seen)
	case CategoryBuffer:
		return equalBuffers(BufferOf(a), BufferOf(b))
	case CategoryInstance:
		ta, _ := ClassOf(a)
		tb, _ := ClassOf(b)
		if ta != tb {
			return false
		}
		fa, fb := InstanceFields(a), InstanceFields(b)
		if len(fa) != len(fb) {
			return false
		}
		for i := range fa {
			if fa[i].Name != fb[i].Name || !equal(fa[i].Value, fb[i].Value, seen) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// SymbolsEqual applies the symbol comparison rule of Equal.
func SymbolsEqual(a, b *Symbol) bool {
	if a == b {
		return true
	}
	if a.global || b.global {
		return a.global == b.global && a.description == b.description
	}
	return a.hasDescription == b.hasDescription && a.description == b.description
}

func equalItems(a, b []any, seen map[[2]any]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equal(a[i], b[i], seen) {
			return false
		}
	}
	return true
}

func equalPairs(a, b []Pair, seen map[[2]any]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equal(a[i].Key, b[i].Key, seen) || !equal(a[i].Value, b[i].Value, seen) {
			return false
		}
	}
	return true
}

func equalErrors(a, b *Error, seen map[[2]any]bool) bool {
	if a.Name != b.Name || a.Message != b.Message || a.Stack != b.Stack {
		return false
	}
	if (a.Cause == nil) != (b.Cause == nil) {
		return false
	}
	if a.Cause != nil && !equal(a.Cause, b.Cause, seen) {
		return false
	}
	return equalPairs(errorProps(a), errorProps(b), seen)
}

func errorProps(e *Error) []Pair {
	if e.Props == nil {
		return nil
	}
	return e.Props.Pairs()
}

func equalBuffers(a, b Buffer) bool {
	if a.BufferKind() != b.BufferKind() {
		return false
	}
	if a.BufferKind().IsBigElement() {
		da, _ := BufferDecimals(a)
		db, _ := BufferDecimals(b)
		return reflect.DeepEqual(da, db)
	}
	na, _ := BufferNumbers(a)
	nb, _ := BufferNumbers(b)
	if len(na) != len(nb) {
		return false
	}
	for i := range na {
		if na[i] != nb[i] && !(math.IsNaN(na[i]) && math.IsNaN(nb[i])) {
			return false
		}
	}
	return true
}
