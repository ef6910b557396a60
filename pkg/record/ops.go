// Copyright (C) 2025 Louis Goodnews
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package record

import (
	"fmt"
	"reflect"
	"sort"
)

// =============================================================================
// Equality
// =============================================================================

// Equal reports whether two views hold equal field mappings. All
// non-reserved names and values participate; insertion order does not.
// Nested Record and Frozen values compare structurally.
func Equal(a, b View) bool {
	am := publicValues(a)
	bm := publicValues(b)
	if len(am) != len(bm) {
		return false
	}
	for name, av := range am {
		bv, ok := bm[name]
		if !ok || !valueEqual(av, bv) {
			return false
		}
	}
	return true
}

// Equal reports whether the record equals another view field-for-field.
func (r *Record) Equal(other View) bool { return Equal(r, other) }

// EqualsKeys compares only the named fields between two views. A field
// absent from either side compares as the shared absent value (nil), not as
// a failure: two views both missing a key are equal on that key.
func EqualsKeys(a, b View, keys ...string) bool {
	if len(keys) == 0 {
		return Equal(a, b)
	}
	for _, key := range keys {
		if !valueEqual(a.Get(key), b.Get(key)) {
			return false
		}
	}
	return true
}

// EqualsKeys compares only the named fields against another view.
func (r *Record) EqualsKeys(other View, keys ...string) bool {
	return EqualsKeys(r, other, keys...)
}

// publicValues collects a view's non-reserved fields into a plain map.
func publicValues(v View) map[string]any {
	out := make(map[string]any, v.Len())
	for _, f := range v.Items() {
		if isReserved(f.Name) {
			continue
		}
		out[f.Name] = f.Value
	}
	return out
}

// valueEqual compares two values structurally, descending into nested
// container instances before falling back to reflect.DeepEqual.
func valueEqual(a, b any) bool {
	av, aok := a.(View)
	bv, bok := b.(View)
	if aok && bok {
		return Equal(av, bv)
	}
	if aok != bok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// =============================================================================
// Ordering
// =============================================================================

// Compare orders two views by their sorted name/value pairs, compared
// lexicographically on their rendered form, with ties broken by field
// count. This is a secondary, rarely useful total order; it exists so that
// record sets can be sorted deterministically, not because the order itself
// carries meaning.
func Compare(a, b View) int {
	ap := sortedPairs(a)
	bp := sortedPairs(b)
	for i := 0; i < len(ap) && i < len(bp); i++ {
		if ap[i] != bp[i] {
			if ap[i] < bp[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ap) < len(bp):
		return -1
	case len(ap) > len(bp):
		return 1
	default:
		return 0
	}
}

// Less reports whether the record orders before the other view.
func (r *Record) Less(other View) bool { return Compare(r, other) < 0 }

// Greater reports whether the record orders after the other view.
func (r *Record) Greater(other View) bool { return Compare(r, other) > 0 }

// sortedPairs renders a view's non-reserved fields as sorted "name=value"
// strings.
func sortedPairs(v View) []string {
	items := v.Items()
	pairs := make([]string, 0, len(items))
	for _, f := range items {
		if isReserved(f.Name) {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s=%v", f.Name, f.Value))
	}
	sort.Strings(pairs)
	return pairs
}

// =============================================================================
// Union and Difference
// =============================================================================

// mergedFields builds the left-biased-then-overridden union of two views:
// the left operand's field order is kept, the right operand's values win on
// name collision, and right-only names are appended in the right operand's
// order. Reserved names are skipped on both sides.
func mergedFields(a, b View) []Field {
	override := publicValues(b)
	out := make([]Field, 0, a.Len()+b.Len())
	seen := make(map[string]struct{}, a.Len())
	for _, f := range a.Items() {
		if isReserved(f.Name) {
			continue
		}
		value := f.Value
		if bv, ok := override[f.Name]; ok {
			value = bv
		}
		out = append(out, Field{Name: f.Name, Value: value})
		seen[f.Name] = struct{}{}
	}
	for _, f := range b.Items() {
		if isReserved(f.Name) {
			continue
		}
		if _, dup := seen[f.Name]; dup {
			continue
		}
		out = append(out, f)
	}
	return out
}

// subtractedFields keeps the left operand's non-reserved fields whose names
// do not appear in the right operand.
func subtractedFields(a, b View) []Field {
	out := make([]Field, 0, a.Len())
	for _, f := range a.Items() {
		if isReserved(f.Name) {
			continue
		}
		if b.Has(f.Name) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Merge produces a new Record from the union of both views' fields, the
// other view's values winning on name collision. The result is constructed
// against the receiver's schema, so a strict schema rejects names the other
// view introduces outside the declaration set.
func (r *Record) Merge(other View) (*Record, error) {
	return New(r.schema, mergedFields(r, other)...)
}

// Subtract produces a new Record containing only the receiver's fields
// whose names do not appear in the other view.
func (r *Record) Subtract(other View) (*Record, error) {
	return New(r.schema, subtractedFields(r, other)...)
}

// =============================================================================
// Filtering
// =============================================================================

// FilterByType returns the non-reserved fields whose current value
// satisfies the given type, in insertion order.
func FilterByType(v View, ft FieldType) []Field {
	out := make([]Field, 0, v.Len())
	for _, f := range v.Items() {
		if isReserved(f.Name) {
			continue
		}
		if ft.Accepts(f.Value) {
			out = append(out, f)
		}
	}
	return out
}

// FilterByType returns the record's fields whose value satisfies the type.
func (r *Record) FilterByType(ft FieldType) []Field {
	return FilterByType(r, ft)
}

// ToFilteredMap returns the view's non-reserved fields as a map, optionally
// restricted to the named keys and to values satisfying the given type.
// Pass nil for either filter to skip it.
func ToFilteredMap(v View, keys []string, ft FieldType) map[string]any {
	var wanted map[string]struct{}
	if keys != nil {
		wanted = make(map[string]struct{}, len(keys))
		for _, k := range keys {
			wanted[k] = struct{}{}
		}
	}
	out := make(map[string]any, v.Len())
	for _, f := range v.Items() {
		if isReserved(f.Name) {
			continue
		}
		if wanted != nil {
			if _, ok := wanted[f.Name]; !ok {
				continue
			}
		}
		if ft != nil && !ft.Accepts(f.Value) {
			continue
		}
		out[f.Name] = f.Value
	}
	return out
}
