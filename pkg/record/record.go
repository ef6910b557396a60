// Copyright (C) 2025 Louis Goodnews
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package record

import (
	"fmt"
	"sort"
	"strings"
)

// ReservedPrefix marks internal bookkeeping field names. Reserved fields
// bypass schema checks and the lock table, and are excluded from equality
// and default projection.
const ReservedPrefix = "_"

// isReserved reports whether name is a reserved bookkeeping name.
func isReserved(name string) bool {
	return strings.HasPrefix(name, ReservedPrefix)
}

// =============================================================================
// Fields
// =============================================================================

// Field is one named construction or enumeration value. Construction input
// is a slice of Fields rather than a map so that insertion order survives.
type Field struct {
	Name  string
	Value any
}

// F is shorthand for a Field literal.
func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// IndexedField pairs a field with its position, as returned by Enumerate.
type IndexedField struct {
	Index int
	Field Field
}

// =============================================================================
// View Interface
// =============================================================================

// View is the read surface shared by Record and Frozen. Structural
// operations and the projection collaborator accept a View so the two
// variants compare and serialize interchangeably.
type View interface {
	// Get returns the field value, or nil when absent.
	Get(name string) any

	// Lookup returns the field value, or a NotFoundError when absent.
	Lookup(name string) (any, error)

	// Has reports whether a field with the name exists.
	Has(name string) bool

	// Keys returns all field names in insertion order.
	Keys() []string

	// Items returns all fields in insertion order.
	Items() []Field

	// Len returns the number of fields.
	Len() int

	// Schema returns the declared field-type map, or nil.
	Schema() *Schema
}

var (
	_ View = (*Record)(nil)
	_ View = (*Frozen)(nil)
)

// =============================================================================
// Record
// =============================================================================

// Record is the mutable attribute container.
//
// A Record owns an insertion-ordered mapping from field name to value.
// Construction against a strict Schema runs the type coercion rule once per
// declared field; everything after construction is unchecked (see the
// package comment on the known looseness).
type Record struct {
	schema *Schema
	order  []string
	values map[string]any
}

// New constructs a Record from named values.
//
// With a strict schema, every declared field is set in declaration order —
// to the supplied value after coercion, or to nil when omitted — and any
// supplied non-reserved name outside the declaration set fails with
// ErrUnexpectedField. Reserved names pass through verbatim. Schema rules
// run after coercion, and the post-construction hook runs last.
//
// Without a schema (nil or empty), every supplied name/value pair is
// accepted verbatim in the order given.
//
// On any failure the partially built instance is discarded; New never
// returns a half-constructed Record.
func New(schema *Schema, fields ...Field) (*Record, error) {
	r := &Record{
		schema: schema,
		values: make(map[string]any, len(fields)),
	}

	if schema.strict() {
		supplied := make(map[string]any, len(fields))
		for _, f := range fields {
			supplied[f.Name] = f.Value
		}
		for _, name := range schema.order {
			value, err := coerce(name, supplied[name], schema.types[name])
			if err != nil {
				return nil, err
			}
			r.insert(name, value)
		}
		for _, f := range fields {
			if isReserved(f.Name) {
				r.insert(f.Name, f.Value)
				continue
			}
			if !schema.Declares(f.Name) {
				return nil, &UnexpectedFieldError{Field: f.Name}
			}
		}
		if err := schema.validateRules(r); err != nil {
			return nil, err
		}
	} else {
		for _, f := range fields {
			r.insert(f.Name, f.Value)
		}
	}

	for _, name := range r.order {
		registerField(schema, name)
	}

	if schema != nil && schema.hook != nil {
		if err := schema.hook(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// insert sets a value, appending the name to the order on first sight.
func (r *Record) insert(name string, value any) {
	if _, exists := r.values[name]; !exists {
		r.order = append(r.order, name)
	}
	r.values[name] = value
}

// Schema returns the declared field-type map, or nil for ad-hoc records.
func (r *Record) Schema() *Schema { return r.schema }

// =============================================================================
// Access Surface
// =============================================================================

// Get returns the field value, or nil when the field is absent. Get never
// fails; use Lookup for the failing indexed surface.
func (r *Record) Get(name string) any {
	return r.values[name]
}

// GetDefault returns the field value, or def when the field is absent.
func (r *Record) GetDefault(name string, def any) any {
	if value, ok := r.values[name]; ok {
		return value
	}
	return def
}

// Lookup returns the field value, or a NotFoundError when absent.
func (r *Record) Lookup(name string) (any, error) {
	value, ok := r.values[name]
	if !ok {
		return nil, &NotFoundError{Field: name}
	}
	return value, nil
}

// Set writes a field value, materializing the field on first use of the
// name. Writes bypass type coercion.
func (r *Record) Set(name string, value any) {
	r.insert(name, value)
	registerField(r.schema, name)
}

// Delete removes a field. Deleting an absent field fails with ErrNotFound.
func (r *Record) Delete(name string) error {
	if _, ok := r.values[name]; !ok {
		return &NotFoundError{Field: name}
	}
	delete(r.values, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Update writes every supplied field in order.
func (r *Record) Update(fields ...Field) {
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
}

// UpdateDefaults writes only fields that are not yet set.
func (r *Record) UpdateDefaults(fields ...Field) {
	for _, f := range fields {
		if _, ok := r.values[f.Name]; ok {
			continue
		}
		r.Set(f.Name, f.Value)
	}
}

// Has reports whether a field with the given name exists.
func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// HasValue reports whether any field currently holds the given value.
func (r *Record) HasValue(value any) bool {
	return hasValue(r, value)
}

// HasEntry reports whether a field with the given name exists AND a field
// with the given value exists. The two matches are independent: they need
// not be the same field. This is a presence test over the whole field set,
// not a single-field equality test.
func (r *Record) HasEntry(name string, value any) bool {
	return r.Has(name) && hasValue(r, value)
}

// hasValue scans a view's values for a structural match.
func hasValue(v View, value any) bool {
	for _, f := range v.Items() {
		if valueEqual(f.Value, value) {
			return true
		}
	}
	return false
}

// =============================================================================
// Enumeration
// =============================================================================

// Len returns the number of fields, reserved names included.
func (r *Record) Len() int { return len(r.order) }

// Keys returns a snapshot of all field names in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Values returns a snapshot of all field values in insertion order.
func (r *Record) Values() []any {
	out := make([]any, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.values[name])
	}
	return out
}

// Items returns a snapshot of all fields in insertion order.
func (r *Record) Items() []Field {
	out := make([]Field, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, Field{Name: name, Value: r.values[name]})
	}
	return out
}

// Enumerate returns all fields with their positions, in insertion order.
func (r *Record) Enumerate() []IndexedField {
	items := r.Items()
	out := make([]IndexedField, len(items))
	for i, f := range items {
		out[i] = IndexedField{Index: i, Field: f}
	}
	return out
}

// String returns a debug representation in insertion order.
func (r *Record) String() string {
	return formatView("Record", r)
}

// formatView renders a view for debugging.
func formatView(kind string, v View) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(kind)
	if s := v.Schema(); s != nil && s.Name() != "" {
		b.WriteString(":")
		b.WriteString(s.Name())
	}
	b.WriteString(" (")
	for i, f := range v.Items() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%#v", f.Name, f.Value)
	}
	b.WriteString(")>")
	return b.String()
}

// =============================================================================
// Typed Accessors
// =============================================================================

// GetString returns the field as a string. The second result is false when
// the field is absent or holds a different type.
func (r *Record) GetString(name string) (string, bool) {
	s, ok := r.values[name].(string)
	return s, ok
}

// GetInt returns the field as an int.
func (r *Record) GetInt(name string) (int, bool) {
	n, ok := r.values[name].(int)
	return n, ok
}

// GetFloat returns the field as a float64.
func (r *Record) GetFloat(name string) (float64, bool) {
	f, ok := r.values[name].(float64)
	return f, ok
}

// GetBool returns the field as a bool.
func (r *Record) GetBool(name string) (bool, bool) {
	b, ok := r.values[name].(bool)
	return b, ok
}

// As returns a field value from any view as type T. It fails with
// ErrNotFound when the field is absent and with ErrTypeMismatch when the
// value is not assignable to T.
func As[T any](v View, name string) (T, error) {
	var zero T
	value, err := v.Lookup(name)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Field:    name,
			Expected: fmt.Sprintf("%T", zero),
			Actual:   fmt.Sprintf("%T", value),
		}
	}
	return typed, nil
}

// =============================================================================
// Mapping Construction
// =============================================================================

// FromMap reconstructs a Record from a flat name-to-value mapping.
//
// Go maps are unordered, so the mapping's names are applied in sorted order
// for ad-hoc records; strict schemas impose declaration order regardless.
func FromMap(schema *Schema, m map[string]any) (*Record, error) {
	return New(schema, mapFields(m)...)
}

// mapFields flattens a mapping into Fields with deterministic (sorted) order.
func mapFields(m map[string]any) []Field {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field{Name: name, Value: m[name]})
	}
	return fields
}
