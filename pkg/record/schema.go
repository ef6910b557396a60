// Copyright (C) 2025 Louis Goodnews
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package record

import (
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// schemaValidate is the validator instance used for schema rules.
var schemaValidate *validator.Validate

func init() {
	schemaValidate = validator.New()
}

// =============================================================================
// Schema
// =============================================================================

// Schema is the declared field-type map for a record type.
//
// A Schema is established once, before any instance of that type is built,
// and is shared by every instance constructed against it. When a schema
// declares at least one field, construction enforces it strictly: every
// declared name is set (nil when omitted), every supplied value is coerced
// against the declared FieldType, and supplying an undeclared name fails
// with ErrUnexpectedField.
//
// Schemas optionally carry per-field validation rules (go-playground
// validator tags) checked after coercion, and a post-construction hook.
//
// Schema is not safe for concurrent modification; declare it fully during
// initialization, then treat it as read-only.
type Schema struct {
	// name identifies the schema in registry bookkeeping.
	name string

	// order holds declared field names in declaration order.
	order []string

	// types maps declared field names to their expected types.
	types map[string]FieldType

	// rules maps field names to validator tags, e.g. "required,gte=0".
	rules map[string]any

	// hook is invoked after all fields of a new instance are set.
	hook func(*Record) error
}

// NewSchema creates an empty schema with the given type name.
func NewSchema(name string) *Schema {
	return &Schema{
		name:  name,
		types: make(map[string]FieldType),
	}
}

// Field declares a field with its expected type and returns the schema for
// chaining. Re-declaring a name replaces its type but keeps its position.
func (s *Schema) Field(name string, ft FieldType) *Schema {
	if _, exists := s.types[name]; !exists {
		s.order = append(s.order, name)
	}
	s.types[name] = ft
	return s
}

// Rule attaches a validator tag to a declared field. The rule is evaluated
// at construction time, after type coercion; a violation fails construction
// with ErrConstraint.
func (s *Schema) Rule(name, tag string) *Schema {
	if s.rules == nil {
		s.rules = make(map[string]any)
	}
	s.rules[name] = tag
	return s
}

// OnConstruct registers a hook invoked once per instance, after every field
// has been set. A non-nil error fails the construction call.
func (s *Schema) OnConstruct(fn func(*Record) error) *Schema {
	s.hook = fn
	return s
}

// Name returns the schema's type name.
func (s *Schema) Name() string { return s.name }

// Declared returns the declared field names in declaration order.
func (s *Schema) Declared() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// TypeOf returns the declared type for a field name.
func (s *Schema) TypeOf(name string) (FieldType, bool) {
	ft, ok := s.types[name]
	return ft, ok
}

// Declares reports whether the schema declares the field name.
func (s *Schema) Declares(name string) bool {
	_, ok := s.types[name]
	return ok
}

// strict reports whether the schema enforces its declaration set. An empty
// schema behaves like no schema at all: every supplied name is accepted.
func (s *Schema) strict() bool {
	return s != nil && len(s.order) > 0
}

// validateRules checks the schema's validator tags against the instance's
// current non-reserved values. Violations are reported deterministically:
// the lexicographically first failing field wins.
func (s *Schema) validateRules(r *Record) error {
	if len(s.rules) == 0 {
		return nil
	}
	data := make(map[string]any, len(s.rules))
	for name := range s.rules {
		data[name] = r.Get(name)
	}
	failures := schemaValidate.ValidateMap(data, s.rules)
	if len(failures) == 0 {
		return nil
	}
	names := make([]string, 0, len(failures))
	for name := range failures {
		names = append(names, name)
	}
	sort.Strings(names)
	field := names[0]
	tag, _ := s.rules[field].(string)
	return &ConstraintError{Field: field, Rule: tag}
}

// =============================================================================
// Known-Field Registry
// =============================================================================

// The registry models type-level accessor sharing: the first instance that
// materializes a field name registers it for the whole schema, so every
// later instance of that schema sees the name as known before any of its own
// reads or writes. Reserved bookkeeping names are never registered.
var (
	registryMu sync.Mutex
	registry   = make(map[*Schema]map[string]struct{})
)

// registerField records a materialized field name for the schema.
func registerField(s *Schema, name string) {
	if s == nil || isReserved(name) {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	known, ok := registry[s]
	if !ok {
		known = make(map[string]struct{})
		registry[s] = known
	}
	known[name] = struct{}{}
}

// KnownFields returns every field name ever materialized by an instance of
// this schema, sorted. The set includes declared names from the first
// construction onward plus any ad-hoc names introduced by later writes.
func (s *Schema) KnownFields() []string {
	registryMu.Lock()
	defer registryMu.Unlock()
	known := registry[s]
	out := make([]string, 0, len(known))
	for name := range known {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Knows reports whether the field name has been materialized by any instance
// of this schema.
func (s *Schema) Knows(name string) bool {
	registryMu.Lock()
	defer registryMu.Unlock()
	_, ok := registry[s][name]
	return ok
}
