// Copyright (C) 2025 Louis Goodnews
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package record

// Builder accumulates a configuration mapping and materializes records
// from it.
//
// The builder is itself a Frozen holding a single locked "configuration"
// field: the binding cannot be replaced, while the mapping behind it stays
// freely editable through the indexed surface below.
type Builder struct {
	state *Frozen
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	state, err := NewFrozen(nil, F("configuration", map[string]any{}))
	if err != nil {
		// Construction of a schema-less single-field instance cannot fail.
		panic(err)
	}
	return &Builder{state: state}
}

// config returns the live configuration mapping.
func (b *Builder) config() map[string]any {
	return b.state.Get("configuration").(map[string]any)
}

// Set stores a configuration value and returns the builder for chaining.
func (b *Builder) Set(key string, value any) *Builder {
	b.config()[key] = value
	return b
}

// Get returns a configuration value, or a NotFoundError when absent.
func (b *Builder) Get(key string) (any, error) {
	value, ok := b.config()[key]
	if !ok {
		return nil, &NotFoundError{Field: key}
	}
	return value, nil
}

// Delete removes a configuration value. Deleting an absent key fails with
// ErrNotFound.
func (b *Builder) Delete(key string) error {
	if _, ok := b.config()[key]; !ok {
		return &NotFoundError{Field: key}
	}
	delete(b.config(), key)
	return nil
}

// Contains reports whether the configuration holds the key.
func (b *Builder) Contains(key string) bool {
	_, ok := b.config()[key]
	return ok
}

// Configuration returns a snapshot copy of the configuration mapping.
func (b *Builder) Configuration() map[string]any {
	cfg := b.config()
	out := make(map[string]any, len(cfg))
	for k, v := range cfg {
		out[k] = v
	}
	return out
}

// Build materializes a mutable Record from the accumulated configuration,
// running schema coercion and checks as in any construction.
func (b *Builder) Build(schema *Schema) (*Record, error) {
	return FromMap(schema, b.config())
}

// BuildFrozen materializes an immutable instance from the accumulated
// configuration, with every field locked.
func (b *Builder) BuildFrozen(schema *Schema) (*Frozen, error) {
	return FrozenFromMap(schema, b.config())
}
