// Copyright (C) 2025 Louis Goodnews
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package record

// =============================================================================
// Frozen
// =============================================================================

// Frozen is the immutable attribute container.
//
// Construction behaves exactly like New, then locks every field supplied at
// construction time. From that point on, every write and delete passes
// through the per-field lock table: a locked field fails with ErrImmutable,
// a reserved name always passes, and a field introduced after construction
// by a plain Set stays unlocked until locked explicitly (or until a bulk
// Update locks it).
//
// The lock table itself is bookkeeping. It never participates in equality
// or projection, and a deep clone re-derives its own lock state from
// scratch through normal construction.
type Frozen struct {
	rec *Record

	// locks tracks the per-field lock sub-state. Presence in the table
	// means the field has been registered with the guard; the boolean is
	// the current lock state. Absent fields are writable.
	locks map[string]bool
}

// NewFrozen constructs a Frozen from named values. Construction failures
// are those of New; on success every supplied non-reserved field is locked.
func NewFrozen(schema *Schema, fields ...Field) (*Frozen, error) {
	rec, err := New(schema, fields...)
	if err != nil {
		return nil, err
	}
	f := &Frozen{
		rec:   rec,
		locks: make(map[string]bool, len(fields)),
	}
	for _, fl := range fields {
		if isReserved(fl.Name) {
			continue
		}
		f.locks[fl.Name] = true
	}
	return f, nil
}

// FrozenFromMap reconstructs a Frozen from a flat name-to-value mapping.
func FrozenFromMap(schema *Schema, m map[string]any) (*Frozen, error) {
	return NewFrozen(schema, mapFields(m)...)
}

// checkWrite decides whether a write or delete to the field is permitted.
// Reserved bookkeeping names always pass.
func (f *Frozen) checkWrite(name string) error {
	if isReserved(name) {
		return nil
	}
	if f.locks[name] {
		return &ImmutableError{Field: name}
	}
	return nil
}

// =============================================================================
// Guarded Writes
// =============================================================================

// Set writes a field value if the guard permits it. A locked field fails
// with ErrImmutable. Writing a brand-new field succeeds and leaves the
// field unlocked; lock it explicitly with Lock, or via Update which locks
// every name it introduces.
func (f *Frozen) Set(name string, value any) error {
	if err := f.checkWrite(name); err != nil {
		return err
	}
	f.rec.Set(name, value)
	return nil
}

// Delete removes a field if the guard permits it, releasing its lock table
// entry. A locked field fails with ErrImmutable; an absent one with
// ErrNotFound.
func (f *Frozen) Delete(name string) error {
	if err := f.checkWrite(name); err != nil {
		return err
	}
	if err := f.rec.Delete(name); err != nil {
		return err
	}
	delete(f.locks, name)
	return nil
}

// Update writes every supplied field, checking all of them against the
// guard before applying any: a single locked name fails the whole call with
// ErrImmutable and no observable mutation. On success, every name not yet
// registered with the guard is locked; names already registered keep their
// current lock state.
func (f *Frozen) Update(fields ...Field) error {
	for _, fl := range fields {
		if err := f.checkWrite(fl.Name); err != nil {
			return err
		}
	}
	for _, fl := range fields {
		f.rec.Set(fl.Name, fl.Value)
	}
	for _, fl := range fields {
		if isReserved(fl.Name) {
			continue
		}
		if _, registered := f.locks[fl.Name]; registered {
			continue
		}
		f.locks[fl.Name] = true
	}
	return nil
}

// =============================================================================
// Lock Table
// =============================================================================

// lockConfig carries the optional arguments of Lock.
type lockConfig struct {
	allowNew bool
	hasValue bool
	value    any
}

// LockOption configures a Lock call.
type LockOption func(*lockConfig)

// AllowNew permits locking a field that has never been registered with the
// guard. A truly absent field still needs WithValue.
func AllowNew() LockOption {
	return func(c *lockConfig) { c.allowNew = true }
}

// WithValue writes the value through the guard-bypass path before locking.
func WithValue(value any) LockOption {
	return func(c *lockConfig) {
		c.hasValue = true
		c.value = value
	}
}

// Lock marks a field as locked, optionally enforcing a value for it.
//
// Lock fails with ErrNotRegistered when the field is unknown to the guard
// and AllowNew was not given, with ErrPrivateField for reserved names, and
// with ErrMissingValue when AllowNew names a field that does not exist and
// no value was supplied. Locking an already locked field is idempotent.
func (f *Frozen) Lock(name string, opts ...LockOption) error {
	var cfg lockConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, registered := f.locks[name]; !registered && !cfg.allowNew {
		return &NotRegisteredError{Field: name}
	}
	if isReserved(name) {
		return &PrivateFieldError{Field: name}
	}

	if cfg.hasValue {
		f.rec.Set(name, cfg.value)
	} else if cfg.allowNew && !f.rec.Has(name) {
		return &MissingValueError{Field: name}
	}

	f.locks[name] = true
	return nil
}

// Unlock marks a field as unlocked, making it writable again. It fails with
// ErrNotRegistered for fields unknown to the guard and with ErrPrivateField
// for reserved names.
func (f *Frozen) Unlock(name string) error {
	if _, registered := f.locks[name]; !registered {
		return &NotRegisteredError{Field: name}
	}
	if isReserved(name) {
		return &PrivateFieldError{Field: name}
	}
	f.locks[name] = false
	return nil
}

// LockAll locks every current non-reserved field. This is the degenerate
// whole-object lock: after LockAll the instance is fully read-only.
func (f *Frozen) LockAll() {
	for _, name := range f.rec.Keys() {
		if isReserved(name) {
			continue
		}
		f.locks[name] = true
	}
}

// IsLocked reports the field's current lock state. Unregistered and
// reserved fields report false.
func (f *Frozen) IsLocked(name string) bool {
	return f.locks[name]
}

// =============================================================================
// Read Surface (delegated)
// =============================================================================

// Get returns the field value, or nil when absent.
func (f *Frozen) Get(name string) any { return f.rec.Get(name) }

// GetDefault returns the field value, or def when absent.
func (f *Frozen) GetDefault(name string, def any) any { return f.rec.GetDefault(name, def) }

// Lookup returns the field value, or a NotFoundError when absent.
func (f *Frozen) Lookup(name string) (any, error) { return f.rec.Lookup(name) }

// Has reports whether a field with the name exists.
func (f *Frozen) Has(name string) bool { return f.rec.Has(name) }

// HasValue reports whether any field currently holds the value.
func (f *Frozen) HasValue(value any) bool { return hasValue(f, value) }

// HasEntry reports independent presence of the name and the value, exactly
// like Record.HasEntry.
func (f *Frozen) HasEntry(name string, value any) bool {
	return f.Has(name) && hasValue(f, value)
}

// Len returns the number of fields.
func (f *Frozen) Len() int { return f.rec.Len() }

// Keys returns a snapshot of all field names in insertion order.
func (f *Frozen) Keys() []string { return f.rec.Keys() }

// Values returns a snapshot of all field values in insertion order.
func (f *Frozen) Values() []any { return f.rec.Values() }

// Items returns a snapshot of all fields in insertion order.
func (f *Frozen) Items() []Field { return f.rec.Items() }

// Enumerate returns all fields with their positions.
func (f *Frozen) Enumerate() []IndexedField { return f.rec.Enumerate() }

// Schema returns the declared field-type map, or nil.
func (f *Frozen) Schema() *Schema { return f.rec.Schema() }

// GetString returns the field as a string.
func (f *Frozen) GetString(name string) (string, bool) { return f.rec.GetString(name) }

// GetInt returns the field as an int.
func (f *Frozen) GetInt(name string) (int, bool) { return f.rec.GetInt(name) }

// GetFloat returns the field as a float64.
func (f *Frozen) GetFloat(name string) (float64, bool) { return f.rec.GetFloat(name) }

// GetBool returns the field as a bool.
func (f *Frozen) GetBool(name string) (bool, bool) { return f.rec.GetBool(name) }

// String returns a debug representation in insertion order.
func (f *Frozen) String() string { return formatView("Frozen", f) }

// =============================================================================
// Structural Operations (delegated)
// =============================================================================

// Equal reports whether the instance equals another view field-for-field.
func (f *Frozen) Equal(other View) bool { return Equal(f, other) }

// EqualsKeys compares only the named fields against another view.
func (f *Frozen) EqualsKeys(other View, keys ...string) bool {
	return EqualsKeys(f, other, keys...)
}

// Less reports whether the instance orders before the other view.
func (f *Frozen) Less(other View) bool { return Compare(f, other) < 0 }

// Greater reports whether the instance orders after the other view.
func (f *Frozen) Greater(other View) bool { return Compare(f, other) > 0 }

// Merge produces a new Frozen from the union of both views' fields, the
// other view's values winning on collision. Every field of the result is
// locked, as with any fresh construction.
func (f *Frozen) Merge(other View) (*Frozen, error) {
	return NewFrozen(f.rec.schema, mergedFields(f, other)...)
}

// Subtract produces a new Frozen containing only the receiver's fields
// whose names do not appear in the other view.
func (f *Frozen) Subtract(other View) (*Frozen, error) {
	return NewFrozen(f.rec.schema, subtractedFields(f, other)...)
}

// FilterByType returns the fields whose value satisfies the type.
func (f *Frozen) FilterByType(ft FieldType) []Field {
	return FilterByType(f, ft)
}
