// Copyright (C) 2025 Louis Goodnews
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFrozenPerson(t *testing.T) *Frozen {
	t.Helper()
	f, err := NewFrozen(nil, F("name", "Jane"), F("age", 25))
	require.NoError(t, err)
	return f
}

func TestNewFrozen_LocksConstructionFields(t *testing.T) {
	f := newFrozenPerson(t)

	assert.True(t, f.IsLocked("name"))
	assert.True(t, f.IsLocked("age"))
	assert.Equal(t, []string{"name", "age"}, f.Keys())
}

func TestNewFrozen_ReservedFieldsNeverLocked(t *testing.T) {
	f, err := NewFrozen(nil, F("a", 1), F("_meta", "x"))
	require.NoError(t, err)

	assert.False(t, f.IsLocked("_meta"))
	require.NoError(t, f.Set("_meta", "y"))
	assert.Equal(t, "y", f.Get("_meta"))
}

func TestFrozen_SetLockedFieldRejected(t *testing.T) {
	f := newFrozenPerson(t)

	err := f.Set("age", 26)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImmutable)
	assert.EqualError(t, err, `cannot modify immutable field "age"`)
	assert.Equal(t, 25, f.Get("age"))
}

func TestFrozen_SetNewFieldStaysUnlocked(t *testing.T) {
	f := newFrozenPerson(t)

	require.NoError(t, f.Set("city", "Berlin"))
	assert.False(t, f.IsLocked("city"))

	// Still writable until locked explicitly.
	require.NoError(t, f.Set("city", "Hamburg"))
	assert.Equal(t, "Hamburg", f.Get("city"))
}

func TestFrozen_DeleteLockedFieldRejected(t *testing.T) {
	f := newFrozenPerson(t)

	assert.ErrorIs(t, f.Delete("name"), ErrImmutable)
	assert.True(t, f.Has("name"))
}

func TestFrozen_DeleteUnlockedFieldReleasesLockEntry(t *testing.T) {
	f := newFrozenPerson(t)
	require.NoError(t, f.Set("city", "Berlin"))
	require.NoError(t, f.Lock("city", AllowNew()))
	require.NoError(t, f.Unlock("city"))

	require.NoError(t, f.Delete("city"))
	assert.False(t, f.Has("city"))

	// The lock table forgot the field: locking it again needs AllowNew.
	assert.ErrorIs(t, f.Lock("city"), ErrNotRegistered)
}

func TestFrozen_UpdateAllOrNothing(t *testing.T) {
	f := newFrozenPerson(t)
	require.NoError(t, f.Unlock("age"))

	// One locked name fails the whole batch with no mutation.
	err := f.Update(F("age", 26), F("name", "Janet"))
	require.ErrorIs(t, err, ErrImmutable)
	assert.Equal(t, 25, f.Get("age"))
	assert.Equal(t, "Jane", f.Get("name"))
}

func TestFrozen_UpdateLocksOnlyUnregisteredNames(t *testing.T) {
	f := newFrozenPerson(t)
	require.NoError(t, f.Unlock("age"))

	require.NoError(t, f.Update(F("age", 26), F("city", "Berlin")))
	assert.Equal(t, 26, f.Get("age"))
	assert.Equal(t, "Berlin", f.Get("city"))

	// The new name is locked; the explicitly unlocked one stays unlocked.
	assert.True(t, f.IsLocked("city"))
	assert.False(t, f.IsLocked("age"))
}

func TestFrozen_LockUnknownFieldRejected(t *testing.T) {
	f := newFrozenPerson(t)
	assert.ErrorIs(t, f.Lock("city"), ErrNotRegistered)
}

func TestFrozen_LockReservedFieldRejected(t *testing.T) {
	f := newFrozenPerson(t)
	assert.ErrorIs(t, f.Lock("_meta", AllowNew(), WithValue(1)), ErrPrivateField)
	assert.ErrorIs(t, f.Unlock("_meta"), ErrNotRegistered)
}

func TestFrozen_LockAllowNewRequiresValueForAbsentField(t *testing.T) {
	f := newFrozenPerson(t)

	assert.ErrorIs(t, f.Lock("city", AllowNew()), ErrMissingValue)
	assert.False(t, f.Has("city"))

	require.NoError(t, f.Lock("city", AllowNew(), WithValue("Berlin")))
	assert.Equal(t, "Berlin", f.Get("city"))
	assert.True(t, f.IsLocked("city"))
}

func TestFrozen_LockWithValueOverwritesBeforeLocking(t *testing.T) {
	f := newFrozenPerson(t)
	require.NoError(t, f.Set("city", "Berlin"))

	// WithValue writes through the guard bypass even on a registered name.
	require.NoError(t, f.Lock("city", AllowNew(), WithValue("Hamburg")))
	assert.Equal(t, "Hamburg", f.Get("city"))
	assert.True(t, f.IsLocked("city"))
}

func TestFrozen_LockIdempotent(t *testing.T) {
	f := newFrozenPerson(t)
	require.NoError(t, f.Lock("age"))
	assert.True(t, f.IsLocked("age"))
}

func TestFrozen_UnlockMakesFieldWritable(t *testing.T) {
	f := newFrozenPerson(t)

	require.NoError(t, f.Unlock("age"))
	assert.False(t, f.IsLocked("age"))
	require.NoError(t, f.Set("age", 26))
	assert.Equal(t, 26, f.Get("age"))

	require.NoError(t, f.Lock("age"))
	assert.ErrorIs(t, f.Set("age", 27), ErrImmutable)
}

func TestFrozen_LockAllLocksEveryField(t *testing.T) {
	f := newFrozenPerson(t)
	require.NoError(t, f.Set("city", "Berlin"))
	require.NoError(t, f.Unlock("age"))

	f.LockAll()
	assert.True(t, f.IsLocked("name"))
	assert.True(t, f.IsLocked("age"))
	assert.True(t, f.IsLocked("city"))
	assert.ErrorIs(t, f.Set("city", "Hamburg"), ErrImmutable)
}

func TestFrozen_StrictSchemaConstruction(t *testing.T) {
	f, err := NewFrozen(personSchema(), F("name", "Jane"), F("age", "25"))
	require.NoError(t, err)

	// Coercion ran, and supplied fields are locked.
	assert.Equal(t, 25, f.Get("age"))
	assert.True(t, f.IsLocked("age"))
	assert.True(t, f.IsLocked("name"))
}

func TestFrozen_OmittedDeclaredFieldNotLocked(t *testing.T) {
	f, err := NewFrozen(personSchema(), F("name", "Jane"))
	require.NoError(t, err)

	// The nil-defaulted declared field was not supplied, so it is unknown
	// to the lock table and writable after registering via Set path.
	assert.True(t, f.Has("age"))
	assert.False(t, f.IsLocked("age"))
	require.NoError(t, f.Set("age", 30))
	assert.Equal(t, 30, f.Get("age"))
}

func TestFrozenFromMap_AllFieldsLocked(t *testing.T) {
	f, err := FrozenFromMap(nil, map[string]any{"b": 2, "a": 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, f.Keys())
	assert.True(t, f.IsLocked("a"))
	assert.True(t, f.IsLocked("b"))
}

func TestFrozen_ReadSurfaceDelegates(t *testing.T) {
	f := newFrozenPerson(t)

	assert.Equal(t, "Jane", f.Get("name"))
	assert.Equal(t, "none", f.GetDefault("city", "none"))
	assert.True(t, f.Has("age"))
	assert.True(t, f.HasValue(25))
	assert.True(t, f.HasEntry("name", 25))
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, []any{"Jane", 25}, f.Values())

	name, ok := f.GetString("name")
	assert.True(t, ok)
	assert.Equal(t, "Jane", name)

	_, err := f.Lookup("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
