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

func TestBuilder_SetGetDeleteContains(t *testing.T) {
	b := NewBuilder()

	b.Set("name", "John").Set("age", 30)

	assert.True(t, b.Contains("name"))
	assert.False(t, b.Contains("missing"))

	name, err := b.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "John", name)

	_, err = b.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Delete("age"))
	assert.False(t, b.Contains("age"))
	assert.ErrorIs(t, b.Delete("age"), ErrNotFound)
}

func TestBuilder_ConfigurationReturnsSnapshot(t *testing.T) {
	b := NewBuilder().Set("a", 1)

	snapshot := b.Configuration()
	snapshot["a"] = 99
	snapshot["b"] = 2

	got, err := b.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.False(t, b.Contains("b"))
}

func TestBuilder_BuildRunsSchemaChecks(t *testing.T) {
	b := NewBuilder().Set("name", "John").Set("age", "30")

	r, err := b.Build(personSchema())
	require.NoError(t, err)
	assert.Equal(t, "John", r.Get("name"))
	assert.Equal(t, 30, r.Get("age")) // coerced from "30"

	b.Set("height", 180)
	_, err = b.Build(personSchema())
	assert.ErrorIs(t, err, ErrUnexpectedField)
}

func TestBuilder_BuildAdHoc(t *testing.T) {
	r, err := NewBuilder().Set("x", 1).Build(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Get("x"))
}

func TestBuilder_BuildFrozenLocksEveryField(t *testing.T) {
	f, err := NewBuilder().Set("x", 1).Set("y", 2).BuildFrozen(nil)
	require.NoError(t, err)

	assert.True(t, f.IsLocked("x"))
	assert.True(t, f.IsLocked("y"))
	assert.ErrorIs(t, f.Set("x", 9), ErrImmutable)
}

func TestBuilder_ReusableAfterBuild(t *testing.T) {
	b := NewBuilder().Set("x", 1)

	first, err := b.Build(nil)
	require.NoError(t, err)

	b.Set("x", 2)
	second, err := b.Build(nil)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Get("x"))
	assert.Equal(t, 2, second.Get("x"))
}
