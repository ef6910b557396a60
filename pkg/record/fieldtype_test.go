// Copyright (C) 2025 Louis Goodnews
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package record

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTypes_Accepts(t *testing.T) {
	tests := []struct {
		ft    FieldType
		value any
		want  bool
	}{
		{String, "text", true},
		{String, 1, false},
		{Int, 1, true},
		{Int, int64(1), false}, // other widths convert, only int satisfies
		{Int, uint32(1), false},
		{Int, 1.5, false},
		{Int, "1", false},
		{Float, 1.5, true},
		{Float, float32(1.5), true},
		{Float, 1, false},
		{Bool, true, true},
		{Bool, 1, false},
		{List, []any{1}, true},
		{List, []string{"a"}, true},
		{List, [2]int{1, 2}, true},
		{List, "not a list", false},
		{List, nil, false},
		{Map, map[string]any{}, true},
		{Map, map[int]string{}, true},
		{Map, []any{}, false},
		{Map, nil, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.ft.Name(), tt.value), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ft.Accepts(tt.value))
		})
	}
}

func TestBuiltinTypes_Convert(t *testing.T) {
	tests := []struct {
		ft    FieldType
		value any
		want  any
	}{
		{String, 42, "42"},
		{String, true, "true"},
		{Int, "30", 30},
		{Int, " 7 ", 7},
		{Int, 2.9, 2},
		{Int, true, 1},
		{Int, false, 0},
		{Int, int8(3), 3},
		{Int, int64(5), 5},
		{Int, uint(6), 6},
		{Int, uint32(7), 7},
		{Int, uint64(9), 9},
		{Float, 3, 3.0},
		{Float, "2.5", 2.5},
		{Bool, "true", true},
		{Bool, "0", false},
		{Bool, 1, true},
		{Bool, 0.0, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.ft.Name(), tt.value), func(t *testing.T) {
			got, err := tt.ft.Convert(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuiltinTypes_ConvertFailures(t *testing.T) {
	tests := []struct {
		ft    FieldType
		value any
	}{
		{Int, "thirty"},
		{Int, []any{1}},
		{Int, uint64(math.MaxUint64)},
		{Float, "fast"},
		{Bool, "maybe"},
		{List, "never converts"},
		{Map, "never converts"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.ft.Name(), tt.value), func(t *testing.T) {
			_, err := tt.ft.Convert(tt.value)
			assert.Error(t, err)
		})
	}
}

func TestCoerce_NormalizesIntegerWidths(t *testing.T) {
	schema := NewSchema("Counted").Field("n", Int)

	r, err := New(schema, F("n", int64(30)))
	require.NoError(t, err)

	// The stored value is a plain int, so the typed accessors see it.
	n, ok := r.GetInt("n")
	require.True(t, ok)
	assert.Equal(t, 30, n)

	viaAs, err := As[int](r, "n")
	require.NoError(t, err)
	assert.Equal(t, 30, viaAs)
}

func TestCoerce_NilValueAndNilTypePassThrough(t *testing.T) {
	got, err := coerce("f", nil, Int)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = coerce("f", "anything", nil)
	require.NoError(t, err)
	assert.Equal(t, "anything", got)
}

func TestCoerce_FailureCarriesFieldName(t *testing.T) {
	_, err := coerce("age", []any{1}, Int)
	require.Error(t, err)

	var tm *TypeMismatchError
	require.ErrorAs(t, err, &tm)
	assert.Equal(t, "age", tm.Field)
	assert.Equal(t, "int", tm.Expected)
	assert.Equal(t, "[]interface {}", tm.Actual)
}

func TestTypeFor_CustomType(t *testing.T) {
	duration := TypeFor("duration", func(v any) (time.Duration, error) {
		s, ok := v.(string)
		if !ok {
			return 0, fmt.Errorf("cannot convert %T to duration", v)
		}
		return time.ParseDuration(s)
	})

	assert.True(t, duration.Accepts(time.Second))
	assert.False(t, duration.Accepts("1s"))

	got, err := duration.Convert("90s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, got)

	_, err = duration.Convert(1)
	assert.Error(t, err)
}

func TestTypeFor_NilConverterRejectsEverything(t *testing.T) {
	strict := TypeFor[time.Time]("timestamp", nil)

	assert.True(t, strict.Accepts(time.Now()))
	_, err := strict.Convert("2025-01-01")
	assert.Error(t, err)
}

func TestTypeFor_UsableInSchema(t *testing.T) {
	duration := TypeFor("duration", func(v any) (time.Duration, error) {
		s, ok := v.(string)
		if !ok {
			return 0, fmt.Errorf("cannot convert %T to duration", v)
		}
		return time.ParseDuration(s)
	})
	schema := NewSchema("Job").Field("timeout", duration)

	r, err := New(schema, F("timeout", "5m"))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, r.Get("timeout"))

	_, err = New(schema, F("timeout", 5))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}
