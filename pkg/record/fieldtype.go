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
	"reflect"
	"strconv"
	"strings"
)

// =============================================================================
// FieldType Interface
// =============================================================================

// FieldType describes the expected type of a declared field.
//
// A FieldType answers two questions: does a candidate value already satisfy
// the type (Accepts), and can a non-satisfying value be converted into it
// (Convert). Conversion is best-effort; the coercion rule translates any
// conversion failure into a TypeMismatchError carrying the field name.
//
// Custom types can be declared with TypeFor, which pairs a Go type with an
// explicit converter function. The package never falls back to reflection
// driven casting: a type only converts what its converter understands.
type FieldType interface {
	// Name returns the human-readable type name used in error messages.
	Name() string

	// Accepts reports whether the value already satisfies the type.
	Accepts(value any) bool

	// Convert attempts a best-effort conversion of value into the type.
	Convert(value any) (any, error)
}

// Built-in field types. These mirror the conversion behavior of the usual
// one-argument constructors: Int normalizes every integer width to int and
// converts numeric strings and floats, String converts anything, Bool
// understands strconv.ParseBool forms.
var (
	String FieldType = stringType{}
	Int    FieldType = intType{}
	Float  FieldType = floatType{}
	Bool   FieldType = boolType{}
	List   FieldType = listType{}
	Map    FieldType = mapType{}
)

// coerce applies the construction-time type coercion rule for one field.
//
// A nil value (omitted at construction) or nil type (schema-less field)
// passes through unchanged. A value that already satisfies the type passes
// through unchanged. Anything else goes through the type's converter; a
// conversion failure becomes a TypeMismatchError.
//
// This rule runs at construction time only. Later writes bypass it.
func coerce(name string, value any, ft FieldType) (any, error) {
	if value == nil || ft == nil {
		return value, nil
	}
	if ft.Accepts(value) {
		return value, nil
	}
	converted, err := ft.Convert(value)
	if err != nil {
		return nil, &TypeMismatchError{
			Field:    name,
			Expected: ft.Name(),
			Actual:   fmt.Sprintf("%T", value),
		}
	}
	return converted, nil
}

// =============================================================================
// Built-in Types
// =============================================================================

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Accepts(value any) bool {
	_, ok := value.(string)
	return ok
}

// Convert renders any value as its default string form. It never fails.
func (stringType) Convert(value any) (any, error) {
	return fmt.Sprintf("%v", value), nil
}

type intType struct{}

func (intType) Name() string { return "int" }

// Accepts is satisfied by plain int only. Other integer widths go through
// Convert, so a declared Int field always holds an int and the typed
// accessors (GetInt, As[int]) see it.
func (intType) Accepts(value any) bool {
	_, ok := value.(int)
	return ok
}

func (intType) Convert(value any) (any, error) {
	switch v := value.(type) {
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		if v > math.MaxInt || v < math.MinInt {
			return nil, fmt.Errorf("cannot convert %d to int: overflows", v)
		}
		return int(v), nil
	case uint:
		if uint64(v) > uint64(math.MaxInt) {
			return nil, fmt.Errorf("cannot convert %d to int: overflows", v)
		}
		return int(v), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		if v > uint64(math.MaxInt) {
			return nil, fmt.Errorf("cannot convert %d to int: overflows", v)
		}
		return int(v), nil
	case float64:
		return int(v), nil
	case float32:
		return int(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q to int: %w", v, err)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to int", value)
	}
}

type floatType struct{}

func (floatType) Name() string { return "float" }

func (floatType) Accepts(value any) bool {
	switch value.(type) {
	case float32, float64:
		return true
	default:
		return false
	}
}

func (floatType) Convert(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q to float: %w", v, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to float", value)
	}
}

type boolType struct{}

func (boolType) Name() string { return "bool" }

func (boolType) Accepts(value any) bool {
	_, ok := value.(bool)
	return ok
}

func (boolType) Convert(value any) (any, error) {
	switch v := value.(type) {
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q to bool: %w", v, err)
		}
		return b, nil
	case int:
		return v != 0, nil
	case float64:
		return v != 0, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to bool", value)
	}
}

type listType struct{}

func (listType) Name() string { return "list" }

func (listType) Accepts(value any) bool {
	if value == nil {
		return false
	}
	k := reflect.TypeOf(value).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func (listType) Convert(value any) (any, error) {
	return nil, fmt.Errorf("cannot convert %T to list", value)
}

type mapType struct{}

func (mapType) Name() string { return "map" }

func (mapType) Accepts(value any) bool {
	if value == nil {
		return false
	}
	return reflect.TypeOf(value).Kind() == reflect.Map
}

func (mapType) Convert(value any) (any, error) {
	return nil, fmt.Errorf("cannot convert %T to map", value)
}

// =============================================================================
// Custom Types
// =============================================================================

// typedField is the FieldType produced by TypeFor.
type typedField[T any] struct {
	name    string
	convert func(any) (T, error)
}

func (t typedField[T]) Name() string { return t.name }

func (t typedField[T]) Accepts(value any) bool {
	_, ok := value.(T)
	return ok
}

func (t typedField[T]) Convert(value any) (any, error) {
	if t.convert == nil {
		return nil, fmt.Errorf("no converter registered for %s", t.name)
	}
	return t.convert(value)
}

// TypeFor declares a custom field type for the Go type T.
//
// Accepts is satisfied by any value assignable to T. The optional converter
// handles everything else; pass nil to reject all non-T values.
//
// Example:
//
//	var Duration = record.TypeFor("duration", func(v any) (time.Duration, error) {
//	    s, ok := v.(string)
//	    if !ok {
//	        return 0, fmt.Errorf("cannot convert %T to duration", v)
//	    }
//	    return time.ParseDuration(s)
//	})
func TypeFor[T any](name string, convert func(any) (T, error)) FieldType {
	return typedField[T]{name: name, convert: convert}
}
