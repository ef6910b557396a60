// Copyright (C) 2025 Louis Goodnews
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package record

import "reflect"

// =============================================================================
// Deep Clone Engine
// =============================================================================

// DeepClone reproduces an instance's whole attribute graph with no shared
// mutable substructure.
//
// Every non-reserved field value goes through a recursive transformer:
// nested Record and Frozen instances are deep-cloned themselves, honoring
// asMutable for the whole subtree; maps, slices, arrays, and Field pairs
// are rebuilt fresh with transformed elements; everything else receives a
// generic deep value copy.
//
// The result is a brand-new top-level instance: a Record when asMutable is
// true, otherwise the same concrete variant as the source. Lock bookkeeping
// is never copied — a cloned Frozen re-derives its lock state through
// normal construction, which locks every cloned field.
func DeepClone(v View, asMutable bool) (View, error) {
	fields, err := cloneFields(v, asMutable)
	if err != nil {
		return nil, err
	}
	if frozen, ok := v.(*Frozen); ok && !asMutable {
		return NewFrozen(frozen.Schema(), fields...)
	}
	return New(v.Schema(), fields...)
}

// DeepClone returns a deep clone of the record. asMutable propagates into
// nested Frozen values: when true, the entire subtree thaws.
func (r *Record) DeepClone(asMutable bool) (*Record, error) {
	clone, err := DeepClone(r, asMutable)
	if err != nil {
		return nil, err
	}
	return clone.(*Record), nil
}

// DeepClone returns a deep clone of the instance. With asMutable false the
// clone is a Frozen with every field locked; with asMutable true the whole
// subtree thaws into mutable records.
func (f *Frozen) DeepClone(asMutable bool) (View, error) {
	return DeepClone(f, asMutable)
}

// Thaw returns a fully mutable deep clone of the instance.
func (f *Frozen) Thaw() (*Record, error) {
	clone, err := DeepClone(f, true)
	if err != nil {
		return nil, err
	}
	return clone.(*Record), nil
}

// cloneFields transforms a view's non-reserved fields for reconstruction.
func cloneFields(v View, asMutable bool) ([]Field, error) {
	items := v.Items()
	out := make([]Field, 0, len(items))
	for _, f := range items {
		if isReserved(f.Name) {
			continue
		}
		value, err := cloneValue(f.Value, asMutable)
		if err != nil {
			return nil, err
		}
		out = append(out, Field{Name: f.Name, Value: value})
	}
	return out, nil
}

// cloneValue is the recursive value transformer behind DeepClone.
func cloneValue(value any, asMutable bool) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *Record:
		return v.DeepClone(asMutable)
	case *Frozen:
		return DeepClone(v, asMutable)
	case Field:
		inner, err := cloneValue(v.Value, asMutable)
		if err != nil {
			return nil, err
		}
		return Field{Name: v.Name, Value: inner}, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			cloned, err := cloneValue(item, asMutable)
			if err != nil {
				return nil, err
			}
			out[k] = cloned
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			cloned, err := cloneValue(item, asMutable)
			if err != nil {
				return nil, err
			}
			out[i] = cloned
		}
		return out, nil
	default:
		return deepCopyReflect(value, asMutable)
	}
}

// deepCopyReflect performs the generic deep copy for container kinds the
// typed switch above does not cover (typed maps and slices, arrays,
// pointers, settable structs). Scalars and strings are immutable and are
// returned as-is; so is any struct carrying unexported fields, which the
// interface boxing has already value-copied.
//
// Cloning an element can change its type: thawing a *Frozen inside a
// []*Frozen produces a *Record. When a cloned element no longer fits the
// container's element type, the container is rebuilt with any-typed
// elements ([]any, map[K]any) instead of panicking on assignment.
func deepCopyReflect(value any, asMutable bool) (any, error) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		keys := rv.MapKeys()
		clones := make([]any, len(keys))
		fits := true
		for i, key := range keys {
			cloned, err := cloneValue(rv.MapIndex(key).Interface(), asMutable)
			if err != nil {
				return nil, err
			}
			clones[i] = cloned
			fits = fits && assignableTo(cloned, rv.Type().Elem())
		}
		mapType := rv.Type()
		if !fits {
			mapType = reflect.MapOf(rv.Type().Key(), anyType)
		}
		out := reflect.MakeMapWithSize(mapType, len(keys))
		for i, key := range keys {
			out.SetMapIndex(key, reflectValueFor(clones[i], mapType.Elem()))
		}
		return out.Interface(), nil

	case reflect.Slice, reflect.Array:
		clones := make([]any, rv.Len())
		fits := true
		for i := 0; i < rv.Len(); i++ {
			cloned, err := cloneValue(rv.Index(i).Interface(), asMutable)
			if err != nil {
				return nil, err
			}
			clones[i] = cloned
			fits = fits && assignableTo(cloned, rv.Type().Elem())
		}
		if !fits {
			return clones, nil
		}
		var out reflect.Value
		if rv.Kind() == reflect.Array {
			out = reflect.New(rv.Type()).Elem()
		} else {
			out = reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		}
		for i, cloned := range clones {
			out.Index(i).Set(reflectValueFor(cloned, rv.Type().Elem()))
		}
		return out.Interface(), nil

	case reflect.Pointer:
		if rv.IsNil() {
			return value, nil
		}
		cloned, err := cloneValue(rv.Elem().Interface(), asMutable)
		if err != nil {
			return nil, err
		}
		if !assignableTo(cloned, rv.Type().Elem()) {
			return cloned, nil
		}
		out := reflect.New(rv.Type().Elem())
		out.Elem().Set(reflectValueFor(cloned, rv.Type().Elem()))
		return out.Interface(), nil

	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if !rv.Field(i).CanInterface() {
				// Unexported fields cannot be rebuilt; the boxed value
				// copy is the best available.
				return value, nil
			}
		}
		clones := make([]any, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			cloned, err := cloneValue(rv.Field(i).Interface(), asMutable)
			if err != nil {
				return nil, err
			}
			if !assignableTo(cloned, rv.Type().Field(i).Type) {
				// A field whose clone changed type cannot go back into
				// the struct; keep the boxed value copy.
				return value, nil
			}
			clones[i] = cloned
		}
		out := reflect.New(rv.Type()).Elem()
		for i, cloned := range clones {
			out.Field(i).Set(reflectValueFor(cloned, rv.Type().Field(i).Type))
		}
		return out.Interface(), nil

	default:
		return value, nil
	}
}

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// assignableTo reports whether a cloned value can be stored back into typ.
// A nil clone maps to the type's zero value and always fits.
func assignableTo(cloned any, typ reflect.Type) bool {
	if cloned == nil {
		return true
	}
	return reflect.TypeOf(cloned).AssignableTo(typ)
}

// reflectValueFor boxes a cloned value for assignment into typ, mapping nil
// to the type's zero value.
func reflectValueFor(cloned any, typ reflect.Type) reflect.Value {
	if cloned == nil {
		return reflect.Zero(typ)
	}
	return reflect.ValueOf(cloned)
}

// =============================================================================
// Shallow Copies
// =============================================================================

// Copy returns a shallow copy: a fresh instance built from the current
// non-reserved fields, with container values still shared between source
// and copy. Use DeepClone for full isolation.
func (r *Record) Copy() (*Record, error) {
	items := make([]Field, 0, r.Len())
	for _, f := range r.Items() {
		if isReserved(f.Name) {
			continue
		}
		items = append(items, f)
	}
	return New(r.schema, items...)
}

// Copy returns a shallow copy of the instance: a Record when asMutable is
// true, otherwise a fresh Frozen with every field locked. Container values
// remain shared with the source.
func (f *Frozen) Copy(asMutable bool) (View, error) {
	items := make([]Field, 0, f.Len())
	for _, fl := range f.Items() {
		if isReserved(fl.Name) {
			continue
		}
		items = append(items, fl)
	}
	if asMutable {
		return New(f.rec.schema, items...)
	}
	return NewFrozen(f.rec.schema, items...)
}
