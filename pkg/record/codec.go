// Copyright (C) 2025 Louis Goodnews
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Projection Options
// =============================================================================

type sortOrder int

const (
	sortNone sortOrder = iota
	sortAsc
	sortDesc
)

// projectConfig carries the optional arguments of Project and the text
// projections built on it.
type projectConfig struct {
	exclude         map[string]struct{}
	includeReserved bool
	order           sortOrder
}

// ProjectOption configures a projection call.
type ProjectOption func(*projectConfig)

// Exclude drops the named fields from the projection.
func Exclude(names ...string) ProjectOption {
	return func(c *projectConfig) {
		if c.exclude == nil {
			c.exclude = make(map[string]struct{}, len(names))
		}
		for _, name := range names {
			c.exclude[name] = struct{}{}
		}
	}
}

// IncludeReserved keeps reserved bookkeeping fields in the projection.
// They are excluded by default.
func IncludeReserved() ProjectOption {
	return func(c *projectConfig) { c.includeReserved = true }
}

// SortAscending orders the projection by field name, ascending.
func SortAscending() ProjectOption {
	return func(c *projectConfig) { c.order = sortAsc }
}

// SortDescending orders the projection by field name, descending.
func SortDescending() ProjectOption {
	return func(c *projectConfig) { c.order = sortDesc }
}

// Project returns the view's fields as an ordered slice: insertion order by
// default, or sorted by name when a sort option is given. Reserved names
// are excluded unless IncludeReserved is passed.
func Project(v View, opts ...ProjectOption) []Field {
	var cfg projectConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	items := v.Items()
	out := make([]Field, 0, len(items))
	for _, f := range items {
		if !cfg.includeReserved && isReserved(f.Name) {
			continue
		}
		if _, skip := cfg.exclude[f.Name]; skip {
			continue
		}
		out = append(out, f)
	}
	switch cfg.order {
	case sortAsc:
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case sortDesc:
		sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	}
	return out
}

// ToMap returns the projection as a plain map. Ordering is necessarily
// lost; use Project when order matters.
func ToMap(v View, opts ...ProjectOption) map[string]any {
	fields := Project(v, opts...)
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.Name] = f.Value
	}
	return out
}

// ToMap returns the record's projection as a plain map.
func (r *Record) ToMap(opts ...ProjectOption) map[string]any { return ToMap(r, opts...) }

// ToMap returns the instance's projection as a plain map.
func (f *Frozen) ToMap(opts ...ProjectOption) map[string]any { return ToMap(f, opts...) }

// =============================================================================
// JSON Projection
// =============================================================================

// ToJSON serializes the view's projection as a JSON object, writing fields
// in projection order (insertion order unless a sort option is given).
// Nested Record and Frozen values serialize as nested objects.
func ToJSON(v View, opts ...ProjectOption) ([]byte, error) {
	fields := Project(v, opts...)
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, fmt.Errorf("marshal field name %q: %w", f.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", f.Name, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ToJSON serializes the record's projection as JSON text.
func (r *Record) ToJSON(opts ...ProjectOption) ([]byte, error) { return ToJSON(r, opts...) }

// ToJSON serializes the instance's projection as JSON text.
func (f *Frozen) ToJSON(opts ...ProjectOption) ([]byte, error) { return ToJSON(f, opts...) }

// MarshalJSON implements json.Marshaler so records nest inside other JSON
// documents.
func (r *Record) MarshalJSON() ([]byte, error) { return ToJSON(r) }

// MarshalJSON implements json.Marshaler.
func (f *Frozen) MarshalJSON() ([]byte, error) { return ToJSON(f) }

// FromJSON reconstructs a Record from serialized JSON text. The top-level
// object's key order is preserved as the record's insertion order; the
// parsed fields are forwarded to ordinary construction, so schema coercion
// and checks apply.
func FromJSON(schema *Schema, data []byte) (*Record, error) {
	fields, err := decodeJSONObject(data)
	if err != nil {
		return nil, err
	}
	return New(schema, fields...)
}

// FrozenFromJSON reconstructs a Frozen from serialized JSON text.
func FrozenFromJSON(schema *Schema, data []byte) (*Frozen, error) {
	fields, err := decodeJSONObject(data)
	if err != nil {
		return nil, err
	}
	return NewFrozen(schema, fields...)
}

// decodeJSONObject parses a top-level JSON object into ordered fields.
func decodeJSONObject(data []byte) ([]Field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parse json: expected object, got %v", tok)
	}

	var fields []Field
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse json key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("parse json key: unexpected token %v", keyTok)
		}
		value, err := decodeJSONValue(dec)
		if err != nil {
			return nil, fmt.Errorf("parse json field %q: %w", key, err)
		}
		fields = append(fields, Field{Name: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return fields, nil
}

// decodeJSONValue parses one JSON value, normalizing numbers to int when
// integral and float64 otherwise.
func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := make(map[string]any)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj[key] = value
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			var arr []any
			for dec.More() {
				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		// string, bool, nil
		return t, nil
	}
}

// =============================================================================
// YAML Projection
// =============================================================================

// ToYAML serializes the view's projection as a YAML mapping, preserving
// projection order via an explicit node tree.
func ToYAML(v View, opts ...ProjectOption) ([]byte, error) {
	node, err := yamlMappingNode(Project(v, opts...))
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

// ToYAML serializes the record's projection as YAML text.
func (r *Record) ToYAML(opts ...ProjectOption) ([]byte, error) { return ToYAML(r, opts...) }

// ToYAML serializes the instance's projection as YAML text.
func (f *Frozen) ToYAML(opts ...ProjectOption) ([]byte, error) { return ToYAML(f, opts...) }

// yamlMappingNode builds an order-preserving mapping node from fields.
func yamlMappingNode(fields []Field) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range fields {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}
		value, err := yamlValueNode(f.Value)
		if err != nil {
			return nil, fmt.Errorf("encode field %q: %w", f.Name, err)
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

// yamlValueNode encodes one value, descending into nested containers.
func yamlValueNode(value any) (*yaml.Node, error) {
	if view, ok := value.(View); ok {
		return yamlMappingNode(Project(view))
	}
	node := &yaml.Node{}
	if err := node.Encode(value); err != nil {
		return nil, err
	}
	return node, nil
}

// FromYAML reconstructs a Record from serialized YAML text, preserving the
// top-level mapping's key order.
func FromYAML(schema *Schema, data []byte) (*Record, error) {
	fields, err := decodeYAMLMapping(data)
	if err != nil {
		return nil, err
	}
	return New(schema, fields...)
}

// FrozenFromYAML reconstructs a Frozen from serialized YAML text.
func FrozenFromYAML(schema *Schema, data []byte) (*Frozen, error) {
	fields, err := decodeYAMLMapping(data)
	if err != nil {
		return nil, err
	}
	return NewFrozen(schema, fields...)
}

// decodeYAMLMapping parses a top-level YAML mapping into ordered fields.
func decodeYAMLMapping(data []byte) ([]Field, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse yaml: expected mapping, got kind %d", root.Kind)
	}
	fields := make([]Field, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		var value any
		if err := root.Content[i+1].Decode(&value); err != nil {
			return nil, fmt.Errorf("parse yaml field %q: %w", key, err)
		}
		fields = append(fields, Field{Name: key, Value: value})
	}
	return fields, nil
}
