// Copyright (C) 2025 Louis Goodnews
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package record provides dynamic attribute containers with runtime type
// enforcement, structural equality, deep cloning, and ordered projection.
//
// The package offers two variants of the same container:
//
//   - Record: a mutable container. Fields can be set, deleted, and updated
//     freely after construction.
//   - Frozen: an immutable container. Every field supplied at construction
//     is locked; writes and deletes against locked fields fail with
//     ErrImmutable. Individual fields can be unlocked and re-locked through
//     the lock table (Lock, Unlock).
//
// Both variants are built from named construction values, optionally checked
// against a Schema: an ordered declared field-type map fixed before any
// instance is created. When a schema is present, every supplied value is
// coerced against the declared FieldType at construction time; supplying a
// name the schema does not declare fails with ErrUnexpectedField.
//
// # Insertion Order
//
// Field insertion order is significant. Iteration (Keys, Values, Items,
// Enumerate) and projection (ToMap, ToJSON, ToYAML) observe the order in
// which fields were first set, unless an explicit sort option is given.
//
// # Reserved Names
//
// Field names starting with "_" are reserved bookkeeping names. They bypass
// schema checks and the lock table, and are excluded from equality and from
// projection by default.
//
// # Known Looseness
//
// Type coercion runs once per field, at construction time only. Writes after
// construction bypass type checking entirely. Callers that need
// re-validation must reconstruct the instance.
//
// # Thread Safety
//
// Record and Frozen are not safe for concurrent mutation. A fully locked
// Frozen is read-only by contract and may be shared across goroutines
// without further synchronization. The package-level schema registry is the
// only shared state and carries its own lock.
package record
