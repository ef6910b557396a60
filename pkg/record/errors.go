// Copyright (C) 2025 Louis Goodnews
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package record

import (
	"errors"
	"fmt"
)

// Sentinel errors for container operations. Every typed error below unwraps
// to one of these, so callers can branch with errors.Is without inspecting
// the concrete type.
var (
	// ErrTypeMismatch is returned when a construction value neither satisfies
	// nor converts to the declared field type.
	ErrTypeMismatch = errors.New("value does not satisfy declared field type")

	// ErrUnexpectedField is returned when construction supplies a field name
	// the schema does not declare.
	ErrUnexpectedField = errors.New("field not declared in schema")

	// ErrNotFound is returned by the indexed access surface (Lookup, Delete)
	// for a genuinely absent field. Get never fails; it returns a default.
	ErrNotFound = errors.New("field not found")

	// ErrImmutable is returned when a write or delete targets a locked field
	// of a Frozen instance. The instance is left unchanged.
	ErrImmutable = errors.New("field is locked")

	// ErrNotRegistered is returned by Lock and Unlock when the field has
	// never been registered in the lock table.
	ErrNotRegistered = errors.New("field has not been registered")

	// ErrPrivateField is returned by Lock and Unlock for reserved
	// bookkeeping names, which are exempt from locking.
	ErrPrivateField = errors.New("reserved fields cannot be locked or unlocked")

	// ErrMissingValue is returned by Lock with AllowNew when the field does
	// not exist yet and no value was supplied.
	ErrMissingValue = errors.New("new field requires a value when locked")

	// ErrConstraint is returned when a construction value violates a
	// validation rule attached to the schema.
	ErrConstraint = errors.New("value violates schema rule")
)

// TypeMismatchError reports a construction-time coercion failure.
type TypeMismatchError struct {
	// Field is the declared field name.
	Field string

	// Expected is the name of the declared field type.
	Expected string

	// Actual is the Go type of the supplied value.
	Actual string
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("invalid type for field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

// Unwrap returns ErrTypeMismatch for errors.Is support.
func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// UnexpectedFieldError reports a supplied name absent from the schema.
type UnexpectedFieldError struct {
	Field string
}

// Error implements the error interface.
func (e *UnexpectedFieldError) Error() string {
	return fmt.Sprintf("unexpected field %q", e.Field)
}

// Unwrap returns ErrUnexpectedField for errors.Is support.
func (e *UnexpectedFieldError) Unwrap() error { return ErrUnexpectedField }

// NotFoundError reports indexed access to an absent field.
type NotFoundError struct {
	Field string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("field %q not found", e.Field)
}

// Unwrap returns ErrNotFound for errors.Is support.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ImmutableError reports a rejected write or delete on a Frozen instance.
type ImmutableError struct {
	Field string
}

// Error implements the error interface.
func (e *ImmutableError) Error() string {
	return fmt.Sprintf("cannot modify immutable field %q", e.Field)
}

// Unwrap returns ErrImmutable for errors.Is support.
func (e *ImmutableError) Unwrap() error { return ErrImmutable }

// NotRegisteredError reports a Lock or Unlock against an unknown field.
type NotRegisteredError struct {
	Field string
}

// Error implements the error interface.
func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("field %q has not been registered", e.Field)
}

// Unwrap returns ErrNotRegistered for errors.Is support.
func (e *NotRegisteredError) Unwrap() error { return ErrNotRegistered }

// PrivateFieldError reports a Lock or Unlock against a reserved name.
type PrivateFieldError struct {
	Field string
}

// Error implements the error interface.
func (e *PrivateFieldError) Error() string {
	return fmt.Sprintf("cannot lock or unlock reserved field %q", e.Field)
}

// Unwrap returns ErrPrivateField for errors.Is support.
func (e *PrivateFieldError) Unwrap() error { return ErrPrivateField }

// MissingValueError reports Lock(AllowNew) on an absent field without a value.
type MissingValueError struct {
	Field string
}

// Error implements the error interface.
func (e *MissingValueError) Error() string {
	return fmt.Sprintf("new field %q must have a value when locking", e.Field)
}

// Unwrap returns ErrMissingValue for errors.Is support.
func (e *MissingValueError) Unwrap() error { return ErrMissingValue }

// ConstraintError reports a construction value that violates a schema rule.
type ConstraintError struct {
	// Field is the rule-carrying field name.
	Field string

	// Rule is the validation tag that failed, e.g. "gte=0".
	Rule string
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("field %q violates rule %q", e.Field, e.Rule)
}

// Unwrap returns ErrConstraint for errors.Is support.
func (e *ConstraintError) Unwrap() error { return ErrConstraint }
