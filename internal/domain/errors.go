package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed field on a record presented at the
// write boundary: a value outside a closed enumeration, a missing required
// field, or a numeric value outside its accepted range.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a lookup by a key that has no row.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// DuplicateError reports a uniqueness violation on append when the
// configured upsert policy rejects duplicates.
type DuplicateError struct {
	Entity string
	Key    string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Entity, e.Key)
}

// ForeignKeyError reports a write referencing a symbol with no asset row.
type ForeignKeyError struct {
	Entity string
	Symbol string
}

func (e *ForeignKeyError) Error() string {
	return fmt.Sprintf("%s references unknown asset: %s", e.Entity, e.Symbol)
}

// ComputationError reports an arithmetic hazard inside a derived view,
// e.g. a daily return over a zero previous close. It aborts the single
// offending sequence element; the caller decides whether to skip or halt.
type ComputationError struct {
	Op     string
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation: %s: %s", e.Op, e.Reason)
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsDuplicate(err error) bool {
	var e *DuplicateError
	return errors.As(err, &e)
}

func IsForeignKey(err error) bool {
	var e *ForeignKeyError
	return errors.As(err, &e)
}

func IsComputation(err error) bool {
	var e *ComputationError
	return errors.As(err, &e)
}
