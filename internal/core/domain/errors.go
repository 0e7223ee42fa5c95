package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedKind indicates a field kind the transform engine
	// does not handle.
	ErrUnsupportedKind = errors.New("unsupported field kind")

	// ErrOracleUnavailable indicates the mapping-suggestion oracle is not
	// configured. Suggestion falls back to the deterministic matcher.
	ErrOracleUnavailable = errors.New("mapping oracle unavailable")
)

// TransformError is returned by the value transform engine when a raw cell
// value cannot be coerced to the target field's kind. It always carries the
// field id and the offending raw value. Callers catch it per row and convert
// it to an ImportError; it never aborts a whole batch.
type TransformError struct {
	// Field is the target field id.
	Field string

	// Value is the offending raw value, rendered as text.
	Value string

	// Reason describes why coercion failed.
	Reason string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("field %q: %s (value %q)", e.Field, e.Reason, e.Value)
}

// ResolutionError is returned by the reference resolver when a lookup
// expression matches zero records. It is fatal for its row only and is
// never retried: the missing referent will not appear during the same
// import run.
type ResolutionError struct {
	// Field is the target field id holding the unresolved reference.
	Field string

	// LookupField is the field the lookup searched on.
	LookupField string

	// LookupValue is the value the lookup searched for.
	LookupValue string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("field %q: no record found with %s = %q",
		e.Field, e.LookupField, e.LookupValue)
}

func (e *ResolutionError) Unwrap() error {
	return ErrNotFound
}
