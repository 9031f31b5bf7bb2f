package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a query expected a row and got zero.
	ErrNotFound = errors.New("store: not found")

	// ErrConflict indicates a unique-constraint violation.
	ErrConflict = errors.New("store: conflict")

	// ErrUnavailable indicates the backend engine or network failed; the
	// operation may succeed on retry.
	ErrUnavailable = errors.New("store: backend unavailable")

	// ErrSchema indicates schema declaration failed. Fatal at startup.
	ErrSchema = errors.New("store: schema error")

	// ErrQuery indicates a malformed query: unknown relation, unknown
	// column, or a missing required value.
	ErrQuery = errors.New("store: invalid query")
)

// ConflictError reports which unique column was violated.
type ConflictError struct {
	Relation string
	Field    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("store: %s.%s conflicts with an existing row", e.Relation, e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
