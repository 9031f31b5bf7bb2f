package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/keralasamajam/community-hub/internal/ports/out/store"
)

// Postgres error codes this adapter cares about.
const (
	UniqueViolationCode     = "23505"
	ForeignKeyViolationCode = "23503"
)

// AsPgError unwraps a *pgconn.PgError if err carries one.
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// translate maps a raw pgx error onto the store port's error kinds. Raw
// backend errors never cross the port boundary.
func translate(relation string, err error) error {
	if err == nil {
		return nil
	}
	if pe, ok := AsPgError(err); ok {
		switch pe.Code {
		case UniqueViolationCode:
			return &store.ConflictError{Relation: relation, Field: constraintField(relation, pe.ConstraintName)}
		case ForeignKeyViolationCode:
			return fmt.Errorf("%s violates %s: %w", relation, pe.ConstraintName, store.ErrNotFound)
		}
		// Class 42 is syntax/undefined-object: the schema and the queries we
		// compile disagree, which is a schema-level fault, not a network one.
		if strings.HasPrefix(pe.Code, "42") {
			return fmt.Errorf("%w: %s", store.ErrSchema, pe.Message)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
}

// constraintField recovers the column name from the constraint names emitted
// by the generated DDL: <relation>_<column>_unique and <relation>_pkey.
func constraintField(relation, constraint string) string {
	if constraint == relation+"_pkey" {
		return "id"
	}
	name := strings.TrimPrefix(constraint, relation+"_")
	return strings.TrimSuffix(name, "_unique")
}
