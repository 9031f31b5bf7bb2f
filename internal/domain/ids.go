package domain

import "github.com/google/uuid"

// ID is an opaque identifier for a member, dependent, event, or registration
// record. IDs are always generated by this core (never accepted from untrusted
// input as primary keys); seed reference data carries fixed literal ids.
type ID string

// NewID returns a fresh globally unique identifier. Safe for concurrent use.
func NewID() ID {
	return ID(uuid.NewString())
}

// ValidID reports whether s has the canonical shape of a generated identifier.
// Session revalidation uses this to reject tampered or pre-migration ids
// before trusting them in a lookup.
func ValidID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
