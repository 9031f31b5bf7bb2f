package postgres

import (
	"fmt"
	"strings"

	"github.com/keralasamajam/community-hub/internal/ports/out/store"
)

// createStatements generates one CREATE TABLE IF NOT EXISTS statement per
// relation descriptor. Relations() orders foreign-key targets first, so the
// statements can run in sequence. Constraint names follow the
// <relation>_<column>_unique / <relation>_<column>_fkey convention that the
// error translation layer parses back.
func createStatements() []string {
	stmts := make([]string, 0, len(store.Relations()))
	for _, rel := range store.Relations() {
		var parts []string
		for _, col := range rel.Columns {
			if col.Name == "id" {
				parts = append(parts, "id TEXT PRIMARY KEY")
				continue
			}
			def := col.Name + " " + sqlType(col.Type)
			if col.NotNull {
				def += " NOT NULL"
			}
			parts = append(parts, def)
		}
		for _, col := range rel.Columns {
			if col.Unique && col.Name != "id" {
				parts = append(parts, fmt.Sprintf("CONSTRAINT %s_%s_unique UNIQUE (%s)", rel.Name, col.Name, col.Name))
			}
		}
		for _, fk := range rel.ForeignKeys {
			parts = append(parts, fmt.Sprintf("CONSTRAINT %s_%s_fkey FOREIGN KEY (%s) REFERENCES %s (id)", rel.Name, fk.Column, fk.Column, fk.Ref))
		}
		stmts = append(stmts, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", rel.Name, strings.Join(parts, ",\n\t")))
	}
	return stmts
}

func sqlType(t store.ColType) string {
	switch t {
	case store.Int:
		return "BIGINT"
	case store.Numeric:
		return "NUMERIC(10,2)"
	case store.Date:
		return "DATE"
	case store.Timestamp:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}
