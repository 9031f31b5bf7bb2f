package postgres

import (
	"strings"
	"testing"

	"github.com/keralasamajam/community-hub/internal/ports/out/store"
)

func TestCompileSelectBindsAllValues(t *testing.T) {
	t.Parallel()

	rel, _ := store.RelationByName("members")
	q := store.Query{
		From: "members",
		Where: []store.Clause{
			store.AnyOf(store.Eq("email", "x@example.com"), store.Eq("mobile", "x@example.com")),
			store.AnyOf(store.Eq("password", "pw")),
		},
		OrderBy: []store.Order{{Field: "full_name"}},
		Limit:   1,
	}
	sql, args := compileSelect(rel, q)

	if strings.Contains(sql, "x@example.com") || strings.Contains(sql, "pw") {
		t.Fatalf("values interpolated into query text: %s", sql)
	}
	if want := "(email = $1 OR mobile = $2) AND (password = $3)"; !strings.Contains(sql, want) {
		t.Fatalf("sql=%q, want it to contain %q", sql, want)
	}
	if !strings.Contains(sql, "ORDER BY full_name ASC") || !strings.Contains(sql, "LIMIT 1") {
		t.Fatalf("sql=%q", sql)
	}
	if len(args) != 3 {
		t.Fatalf("args=%v, want 3 bound values", args)
	}
}

func TestCompileSelectEscapesLikeNeedle(t *testing.T) {
	t.Parallel()

	rel, _ := store.RelationByName("members")
	sql, args := compileSelect(rel, store.Query{
		From:  "members",
		Where: []store.Clause{store.AnyOf(store.Contains("district", "50%_a\\b"))},
	})
	if !strings.Contains(sql, "district ILIKE $1") {
		t.Fatalf("sql=%q", sql)
	}
	if got := args[0].(string); got != `%50\%\_a\\b%` {
		t.Fatalf("needle=%q", got)
	}
}

func TestCompileSelectNullEquality(t *testing.T) {
	t.Parallel()

	rel, _ := store.RelationByName("members")
	sql, args := compileSelect(rel, store.Query{
		From:  "members",
		Where: []store.Clause{store.AnyOf(store.Eq("spouse_name", nil))},
	})
	if !strings.Contains(sql, "spouse_name IS NULL") {
		t.Fatalf("sql=%q", sql)
	}
	if len(args) != 0 {
		t.Fatalf("args=%v, want none", args)
	}
}

func TestCreateStatementsDeclareConstraints(t *testing.T) {
	t.Parallel()

	ddl := strings.Join(createStatements(), "\n")
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS members",
		"CONSTRAINT members_email_unique UNIQUE (email)",
		"CONSTRAINT members_mobile_unique UNIQUE (mobile)",
		"CONSTRAINT dependents_member_id_fkey FOREIGN KEY (member_id) REFERENCES members (id)",
		"CONSTRAINT registrations_event_id_fkey FOREIGN KEY (event_id) REFERENCES events (id)",
		"total_amount NUMERIC(10,2) NOT NULL",
	} {
		if !strings.Contains(ddl, want) {
			t.Fatalf("generated DDL is missing %q:\n%s", want, ddl)
		}
	}
	// Referenced relations must be declared before their referrers.
	if strings.Index(ddl, "events") > strings.Index(ddl, "registrations") {
		t.Fatalf("events must be declared before registrations")
	}
}

func TestConstraintField(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"members_email_unique":  "email",
		"members_mobile_unique": "mobile",
		"members_pkey":          "id",
	}
	for constraint, want := range cases {
		if got := constraintField("members", constraint); got != want {
			t.Fatalf("constraintField(%q)=%q, want %q", constraint, got, want)
		}
	}
}
