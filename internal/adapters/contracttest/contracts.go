// Package contracttest holds the behavioural suite every store adapter must
// pass. Running the same suite against the embedded and remote backends is
// what makes them interchangeable.
package contracttest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/keralasamajam/community-hub/internal/ports/out/store"
)

type CleanupFunc = func()

// StoreFactory yields a fresh, empty adapter per subtest.
type StoreFactory func(t *testing.T) (store.Adapter, CleanupFunc)

// RunStoreAdapter exercises the full store contract against one adapter.
func RunStoreAdapter(t *testing.T, newStore StoreFactory) {
	t.Helper()

	run := func(name string, fn func(t *testing.T, ctx context.Context, ad store.Adapter)) {
		t.Run(name, func(t *testing.T) {
			ad, cleanup := newStore(t)
			if cleanup != nil {
				t.Cleanup(cleanup)
			}
			ctx := context.Background()
			if err := ad.EnsureSchema(ctx); err != nil {
				t.Fatalf("EnsureSchema: %v", err)
			}
			fn(t, ctx, ad)
		})
	}

	run("InsertAndSelectOne", func(t *testing.T, ctx context.Context, ad store.Adapter) {
		row := memberRow("Anita Varma", "anita@example.com", "9400000001")
		id, err := ad.Insert(ctx, "members", row)
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if id != row["id"] {
			t.Fatalf("Insert returned id %q, want %q", id, row["id"])
		}

		got, err := ad.SelectOne(ctx, store.Query{
			From:  "members",
			Where: []store.Clause{store.AnyOf(store.Eq("id", id))},
		})
		if err != nil {
			t.Fatalf("SelectOne: %v", err)
		}
		if got["full_name"] != "Anita Varma" || got["email"] != "anita@example.com" {
			t.Fatalf("unexpected row: %+v", got)
		}
		if got["spouse_name"] != nil {
			t.Fatalf("optional column should be nil, got %#v", got["spouse_name"])
		}
		ts, ok := got["created_at"].(time.Time)
		if !ok || !ts.Equal(seedTime) {
			t.Fatalf("created_at = %#v, want %v", got["created_at"], seedTime)
		}
	})

	run("SelectOneNotFoundIsDistinct", func(t *testing.T, ctx context.Context, ad store.Adapter) {
		_, err := ad.SelectOne(ctx, store.Query{
			From:  "members",
			Where: []store.Clause{store.AnyOf(store.Eq("id", uuid.NewString()))},
		})
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("err=%v, want ErrNotFound", err)
		}
	})

	run("RejectsUnknownColumn", func(t *testing.T, ctx context.Context, ad store.Adapter) {
		_, err := ad.Select(ctx, store.Query{
			From:  "members",
			Where: []store.Clause{store.AnyOf(store.Eq("no_such_column", "x"))},
		})
		if !errors.Is(err, store.ErrQuery) {
			t.Fatalf("err=%v, want ErrQuery", err)
		}
	})

	run("UniqueEmailAndMobile", func(t *testing.T, ctx context.Context, ad store.Adapter) {
		if _, err := ad.Insert(ctx, "members", memberRow("First Member", "dup@example.com", "9400000002")); err != nil {
			t.Fatalf("Insert first: %v", err)
		}

		_, err := ad.Insert(ctx, "members", memberRow("Second Member", "dup@example.com", "9400000003"))
		ce := (*store.ConflictError)(nil)
		if !errors.As(err, &ce) || ce.Field != "email" {
			t.Fatalf("duplicate email err=%v, want ConflictError on email", err)
		}

		_, err = ad.Insert(ctx, "members", memberRow("Third Member", "third@example.com", "9400000002"))
		if !errors.As(err, &ce) || ce.Field != "mobile" {
			t.Fatalf("duplicate mobile err=%v, want ConflictError on mobile", err)
		}

		// No partial rows from the failed inserts.
		n, err := ad.Count(ctx, "members")
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		if n != 1 {
			t.Fatalf("members count = %d, want 1", n)
		}
	})

	run("ForeignKeysEnforced", func(t *testing.T, ctx context.Context, ad store.Adapter) {
		_, err := ad.Insert(ctx, "dependents", store.Row{
			"id":        uuid.NewString(),
			"member_id": uuid.NewString(),
			"name":      "Orphan Kid",
		})
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("dependent with missing member err=%v, want ErrNotFound", err)
		}

		owner := memberRow("Dependent Owner", "owner@example.com", "9400000004")
		ownerID, err := ad.Insert(ctx, "members", owner)
		if err != nil {
			t.Fatalf("Insert owner: %v", err)
		}
		if _, err := ad.Insert(ctx, "dependents", store.Row{
			"id":        uuid.NewString(),
			"member_id": ownerID,
			"name":      "Real Kid",
			"age":       int64(8),
		}); err != nil {
			t.Fatalf("Insert dependent: %v", err)
		}

		_, err = ad.Insert(ctx, "registrations", registrationRow(ownerID, uuid.NewString()))
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("registration with missing event err=%v, want ErrNotFound", err)
		}
	})

	run("DisjunctionFilter", func(t *testing.T, ctx context.Context, ad store.Adapter) {
		a := memberRow("Member A", "a@example.com", "9400000005")
		b := memberRow("Member B", "b@example.com", "9400000006")
		for _, r := range []store.Row{a, b} {
			if _, err := ad.Insert(ctx, "members", r); err != nil {
				t.Fatalf("Insert: %v", err)
			}
		}

		// One clause matching a's email OR b's mobile must return both.
		rows, err := ad.Select(ctx, store.Query{
			From: "members",
			Where: []store.Clause{store.AnyOf(
				store.Eq("email", "a@example.com"),
				store.Eq("mobile", "9400000006"),
			)},
			OrderBy: []store.Order{{Field: "email"}},
		})
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		if len(rows) != 2 || rows[0]["id"] != a["id"] || rows[1]["id"] != b["id"] {
			t.Fatalf("unexpected rows: %+v", rows)
		}

		// Two clauses AND together: email matches a, mobile matches b -> none.
		rows, err = ad.Select(ctx, store.Query{
			From: "members",
			Where: []store.Clause{
				store.AnyOf(store.Eq("email", "a@example.com")),
				store.AnyOf(store.Eq("mobile", "9400000006")),
			},
		})
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		if len(rows) != 0 {
			t.Fatalf("ANDed clauses matched %d rows, want 0", len(rows))
		}
	})

	run("SubstringFilterCaseInsensitive", func(t *testing.T, ctx context.Context, ad store.Adapter) {
		r := memberRow("Thomas Kurian", "thomas@example.com", "9400000007")
		r["district"] = "Ernakulam"
		if _, err := ad.Insert(ctx, "members", r); err != nil {
			t.Fatalf("Insert: %v", err)
		}

		rows, err := ad.Select(ctx, store.Query{
			From:  "members",
			Where: []store.Clause{store.AnyOf(store.Contains("district", "ernakulam"))},
		})
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("case-insensitive match returned %d rows, want 1", len(rows))
		}

		// LIKE metacharacters in the needle are literals, not wildcards.
		rows, err = ad.Select(ctx, store.Query{
			From:  "members",
			Where: []store.Clause{store.AnyOf(store.Contains("district", "%"))},
		})
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		if len(rows) != 0 {
			t.Fatalf("%% needle matched %d rows, want 0", len(rows))
		}

		// Null columns never match a substring filter.
		rows, err = ad.Select(ctx, store.Query{
			From:  "members",
			Where: []store.Clause{store.AnyOf(store.Contains("spouse_name", "a"))},
		})
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		if len(rows) != 0 {
			t.Fatalf("null column matched %d rows, want 0", len(rows))
		}
	})

	run("OrderingAndLimit", func(t *testing.T, ctx context.Context, ad store.Adapter) {
		dates := []string{"2025-05-10", "2025-03-15", "2025-04-20"}
		for i, d := range dates {
			if _, err := ad.Insert(ctx, "events", eventRow(fmt.Sprintf("seq%d", i), "Event "+d, d)); err != nil {
				t.Fatalf("Insert event: %v", err)
			}
		}

		rows, err := ad.Select(ctx, store.Query{
			From:    "events",
			OrderBy: []store.Order{{Field: "date"}, {Field: "id"}},
		})
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		var got []string
		for _, r := range rows {
			got = append(got, r["date"].(string))
		}
		want := []string{"2025-03-15", "2025-04-20", "2025-05-10"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("order = %v, want %v", got, want)
			}
		}

		rows, err = ad.Select(ctx, store.Query{
			From:    "events",
			OrderBy: []store.Order{{Field: "date", Desc: true}},
			Limit:   1,
		})
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		if len(rows) != 1 || rows[0]["date"] != "2025-05-10" {
			t.Fatalf("desc+limit rows: %+v", rows)
		}
	})

	run("EnsureSchemaIdempotent", func(t *testing.T, ctx context.Context, ad store.Adapter) {
		if _, err := ad.Insert(ctx, "events", eventRow("keep1", "Survivor", "2025-06-01")); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if err := ad.EnsureSchema(ctx); err != nil {
			t.Fatalf("second EnsureSchema: %v", err)
		}
		n, err := ad.Count(ctx, "events")
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		if n != 1 {
			t.Fatalf("events count after re-ensure = %d, want 1", n)
		}
	})
}

// RunReplayEquivalence replays the same writes against two adapters and
// asserts identical reads return value-equal row sets.
func RunReplayEquivalence(t *testing.T, newA, newB StoreFactory) {
	t.Helper()
	ctx := context.Background()

	a, cleanupA := newA(t)
	if cleanupA != nil {
		t.Cleanup(cleanupA)
	}
	b, cleanupB := newB(t)
	if cleanupB != nil {
		t.Cleanup(cleanupB)
	}

	writes := []struct {
		relation string
		row      store.Row
	}{
		{"members", memberRow("Lakshmi Menon", "lakshmi@example.com", "9400000010")},
		{"members", memberRow("Rahul Nair", "rahul@example.com", "9400000011")},
		{"events", eventRow("evA", "Onam Celebration", "2025-09-05")},
	}
	writes[0].row["district"] = "Kottayam"
	writes = append(writes, struct {
		relation string
		row      store.Row
	}{"registrations", registrationRow(writes[0].row["id"].(string), "evA")})

	for _, ad := range []store.Adapter{a, b} {
		if err := ad.EnsureSchema(ctx); err != nil {
			t.Fatalf("EnsureSchema: %v", err)
		}
		for _, w := range writes {
			if _, err := ad.Insert(ctx, w.relation, w.row); err != nil {
				t.Fatalf("Insert %s: %v", w.relation, err)
			}
		}
	}

	reads := []store.Query{
		{From: "members", OrderBy: []store.Order{{Field: "full_name"}, {Field: "id"}}},
		{From: "members", Where: []store.Clause{store.AnyOf(store.Contains("district", "otta"))}},
		{From: "events", OrderBy: []store.Order{{Field: "date"}}},
		{From: "registrations", OrderBy: []store.Order{{Field: "registered_at", Desc: true}}},
	}
	for _, q := range reads {
		rowsA, err := a.Select(ctx, q)
		if err != nil {
			t.Fatalf("adapter A %s: %v", q.From, err)
		}
		rowsB, err := b.Select(ctx, q)
		if err != nil {
			t.Fatalf("adapter B %s: %v", q.From, err)
		}
		if len(rowsA) != len(rowsB) {
			t.Fatalf("%s: %d rows vs %d rows", q.From, len(rowsA), len(rowsB))
		}
		for i := range rowsA {
			if !rowsEqual(rowsA[i], rowsB[i]) {
				t.Fatalf("%s row %d differs:\nA: %+v\nB: %+v", q.From, i, rowsA[i], rowsB[i])
			}
		}
	}
}

var seedTime = time.Date(2025, 1, 10, 8, 30, 0, 0, time.UTC)

func memberRow(name, email, mobile string) store.Row {
	return store.Row{
		"id":         uuid.NewString(),
		"full_name":  name,
		"email":      email,
		"mobile":     mobile,
		"password":   "secret",
		"country":    "India",
		"created_at": seedTime,
	}
}

func eventRow(id, name, date string) store.Row {
	return store.Row{
		"id":         id,
		"name":       name,
		"date":       date,
		"venue":      "Town Hall",
		"adult_rate": 500.0,
		"kids_rate":  250.0,
	}
}

func registrationRow(memberID, eventID string) store.Row {
	return store.Row{
		"id":            uuid.NewString(),
		"member_id":     memberID,
		"event_id":      eventID,
		"event_name":    "Snapshot Name",
		"event_date":    "2025-09-05",
		"event_venue":   "Snapshot Venue",
		"adults":        int64(2),
		"kids":          int64(1),
		"total_amount":  1250.0,
		"paid_amount":   1250.0,
		"status":        "booked",
		"registered_at": seedTime,
	}
}

func rowsEqual(a, b store.Row) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if at, ok := av.(time.Time); ok {
			bt, ok := bv.(time.Time)
			if !ok || !at.Equal(bt) {
				return false
			}
			continue
		}
		if av != bv {
			return false
		}
	}
	return true
}
