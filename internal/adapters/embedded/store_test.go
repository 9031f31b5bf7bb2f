package embedded

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/keralasamajam/community-hub/internal/ports/out/store"
)

func TestSelectReturnsClones(t *testing.T) {
	t.Parallel()

	s := Open()
	ctx := context.Background()
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	id := uuid.NewString()
	if _, err := s.Insert(ctx, "events", store.Row{
		"id":         id,
		"name":       "Mutable?",
		"date":       "2025-03-15",
		"venue":      "Hall",
		"adult_rate": 500.0,
		"kids_rate":  250.0,
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	q := store.Query{From: "events", Where: []store.Clause{store.AnyOf(store.Eq("id", id))}}
	got, err := s.SelectOne(ctx, q)
	if err != nil {
		t.Fatalf("SelectOne: %v", err)
	}
	got["name"] = "Mutated"

	again, err := s.SelectOne(ctx, q)
	if err != nil {
		t.Fatalf("SelectOne: %v", err)
	}
	if again["name"] != "Mutable?" {
		t.Fatalf("stored row was mutated through a returned copy: %+v", again)
	}
}

func TestInsertRejectsMissingNotNull(t *testing.T) {
	t.Parallel()

	s := Open()
	ctx := context.Background()
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	_, err := s.Insert(ctx, "events", store.Row{"id": uuid.NewString(), "name": "No Date"})
	if !errors.Is(err, store.ErrQuery) {
		t.Fatalf("err=%v, want ErrQuery", err)
	}
}

func TestConcurrentInserts(t *testing.T) {
	t.Parallel()

	s := Open()
	ctx := context.Background()
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.Insert(ctx, "events", store.Row{
				"id":         uuid.NewString(),
				"name":       "Concurrent",
				"date":       "2025-03-15",
				"venue":      "Hall",
				"adult_rate": 100.0,
				"kids_rate":  50.0,
			})
			if err != nil {
				t.Errorf("Insert %d: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	n, err := s.Count(ctx, "events")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 20 {
		t.Fatalf("count=%d, want 20", n)
	}
}
