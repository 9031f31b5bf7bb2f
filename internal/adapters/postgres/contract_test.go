package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/keralasamajam/community-hub/internal/adapters/contracttest"
	"github.com/keralasamajam/community-hub/internal/adapters/embedded"
	"github.com/keralasamajam/community-hub/internal/ports/out/store"
)

// openTestStore connects to the database named by TEST_DATABASE_URL, dropping
// any leftover relations so each subtest starts from an empty dataset.
// Without the env var the postgres side of the contract is skipped; the
// embedded side always runs.
func openTestStore(t *testing.T) (store.Adapter, func()) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, PoolOptions{})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS registrations, dependents, events, members CASCADE"); err != nil {
		pool.Close()
		t.Fatalf("reset schema: %v", err)
	}
	return NewStore(pool, Options{}), pool.Close
}

func TestContract_PostgresStore(t *testing.T) {
	contracttest.RunStoreAdapter(t, openTestStore)
}

func TestPostgresMatchesEmbedded(t *testing.T) {
	contracttest.RunReplayEquivalence(t,
		func(t *testing.T) (store.Adapter, func()) {
			t.Helper()
			return embedded.Open(), nil
		},
		openTestStore,
	)
}
