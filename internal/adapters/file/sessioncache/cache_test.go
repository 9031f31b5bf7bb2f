package sessioncache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keralasamajam/community-hub/internal/domain"
)

func testMember() domain.Member {
	spouse := "Priya"
	age := 7
	return domain.Member{
		ID:         domain.NewID(),
		FullName:   "Suresh Pillai",
		Email:      "suresh@example.com",
		Mobile:     "9400000100",
		Country:    "India",
		Occupation: "Engineer",
		SpouseName: &spouse,
		CreatedAt:  time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
		Dependents: []domain.Dependent{
			{ID: domain.NewID(), Name: "Anu", Age: &age},
		},
	}
}

func TestSaveLoadClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := New(filepath.Join(t.TempDir(), "session.json"))

	_, ok, err := cache.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok, "empty cache must read as absent")

	m := testMember()
	require.NoError(t, cache.Save(ctx, m))

	got, ok, err := cache.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, m.ID, got.ID)
	require.Equal(t, m.Email, got.Email)
	require.Equal(t, *m.SpouseName, *got.SpouseName)
	require.True(t, m.CreatedAt.Equal(got.CreatedAt))
	require.Len(t, got.Dependents, 1)
	require.Equal(t, "Anu", got.Dependents[0].Name)
	require.Equal(t, 7, *got.Dependents[0].Age)
	require.Equal(t, m.ID, got.Dependents[0].MemberID)

	require.NoError(t, cache.Clear(ctx))
	_, ok, err = cache.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	// Clearing an already-empty cache is fine.
	require.NoError(t, cache.Clear(ctx))
}

func TestLoadSurvivesProcessRestart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	m := testMember()
	require.NoError(t, New(path).Save(ctx, m))

	// A fresh Cache over the same path stands in for a new process.
	got, ok, err := New(path).Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, m.ID, got.ID)
}

func TestCorruptSlotReadsAsAbsent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, ok, err := New(path).Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	// The corrupt file is discarded, not kept around.
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}
