package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keralasamajam/community-hub/internal/adapters/embedded"
	"github.com/keralasamajam/community-hub/internal/ports/out/store"
)

func TestRunSeedsEmptyCatalog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	adapter := embedded.Open()
	require.NoError(t, Run(ctx, adapter))

	rows, err := adapter.Select(ctx, store.Query{
		From:    "events",
		OrderBy: []store.Order{{Field: "date"}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Annual Community Gathering 2025", rows[0]["name"])
	require.Equal(t, "Youth Sports Festival", rows[1]["name"])
	require.Equal(t, "Cultural Night 2025", rows[2]["name"])
	require.Equal(t, 500.0, rows[0]["adult_rate"])
	require.Equal(t, 250.0, rows[0]["kids_rate"])
}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	adapter := embedded.Open()
	require.NoError(t, Run(ctx, adapter))
	require.NoError(t, Run(ctx, adapter))
	require.NoError(t, Run(ctx, adapter))

	n, err := adapter.Count(ctx, "events")
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}

func TestRunLeavesExistingCatalogAlone(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	adapter := embedded.Open()
	require.NoError(t, adapter.EnsureSchema(ctx))
	_, err := adapter.Insert(ctx, "events", store.Row{
		"id":          "9f8e7d6c-5b4a-4c3d-8e2f-1a0b9c8d7e6f",
		"name":        "Onam Celebration",
		"date":        "2025-09-05",
		"venue":       "Town Hall, Thrissur",
		"adult_rate":  400.0,
		"kids_rate":   200.0,
		"description": "Onam sadhya and pookkalam contest.",
	})
	require.NoError(t, err)

	require.NoError(t, Run(ctx, adapter))

	n, err := adapter.Count(ctx, "events")
	require.NoError(t, err)
	require.EqualValues(t, 1, n, "non-empty catalog must not be reseeded")
}
