// Package bootstrap brings a store to a usable state: schema in place and the
// event catalog seeded on first run.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/keralasamajam/community-hub/internal/ports/out/store"
)

// Seed events carry fixed ids so that two processes bootstrapping the same
// backend at once collide on the primary key instead of double-seeding.
var seedEvents = []store.Row{
	{
		"id":          "7c9a1f2e-0b7d-4d21-9a43-1d2f5c8e4a01",
		"name":        "Annual Community Gathering 2025",
		"date":        "2025-03-15",
		"venue":       "Community Hall, Ernakulam",
		"adult_rate":  500.0,
		"kids_rate":   250.0,
		"description": "Join us for our annual community gathering with cultural programs, food, and networking.",
	},
	{
		"id":          "7c9a1f2e-0b7d-4d21-9a43-1d2f5c8e4a02",
		"name":        "Youth Sports Festival",
		"date":        "2025-04-20",
		"venue":       "Sports Complex, Kottayam",
		"adult_rate":  300.0,
		"kids_rate":   150.0,
		"description": "A day of sports activities, competitions, and fun for the whole family.",
	},
	{
		"id":          "7c9a1f2e-0b7d-4d21-9a43-1d2f5c8e4a03",
		"name":        "Cultural Night 2025",
		"date":        "2025-05-10",
		"venue":       "Auditorium, Thiruvananthapuram",
		"adult_rate":  600.0,
		"kids_rate":   300.0,
		"description": "An evening of traditional music, dance performances, and cultural celebrations.",
	},
}

// Run ensures the schema exists and seeds the event catalog when it is empty.
// Safe to call on every start and from concurrent processes.
func Run(ctx context.Context, adapter store.Adapter) error {
	if err := adapter.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	n, err := adapter.Count(ctx, "events")
	if err != nil {
		return fmt.Errorf("count events: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, row := range seedEvents {
		if _, err := adapter.Insert(ctx, "events", row); err != nil {
			// Another process won the race on the fixed id.
			if errors.Is(err, store.ErrConflict) {
				continue
			}
			return fmt.Errorf("seed events: %w", err)
		}
	}
	return nil
}
