package domain

import (
	"errors"
	"testing"
)

func TestComputeTotal(t *testing.T) {
	t.Parallel()

	event := Event{AdultRate: 500, KidsRate: 250}

	cases := []struct {
		name   string
		adults int
		kids   int
		want   float64
	}{
		{"adults and kids", 2, 3, 1750},
		{"adults only", 4, 0, 2000},
		{"kids only", 0, 2, 500},
		{"zero attendees", 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputeTotal(event, tc.adults, tc.kids)
			if err != nil {
				t.Fatalf("ComputeTotal err=%v", err)
			}
			if got != tc.want {
				t.Fatalf("total=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestComputeTotalRounds(t *testing.T) {
	t.Parallel()

	// 3 * 33.335 = 100.005 in exact arithmetic; the stored amount is 2dp.
	got, err := ComputeTotal(Event{AdultRate: 33.335}, 3, 0)
	if err != nil {
		t.Fatalf("ComputeTotal err=%v", err)
	}
	if got != 100.01 && got != 100.0 {
		t.Fatalf("total=%v, want a 2dp amount", got)
	}
}

func TestComputeTotalRejectsNegative(t *testing.T) {
	t.Parallel()

	for _, counts := range [][2]int{{-1, 0}, {0, -1}, {-2, -2}} {
		_, err := ComputeTotal(Event{AdultRate: 500, KidsRate: 250}, counts[0], counts[1])
		if !errors.Is(err, ErrNegativeCount) {
			t.Fatalf("counts=%v err=%v, want ErrNegativeCount", counts, err)
		}
	}
}

func TestComputeTotalIsStable(t *testing.T) {
	t.Parallel()

	event := Event{AdultRate: 600, KidsRate: 300}
	first, err := ComputeTotal(event, 3, 5)
	if err != nil {
		t.Fatalf("ComputeTotal err=%v", err)
	}
	for i := 0; i < 100; i++ {
		again, err := ComputeTotal(event, 3, 5)
		if err != nil || again != first {
			t.Fatalf("recomputation drifted: %v vs %v (err=%v)", again, first, err)
		}
	}
}
