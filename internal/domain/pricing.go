package domain

import (
	"errors"
	"math"
)

// ErrNegativeCount is returned when an attendee count is below zero.
var ErrNegativeCount = errors.New("attendee count must not be negative")

// ComputeTotal derives the booking amount for an event registration:
// adults*AdultRate + kids*KidsRate, rounded to 2 decimals.
//
// Counts have no upper bound here (the UI documents 0-10, but that is its
// concern); negative counts are rejected. The function is pure and must yield
// the same amount on every recalculation before the value is frozen into a
// registration record.
func ComputeTotal(e Event, adults, kids int) (float64, error) {
	if adults < 0 || kids < 0 {
		return 0, ErrNegativeCount
	}
	total := float64(adults)*e.AdultRate + float64(kids)*e.KidsRate
	return math.Round(total*100) / 100, nil
}
