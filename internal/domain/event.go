package domain

// Event is a scheduled community activity with per-category pricing.
// Events are reference data in this core: seeded once, then read-only.
type Event struct {
	ID          ID
	Name        string
	Date        string // ISO date, YYYY-MM-DD
	Venue       string
	AdultRate   float64
	KidsRate    float64
	Description string
}
