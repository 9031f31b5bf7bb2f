package domain

import "time"

// StatusBooked is the only registration status this core produces.
const StatusBooked = "booked"

// Registration links a member to an event with attendee counts and amounts.
//
// EventName/EventDate/EventVenue are a denormalized snapshot taken at booking
// time; later edits to the event must not retroactively alter a registration.
// TotalAmount and PaidAmount are likewise frozen at insert and never
// recomputed from current event rates.
type Registration struct {
	ID       ID
	MemberID ID
	EventID  ID

	EventName  string
	EventDate  string
	EventVenue string

	Adults int
	Kids   int

	TotalAmount float64
	PaidAmount  float64

	Status       string
	RegisteredAt time.Time
}
