package domain

import "time"

// Member is a registered community account holder.
//
// The password is deliberately absent: it is an opaque credential compared
// only inside the login query and never leaves the persistence boundary.
type Member struct {
	ID       ID
	FullName string
	Email    string
	Mobile   string

	Country    string
	Occupation string

	// Optional profile fields; nil means unset.
	SpouseName *string
	Address    *string
	District   *string
	Pincode    *string

	CreatedAt time.Time

	// Dependents are loaded alongside the member at login and profile reads.
	Dependents []Dependent
}

// Dependent is a child/ward associated with exactly one member.
// Its lifetime is tied to the owning member.
type Dependent struct {
	ID       ID
	MemberID ID
	Name     string
	Age      *int
	School   *string
}
