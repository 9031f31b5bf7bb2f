package community

import "github.com/keralasamajam/community-hub/internal/domain"

// RegisterInput carries a new-member application. FullName, Email, Mobile and
// Password are required; the rest is optional profile detail.
type RegisterInput struct {
	FullName   string
	Email      string
	Mobile     string
	Password   string
	Country    string
	Occupation string

	SpouseName *string
	Address    *string
	District   *string
	Pincode    *string

	Dependents []DependentInput
}

// DependentInput describes one dependent on a registration form. Entries with
// a blank name are skipped rather than rejected, matching the form's optional
// rows.
type DependentInput struct {
	Name   string
	Age    *int
	School *string
}

// SearchResult distinguishes "no matches" from "query too short to run".
// Performed is false when the needle was under the minimum length and no
// lookup was attempted.
type SearchResult struct {
	Performed bool
	Members   []domain.Member
}
