// Package community is the application core: authentication, member
// registration, the event catalog, bookings and directory search. It speaks
// to storage only through the store port, so every operation behaves the same
// on the embedded engine and on Postgres.
package community

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/keralasamajam/community-hub/internal/domain"
	"github.com/keralasamajam/community-hub/internal/ports/out/clock"
	"github.com/keralasamajam/community-hub/internal/ports/out/sessioncache"
	"github.com/keralasamajam/community-hub/internal/ports/out/store"
)

// searchMinRunes is the directory search threshold: shorter needles do not
// reach the store at all.
const searchMinRunes = 2

type Service struct {
	store    store.Adapter
	sessions sessioncache.Cache
	clk      clock.Clock

	newID func() domain.ID

	mu      sync.Mutex
	current *domain.Member
}

func NewService(adapter store.Adapter, sessions sessioncache.Cache, clk clock.Clock) *Service {
	return &Service{
		store:    adapter,
		sessions: sessions,
		clk:      clk,
		newID:    domain.NewID,
	}
}

// SetNewIDForTest overrides record ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewIDForTest(fn func() domain.ID) {
	if fn != nil {
		s.newID = fn
	}
}

// CurrentMember returns the signed-in member, if any.
func (s *Service) CurrentMember() (domain.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Member{}, false
	}
	return *s.current, true
}

func (s *Service) setCurrent(m *domain.Member) {
	s.mu.Lock()
	s.current = m
	s.mu.Unlock()
}

// Login authenticates by email or mobile plus password in a single query, so
// a wrong identifier and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, identifier, password string) (domain.Member, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return domain.Member{}, errInvalidCredentials()
	}

	row, err := s.store.SelectOne(ctx, store.Query{
		From: "members",
		Where: []store.Clause{
			store.AnyOf(store.Eq("email", identifier), store.Eq("mobile", identifier)),
			store.AnyOf(store.Eq("password", password)),
		},
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Member{}, errInvalidCredentials()
		}
		return domain.Member{}, err
	}

	m := rowToMember(row)
	deps, err := s.loadDependents(ctx, m.ID)
	if err != nil {
		return domain.Member{}, err
	}
	m.Dependents = deps

	s.setCurrent(&m)
	// Session persistence is best effort: a full disk must not fail a login.
	_ = s.sessions.Save(ctx, m)
	return m, nil
}

// Logout clears the in-process session and the cached slot. It never fails
// for an already-signed-out caller.
func (s *Service) Logout(ctx context.Context) error {
	s.setCurrent(nil)
	return s.sessions.Clear(ctx)
}

// Register creates a member with their dependents. The member row and each
// dependent row are separate inserts; a dependent failure leaves the member
// in place rather than rolling it back.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.Member, error) {
	fullName := domain.NormalizeHumanName(in.FullName)
	email := strings.TrimSpace(in.Email)
	mobile := strings.TrimSpace(in.Mobile)

	if fullName == "" {
		return domain.Member{}, errValidation("fullName", "must be non-empty")
	}
	if email == "" {
		return domain.Member{}, errValidation("email", "must be non-empty")
	}
	if mobile == "" {
		return domain.Member{}, errValidation("mobile", "must be non-empty")
	}
	if in.Password == "" {
		return domain.Member{}, errValidation("password", "must be non-empty")
	}

	// Pre-check for a friendlier error; the unique constraints below are the
	// actual guarantee under concurrency.
	existing, err := s.store.Select(ctx, store.Query{
		From: "members",
		Where: []store.Clause{
			store.AnyOf(store.Eq("email", email), store.Eq("mobile", mobile)),
		},
		Limit: 1,
	})
	if err != nil {
		return domain.Member{}, err
	}
	if len(existing) > 0 {
		return domain.Member{}, memberExistsError(existing[0], email)
	}

	m := domain.Member{
		ID:         s.newID(),
		FullName:   fullName,
		Email:      email,
		Mobile:     mobile,
		Country:    strings.TrimSpace(in.Country),
		Occupation: strings.TrimSpace(in.Occupation),
		SpouseName: in.SpouseName,
		Address:    in.Address,
		District:   in.District,
		Pincode:    in.Pincode,
		CreatedAt:  s.clk.Now().UTC(),
	}

	_, err = s.store.Insert(ctx, "members", store.Row{
		"id":          string(m.ID),
		"full_name":   m.FullName,
		"email":       m.Email,
		"mobile":      m.Mobile,
		"password":    in.Password,
		"country":     m.Country,
		"occupation":  m.Occupation,
		"spouse_name": optStringValue(m.SpouseName),
		"address":     optStringValue(m.Address),
		"district":    optStringValue(m.District),
		"pincode":     optStringValue(m.Pincode),
		"created_at":  m.CreatedAt,
	})
	if err != nil {
		var conflict *store.ConflictError
		if errors.As(err, &conflict) {
			return domain.Member{}, &Error{
				Status:  409,
				Code:    "MEMBER_EXISTS",
				Message: "a member with this email or mobile already exists",
				Details: map[string]any{"field": conflict.Field},
			}
		}
		return domain.Member{}, err
	}

	for _, d := range in.Dependents {
		name := domain.NormalizeHumanName(d.Name)
		if name == "" {
			// Blank rows on the form are placeholders, not data.
			continue
		}
		dep := domain.Dependent{
			ID:       s.newID(),
			MemberID: m.ID,
			Name:     name,
			Age:      d.Age,
			School:   d.School,
		}
		if _, err := s.store.Insert(ctx, "dependents", store.Row{
			"id":        string(dep.ID),
			"member_id": string(dep.MemberID),
			"name":      dep.Name,
			"age":       optIntValue(dep.Age),
			"school":    optStringValue(dep.School),
		}); err != nil {
			return domain.Member{}, err
		}
		m.Dependents = append(m.Dependents, dep)
	}

	return m, nil
}

func memberExistsError(row store.Row, email string) *Error {
	field := "mobile"
	if rowString(row, "email") == email {
		field = "email"
	}
	return &Error{
		Status:  409,
		Code:    "MEMBER_EXISTS",
		Message: "a member with this email or mobile already exists",
		Details: map[string]any{"field": field},
	}
}

// Events lists the catalog in chronological order.
func (s *Service) Events(ctx context.Context) ([]domain.Event, error) {
	rows, err := s.store.Select(ctx, store.Query{
		From:    "events",
		OrderBy: []store.Order{{Field: "date"}, {Field: "id"}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToEvent(row))
	}
	return out, nil
}

// BookEvent records attendance for the signed-in member. The registration
// freezes the event's name, date, venue and the computed amount at booking
// time; later catalog edits must not alter it.
func (s *Service) BookEvent(ctx context.Context, eventID domain.ID, adults, kids int) (domain.Registration, error) {
	caller, ok := s.CurrentMember()
	if !ok {
		return domain.Registration{}, errAuthRequired()
	}
	if adults < 0 || kids < 0 {
		return domain.Registration{}, errValidation("attendees", domain.ErrNegativeCount.Error())
	}

	row, err := s.store.SelectOne(ctx, store.Query{
		From:  "events",
		Where: []store.Clause{store.AnyOf(store.Eq("id", string(eventID)))},
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Registration{}, &Error{Status: 404, Code: "EVENT_NOT_FOUND", Message: "event not found"}
		}
		return domain.Registration{}, err
	}
	event := rowToEvent(row)

	total, err := domain.ComputeTotal(event, adults, kids)
	if err != nil {
		return domain.Registration{}, errValidation("attendees", err.Error())
	}

	reg := domain.Registration{
		ID:           s.newID(),
		MemberID:     caller.ID,
		EventID:      event.ID,
		EventName:    event.Name,
		EventDate:    event.Date,
		EventVenue:   event.Venue,
		Adults:       adults,
		Kids:         kids,
		TotalAmount:  total,
		PaidAmount:   total,
		Status:       domain.StatusBooked,
		RegisteredAt: s.clk.Now().UTC(),
	}
	if _, err := s.store.Insert(ctx, "registrations", store.Row{
		"id":            string(reg.ID),
		"member_id":     string(reg.MemberID),
		"event_id":      string(reg.EventID),
		"event_name":    reg.EventName,
		"event_date":    reg.EventDate,
		"event_venue":   reg.EventVenue,
		"adults":        reg.Adults,
		"kids":          reg.Kids,
		"total_amount":  reg.TotalAmount,
		"paid_amount":   reg.PaidAmount,
		"status":        reg.Status,
		"registered_at": reg.RegisteredAt,
	}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The member row vanished between auth and insert.
			_ = s.Logout(ctx)
			return domain.Registration{}, errAuthRequired()
		}
		return domain.Registration{}, err
	}
	return reg, nil
}

// MyRegistrations returns the signed-in member's booking history, most recent
// first.
func (s *Service) MyRegistrations(ctx context.Context) ([]domain.Registration, error) {
	caller, ok := s.CurrentMember()
	if !ok {
		return nil, errAuthRequired()
	}
	rows, err := s.store.Select(ctx, store.Query{
		From:    "registrations",
		Where:   []store.Clause{store.AnyOf(store.Eq("member_id", string(caller.ID)))},
		OrderBy: []store.Order{{Field: "registered_at", Desc: true}, {Field: "id"}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Registration, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToRegistration(row))
	}
	return out, nil
}

// SearchMembers runs a case-insensitive substring match over the directory
// columns. Needles under two runes are answered locally with Performed=false
// and never reach the store.
func (s *Service) SearchMembers(ctx context.Context, needle string) (SearchResult, error) {
	needle = strings.TrimSpace(needle)
	if utf8.RuneCountInString(needle) < searchMinRunes {
		return SearchResult{Performed: false}, nil
	}

	rows, err := s.store.Select(ctx, store.Query{
		From: "members",
		Where: []store.Clause{
			store.AnyOf(
				store.Contains("full_name", needle),
				store.Contains("email", needle),
				store.Contains("mobile", needle),
				store.Contains("district", needle),
				store.Contains("country", needle),
			),
		},
		OrderBy: []store.Order{{Field: "full_name"}, {Field: "id"}},
	})
	if err != nil {
		return SearchResult{}, err
	}

	out := SearchResult{Performed: true, Members: make([]domain.Member, 0, len(rows))}
	for _, row := range rows {
		out.Members = append(out.Members, rowToMember(row))
	}
	return out, nil
}

// Profile re-reads the signed-in member's record with fresh dependents. A
// missing record means the account is gone: the session is cleared and the
// caller must sign in again.
func (s *Service) Profile(ctx context.Context) (domain.Member, error) {
	caller, ok := s.CurrentMember()
	if !ok {
		return domain.Member{}, errAuthRequired()
	}
	m, err := s.fetchMember(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = s.Logout(ctx)
			return domain.Member{}, errAuthRequired()
		}
		return domain.Member{}, err
	}
	s.setCurrent(&m)
	return m, nil
}

// RestoreSession revives a signed-in state from the session cache. The cached
// record is a hint only: its id must parse and the member must still exist,
// otherwise the slot is cleared and the caller stays signed out.
func (s *Service) RestoreSession(ctx context.Context) (domain.Member, bool, error) {
	cached, ok, err := s.sessions.Load(ctx)
	if err != nil {
		return domain.Member{}, false, err
	}
	if !ok {
		return domain.Member{}, false, nil
	}
	if !domain.ValidID(string(cached.ID)) {
		_ = s.sessions.Clear(ctx)
		return domain.Member{}, false, nil
	}

	m, err := s.fetchMember(ctx, cached.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = s.sessions.Clear(ctx)
			return domain.Member{}, false, nil
		}
		return domain.Member{}, false, err
	}

	s.setCurrent(&m)
	_ = s.sessions.Save(ctx, m)
	return m, true, nil
}

func (s *Service) fetchMember(ctx context.Context, id domain.ID) (domain.Member, error) {
	row, err := s.store.SelectOne(ctx, store.Query{
		From:  "members",
		Where: []store.Clause{store.AnyOf(store.Eq("id", string(id)))},
	})
	if err != nil {
		return domain.Member{}, err
	}
	m := rowToMember(row)
	deps, err := s.loadDependents(ctx, m.ID)
	if err != nil {
		return domain.Member{}, err
	}
	m.Dependents = deps
	return m, nil
}

func (s *Service) loadDependents(ctx context.Context, memberID domain.ID) ([]domain.Dependent, error) {
	rows, err := s.store.Select(ctx, store.Query{
		From:    "dependents",
		Where:   []store.Clause{store.AnyOf(store.Eq("member_id", string(memberID)))},
		OrderBy: []store.Order{{Field: "name"}, {Field: "id"}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Dependent, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToDependent(row))
	}
	return out, nil
}
