package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/nullable"

	"github.com/keralasamajam/community-hub/internal/app/community"
	"github.com/keralasamajam/community-hub/internal/domain"
)

type server struct {
	svc *community.Service
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type dependentRequest struct {
	Name   string                    `json:"name"`
	Age    nullable.Nullable[int]    `json:"age,omitempty"`
	School nullable.Nullable[string] `json:"school,omitempty"`
}

type registerRequest struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	Password   string `json:"password"`
	Country    string `json:"country"`
	Occupation string `json:"occupation"`

	SpouseName nullable.Nullable[string] `json:"spouseName,omitempty"`
	Address    nullable.Nullable[string] `json:"address,omitempty"`
	District   nullable.Nullable[string] `json:"district,omitempty"`
	Pincode    nullable.Nullable[string] `json:"pincode,omitempty"`

	Dependents []dependentRequest `json:"dependents,omitempty"`
}

type bookRequest struct {
	Adults int `json:"adults"`
	Kids   int `json:"kids"`
}

type dependentResponse struct {
	Id     string  `json:"id"`
	Name   string  `json:"name"`
	Age    *int    `json:"age,omitempty"`
	School *string `json:"school,omitempty"`
}

type memberResponse struct {
	Id         string  `json:"id"`
	FullName   string  `json:"fullName"`
	Email      string  `json:"email"`
	Mobile     string  `json:"mobile"`
	Country    string  `json:"country,omitempty"`
	Occupation string  `json:"occupation,omitempty"`
	SpouseName *string `json:"spouseName,omitempty"`
	Address    *string `json:"address,omitempty"`
	District   *string `json:"district,omitempty"`
	Pincode    *string `json:"pincode,omitempty"`
	CreatedAt  string  `json:"createdAt"`

	Dependents []dependentResponse `json:"dependents"`
}

type eventResponse struct {
	Id          string  `json:"id"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	Venue       string  `json:"venue"`
	AdultRate   float64 `json:"adultRate"`
	KidsRate    float64 `json:"kidsRate"`
	Description string  `json:"description,omitempty"`
}

type registrationResponse struct {
	Id           string  `json:"id"`
	EventId      string  `json:"eventId"`
	EventName    string  `json:"eventName"`
	EventDate    string  `json:"eventDate"`
	EventVenue   string  `json:"eventVenue"`
	Adults       int     `json:"adults"`
	Kids         int     `json:"kids"`
	TotalAmount  float64 `json:"totalAmount"`
	PaidAmount   float64 `json:"paidAmount"`
	Status       string  `json:"status"`
	RegisteredAt string  `json:"registeredAt"`
}

type searchResponse struct {
	Performed bool             `json:"performed"`
	Members   []memberResponse `json:"members"`
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}
	m, err := s.svc.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponse(m))
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Logout(r.Context()); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	in := community.RegisterInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Mobile:     req.Mobile,
		Password:   req.Password,
		Country:    req.Country,
		Occupation: req.Occupation,
		SpouseName: nullableString(req.SpouseName),
		Address:    nullableString(req.Address),
		District:   nullableString(req.District),
		Pincode:    nullableString(req.Pincode),
	}
	for _, d := range req.Dependents {
		in.Dependents = append(in.Dependents, community.DependentInput{
			Name:   d.Name,
			Age:    nullableInt(d.Age),
			School: nullableString(d.School),
		})
	}

	m, err := s.svc.Register(r.Context(), in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMemberResponse(m))
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.SearchMembers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := searchResponse{Performed: res.Performed, Members: make([]memberResponse, 0, len(res.Members))}
	for _, m := range res.Members {
		out.Members = append(out.Members, toMemberResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.svc.Events(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse{
			Id:          string(e.ID),
			Name:        e.Name,
			Date:        e.Date,
			Venue:       e.Venue,
			AdultRate:   e.AdultRate,
			KidsRate:    e.KidsRate,
			Description: e.Description,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleBookEvent(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}
	eventID := domain.ID(chi.URLParam(r, "eventID"))
	reg, err := s.svc.BookEvent(r.Context(), eventID, req.Adults, req.Kids)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRegistrationResponse(reg))
}

func (s *server) handleProfile(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.Profile(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponse(m))
}

func (s *server) handleMyRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := s.svc.MyRegistrations(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]registrationResponse, 0, len(regs))
	for _, reg := range regs {
		out = append(out, toRegistrationResponse(reg))
	}
	writeJSON(w, http.StatusOK, out)
}

func toMemberResponse(m domain.Member) memberResponse {
	out := memberResponse{
		Id:         string(m.ID),
		FullName:   m.FullName,
		Email:      m.Email,
		Mobile:     m.Mobile,
		Country:    m.Country,
		Occupation: m.Occupation,
		SpouseName: m.SpouseName,
		Address:    m.Address,
		District:   m.District,
		Pincode:    m.Pincode,
		CreatedAt:  m.CreatedAt.UTC().Format(time.RFC3339Nano),
		Dependents: make([]dependentResponse, 0, len(m.Dependents)),
	}
	for _, d := range m.Dependents {
		out.Dependents = append(out.Dependents, dependentResponse{
			Id:     string(d.ID),
			Name:   d.Name,
			Age:    d.Age,
			School: d.School,
		})
	}
	return out
}

func toRegistrationResponse(reg domain.Registration) registrationResponse {
	return registrationResponse{
		Id:           string(reg.ID),
		EventId:      string(reg.EventID),
		EventName:    reg.EventName,
		EventDate:    reg.EventDate,
		EventVenue:   reg.EventVenue,
		Adults:       reg.Adults,
		Kids:         reg.Kids,
		TotalAmount:  reg.TotalAmount,
		PaidAmount:   reg.PaidAmount,
		Status:       reg.Status,
		RegisteredAt: reg.RegisteredAt.UTC().Format(time.RFC3339Nano),
	}
}

func nullableString(n nullable.Nullable[string]) *string {
	if !n.IsSpecified() || n.IsNull() {
		return nil
	}
	v, err := n.Get()
	if err != nil {
		return nil
	}
	return &v
}

func nullableInt(n nullable.Nullable[int]) *int {
	if !n.IsSpecified() || n.IsNull() {
		return nil
	}
	v, err := n.Get()
	if err != nil {
		return nil
	}
	return &v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
