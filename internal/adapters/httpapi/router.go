// Package httpapi exposes the application core over HTTP. It is a thin
// adapter: decode, delegate, encode; all rules live in internal/app.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/keralasamajam/community-hub/internal/app/community"
)

// NewRouter constructs the API HTTP router.
func NewRouter(svc *community.Service) http.Handler {
	s := &server{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoint for infra checks.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)

	r.Post("/members", s.handleRegister)
	r.Get("/members/search", s.handleSearch)

	r.Get("/events", s.handleListEvents)
	r.Post("/events/{eventID}/registrations", s.handleBookEvent)

	r.Get("/me", s.handleProfile)
	r.Get("/me/registrations", s.handleMyRegistrations)

	return r
}
