package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the router with all API endpoints registered.
func NewRouter(svc AccountsService, sessions *SessionManager) http.Handler {
	h := NewHandler(svc, sessions)
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger)
	r.Use(corsHeaders)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/register", h.RegisterHandler)
	r.Post("/login", h.LoginHandler)

	r.Group(func(pr chi.Router) {
		pr.Use(sessions.RequireLogin)
		pr.Get("/balance", h.GetBalanceHandler)
		pr.Post("/update-balance", h.UpdateBalanceHandler)
	})

	return r
}
