package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/MoonieBruva/casino/internal/repos/users"
	"github.com/MoonieBruva/casino/internal/services/accounts"
)

// AccountsService is the surface the HTTP layer needs from the accounts
// service.
type AccountsService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (int64, error)
	GetBalance(ctx context.Context, username string) (int64, error)
	UpdateBalance(ctx context.Context, username string, delta int64) (int64, error)
}

// HandlerProvider wraps the accounts service and session manager and exposes
// HTTP handlers.
type HandlerProvider struct {
	svc      AccountsService
	sessions *SessionManager
}

func NewHandler(svc AccountsService, sessions *SessionManager) *HandlerProvider {
	return &HandlerProvider{svc: svc, sessions: sessions}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateBalanceRequest struct {
	Amount int64 `json:"amount"`
}

// decodeBody unmarshals a JSON body into dst with a size cap; any decode
// failure (including a non-numeric amount) is a client error, not NaN
// propagation.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			http.Error(w, "Empty body", http.StatusBadRequest)
			return false
		}

		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}

	return true
}

// --- Handlers ---

// RegisterHandler handles POST /register.
func (h *HandlerProvider) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.svc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrUserExists) {
			http.Error(w, "User already exists", http.StatusBadRequest)
			return
		}

		slog.Error("register failed", "username", req.Username, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Registered successfully"))
}

// LoginHandler handles POST /login.
func (h *HandlerProvider) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	balance, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		case errors.Is(err, accounts.ErrInvalidPassword):
			http.Error(w, "Incorrect password", http.StatusUnauthorized)
		default:
			slog.Error("login failed", "username", req.Username, "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.sessions.Issue(w, req.Username)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"balance": balance,
	})
}

// GetBalanceHandler handles GET /balance. Requires a session.
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Not logged in", http.StatusUnauthorized)
		return
	}

	balance, err := h.svc.GetBalance(r.Context(), sess.Username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			// The account vanished from the store mid-session.
			h.sessions.Invalidate(w, sess.ID)
			http.Error(w, "Session expired", http.StatusUnauthorized)
			return
		}

		slog.Error("get balance failed", "username", sess.Username, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

// UpdateBalanceHandler handles POST /update-balance. Requires a session.
func (h *HandlerProvider) UpdateBalanceHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Not logged in", http.StatusUnauthorized)
		return
	}

	var req updateBalanceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	balance, err := h.svc.UpdateBalance(r.Context(), sess.Username, req.Amount)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			h.sessions.Invalidate(w, sess.ID)
			http.Error(w, "Session expired", http.StatusUnauthorized)
			return
		}

		slog.Error("update balance failed", "username", sess.Username, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}
