package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/MoonieBruva/casino/internal/sessions"
)

const sessionCookieName = "casino_session"

type sessionCtxKey struct{}

type sessionInfo struct {
	ID       string
	Username string
}

// SessionManager issues and validates the session cookie. The cookie value is
// "<id>.<hmac-sha256(id)>" so a forged or tampered identifier never reaches
// the store.
type SessionManager struct {
	store  sessions.Store
	secret []byte
	ttl    time.Duration
}

func NewSessionManager(store sessions.Store, secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue starts a session for username and sets the cookie on the response.
func (sm *SessionManager) Issue(w http.ResponseWriter, username string) {
	id := sm.store.Create(username)

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sm.sign(id),
		Path:     "/",
		MaxAge:   int(sm.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Invalidate drops the session and expires the cookie. Used when a session
// references a username that no longer exists in the store.
func (sm *SessionManager) Invalidate(w http.ResponseWriter, id string) {
	sm.store.Delete(id)

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireLogin rejects requests without a valid, signed, live session and
// makes the session info available to handlers via the request context.
func (sm *SessionManager) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			http.Error(w, "Not logged in", http.StatusUnauthorized)
			return
		}

		id, ok := sm.verify(cookie.Value)
		if !ok {
			http.Error(w, "Not logged in", http.StatusUnauthorized)
			return
		}

		username, ok := sm.store.Get(id)
		if !ok {
			http.Error(w, "Not logged in", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey{}, sessionInfo{
			ID:       id,
			Username: username,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromContext(ctx context.Context) (sessionInfo, bool) {
	info, ok := ctx.Value(sessionCtxKey{}).(sessionInfo)
	return info, ok
}

func (sm *SessionManager) sign(id string) string {
	return id + "." + sm.mac(id)
}

func (sm *SessionManager) verify(value string) (string, bool) {
	id, sig, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", false
	}

	if !hmac.Equal([]byte(sig), []byte(sm.mac(id))) {
		return "", false
	}

	return id, true
}

func (sm *SessionManager) mac(id string) string {
	h := hmac.New(sha256.New, sm.secret)
	h.Write([]byte(id))
	return hex.EncodeToString(h.Sum(nil))
}
