// Package sessions holds the server-side mapping from a cookie-borne session
// identifier to the logged-in username.
package sessions

// Store is injected into the HTTP layer so the in-memory implementation can
// be swapped for a distributed one without touching handler logic.
type Store interface {
	// Create starts a session for username and returns its identifier.
	// A user may hold several sessions at once.
	Create(username string) string
	// Get resolves a session identifier to a username. The second return is
	// false for unknown or expired sessions.
	Get(id string) (string, bool)
	Delete(id string)
}
