// Package e2etests exercises a running instance of the API over HTTP.
// Start the service (and a migrated Postgres) first, then:
//
//	go test ./e2e_tests/
package e2etests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"testing"
	"time"
)

const (
	timeout   = 5 * time.Second
	waitReady = 20 * time.Second
)

func baseURL() string {
	if u := os.Getenv("E2E_BASE_URL"); u != "" {
		return u
	}
	return "http://localhost:3000"
}

// newClient returns a client with its own cookie jar, i.e. its own session.
func newClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: timeout}
}

func uniqUsername(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func TestE2E_RegisterLoginBalanceFlow(t *testing.T) {
	waitUntilReady(t)

	client := newClient(t)
	username := uniqUsername("alice")

	t.Run("register_new_user", func(t *testing.T) {
		code, body := postJSON(t, client, "/register", credentials(username, "pw1"))
		if code != http.StatusOK {
			t.Fatalf("register: want 200, got %d (%s)", code, body)
		}
		if body != "Registered successfully" {
			t.Fatalf("register body: got %q", body)
		}
	})

	t.Run("register_duplicate_conflicts", func(t *testing.T) {
		code, body := postJSON(t, client, "/register", credentials(username, "pw2"))
		if code != http.StatusBadRequest {
			t.Fatalf("duplicate register: want 400, got %d (%s)", code, body)
		}
		if strings.TrimSpace(body) != "User already exists" {
			t.Fatalf("duplicate register body: got %q", body)
		}
	})

	t.Run("login_wrong_password", func(t *testing.T) {
		code, body := postJSON(t, client, "/login", credentials(username, "nope"))
		if code != http.StatusUnauthorized {
			t.Fatalf("bad login: want 401, got %d (%s)", code, body)
		}
	})

	t.Run("login_unknown_user", func(t *testing.T) {
		code, body := postJSON(t, client, "/login", credentials(uniqUsername("ghost"), "pw"))
		if code != http.StatusNotFound {
			t.Fatalf("unknown login: want 404, got %d (%s)", code, body)
		}
	})

	t.Run("login_returns_starting_balance", func(t *testing.T) {
		code, body := postJSON(t, client, "/login", credentials(username, "pw1"))
		if code != http.StatusOK {
			t.Fatalf("login: want 200, got %d (%s)", code, body)
		}

		var payload struct {
			Message string `json:"message"`
			Balance int64  `json:"balance"`
		}
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			t.Fatalf("decode login response: %v (%s)", err, body)
		}
		if payload.Balance != 1000 {
			t.Fatalf("starting balance: want 1000, got %d", payload.Balance)
		}
		if strings.Contains(body, "$2a$") {
			t.Fatalf("login response leaks password hash: %s", body)
		}
	})

	t.Run("get_balance", func(t *testing.T) {
		if got := getBalance(t, client); got != 1000 {
			t.Fatalf("balance: want 1000, got %d", got)
		}
	})

	t.Run("update_balance_positive", func(t *testing.T) {
		if got := updateBalance(t, client, 250); got != 1250 {
			t.Fatalf("after +250: want 1250, got %d", got)
		}
	})

	t.Run("update_balance_overdraw_clamps", func(t *testing.T) {
		if got := updateBalance(t, client, -5000); got != 0 {
			t.Fatalf("after -5000: want 0, got %d", got)
		}
	})
}

func TestE2E_SequentialUpdatesAccumulate(t *testing.T) {
	waitUntilReady(t)

	client := newClient(t)
	username := uniqUsername("bob")

	mustRegisterAndLogin(t, client, username, "pw")

	if got := updateBalance(t, client, 500); got != 1500 {
		t.Fatalf("after first +500: want 1500, got %d", got)
	}
	if got := updateBalance(t, client, 500); got != 2000 {
		t.Fatalf("after second +500: want 2000, got %d", got)
	}
}

func TestE2E_UnauthenticatedRequestsRejected(t *testing.T) {
	waitUntilReady(t)

	client := newClient(t) // fresh jar, no session

	code, body := getRaw(t, client, "/balance")
	if code != http.StatusUnauthorized {
		t.Fatalf("balance without login: want 401, got %d (%s)", code, body)
	}
	if strings.TrimSpace(body) != "Not logged in" {
		t.Fatalf("balance without login body: got %q", body)
	}

	code, _ = postJSON(t, client, "/update-balance", map[string]int64{"amount": 500})
	if code != http.StatusUnauthorized {
		t.Fatalf("update without login: want 401, got %d", code)
	}
}

func TestE2E_SessionsAreIndependent(t *testing.T) {
	waitUntilReady(t)

	alice := newClient(t)
	mallory := newClient(t)

	username := uniqUsername("carol")
	mustRegisterAndLogin(t, alice, username, "pw")

	// A second client without the cookie cannot read the balance.
	code, _ := getRaw(t, mallory, "/balance")
	if code != http.StatusUnauthorized {
		t.Fatalf("other client: want 401, got %d", code)
	}
}

/* -------------------- helpers -------------------- */

func credentials(username, password string) map[string]string {
	return map[string]string{"username": username, "password": password}
}

func mustRegisterAndLogin(t *testing.T, client *http.Client, username, password string) {
	t.Helper()

	code, body := postJSON(t, client, "/register", credentials(username, password))
	if code != http.StatusOK {
		t.Fatalf("register %s: want 200, got %d (%s)", username, code, body)
	}
	code, body = postJSON(t, client, "/login", credentials(username, password))
	if code != http.StatusOK {
		t.Fatalf("login %s: want 200, got %d (%s)", username, code, body)
	}
}

func getBalance(t *testing.T, client *http.Client) int64 {
	t.Helper()

	code, body := getRaw(t, client, "/balance")
	if code != http.StatusOK {
		t.Fatalf("GET /balance: want 200, got %d (%s)", code, body)
	}

	var payload struct {
		Balance int64 `json:"balance"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode balance: %v (%s)", err, body)
	}
	return payload.Balance
}

func updateBalance(t *testing.T, client *http.Client, amount int64) int64 {
	t.Helper()

	code, body := postJSON(t, client, "/update-balance", map[string]int64{"amount": amount})
	if code != http.StatusOK {
		t.Fatalf("POST /update-balance: want 200, got %d (%s)", code, body)
	}

	var payload struct {
		Balance int64 `json:"balance"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode update response: %v (%s)", err, body)
	}
	return payload.Balance
}

func postJSON(t *testing.T, client *http.Client, path string, body any) (int, string) {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	resp, err := client.Post(baseURL()+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func getRaw(t *testing.T, client *http.Client, path string) (int, string) {
	t.Helper()

	resp, err := client.Get(baseURL() + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

// waitUntilReady polls /healthz until the service responds or the deadline
// passes.
func waitUntilReady(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), waitReady)
	defer cancel()

	client := &http.Client{Timeout: timeout}
	u := baseURL() + "/healthz"

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("service not ready at %s within %s", u, waitReady)
		case <-tick.C:
			resp, err := client.Get(u)
			if err != nil {
				continue
			}
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
	}
}
