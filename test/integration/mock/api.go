// Package mock provides test doubles for the integration suite.
package mock

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Upstream mocks the remote Finance Tracker API. It keeps the records it is
// seeded with plus everything POSTed to it, and can be flipped offline to
// simulate an unreachable server.
type Upstream struct {
	mu           sync.Mutex
	server       *httptest.Server
	available    bool
	nextID       int
	transactions []map[string]any
	clients      []map[string]any
}

// NewUpstream starts the mock server, initially reachable.
func NewUpstream() *Upstream {
	u := &Upstream{available: true}
	u.server = httptest.NewServer(http.HandlerFunc(u.handle))
	return u
}

// URL returns the mock server's base URL.
func (u *Upstream) URL() string {
	return u.server.URL
}

// Close shuts the mock server down.
func (u *Upstream) Close() {
	u.server.Close()
}

// SetAvailable flips the server between reachable and a 503 wall.
func (u *Upstream) SetAvailable(available bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.available = available
}

// AddTransaction seeds a server-side transaction record.
func (u *Upstream) AddTransaction(record map[string]any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if record["id"] == nil {
		record["id"] = u.assignID()
	}
	u.transactions = append(u.transactions, record)
}

// AddClient seeds a server-side client record.
func (u *Upstream) AddClient(record map[string]any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if record["id"] == nil {
		record["id"] = u.assignID()
	}
	u.clients = append(u.clients, record)
}

// TransactionCount reports how many transaction records the server holds.
func (u *Upstream) TransactionCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.transactions)
}

func (u *Upstream) assignID() string {
	u.nextID++
	return fmt.Sprintf("srv-%d", u.nextID)
}

func (u *Upstream) handle(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.available {
		http.Error(w, `{"error":"service unavailable"}`, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && path == "/auth/me":
		u.respond(w, map[string]any{"id": "usr-1", "name": "Test User", "email": "test@example.com"})

	case r.Method == http.MethodGet && path == "/transactions":
		u.respond(w, u.transactions)

	case r.Method == http.MethodPost && path == "/transactions":
		record := u.readBody(r)
		record["id"] = u.assignID()
		u.transactions = append(u.transactions, record)
		w.WriteHeader(http.StatusCreated)
		u.respond(w, record)

	case r.Method == http.MethodGet && path == "/clients":
		u.respond(w, u.clients)

	case r.Method == http.MethodPost && path == "/clients":
		record := u.readBody(r)
		record["id"] = u.assignID()
		u.clients = append(u.clients, record)
		w.WriteHeader(http.StatusCreated)
		u.respond(w, record)

	case r.Method == http.MethodPut && strings.HasPrefix(path, "/clients/"):
		record := u.readBody(r)
		record["id"] = strings.TrimPrefix(path, "/clients/")
		for i, client := range u.clients {
			if client["id"] == record["id"] {
				u.clients[i] = record
			}
		}
		u.respond(w, record)

	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/clients/"):
		id := strings.TrimPrefix(path, "/clients/")
		kept := u.clients[:0]
		for _, client := range u.clients {
			if client["id"] != id {
				kept = append(kept, client)
			}
		}
		u.clients = kept
		w.WriteHeader(http.StatusNoContent)

	case r.Method == http.MethodGet && strings.HasPrefix(path, "/analytics/"):
		u.respond(w, map[string]any{"feed": strings.TrimPrefix(path, "/analytics/"), "total": len(u.transactions)})

	default:
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}
}

func (u *Upstream) respond(w http.ResponseWriter, payload any) {
	if payload == nil {
		payload = []any{}
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func (u *Upstream) readBody(r *http.Request) map[string]any {
	body, _ := io.ReadAll(r.Body)
	record := map[string]any{}
	_ = json.Unmarshal(body, &record)
	return record
}
