package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Backend is a canned ledger API for integration tests. Routes are keyed by
// "METHOD /path"; unmatched requests return 404 and are recorded so a test
// can assert nothing unexpected was called.
type Backend struct {
	mu        sync.Mutex
	routes    map[string]interface{}
	statuses  map[string]int
	requests  []string
	unmatched []string
	srv       *httptest.Server
}

// NewBackend starts a fixture server. Close is registered on the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		routes:   map[string]interface{}{},
		statuses: map[string]int{},
	}
	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.srv.Close)
	b.Handle("GET /api/ping", map[string]string{"status": "ok"})
	return b
}

// URL returns the server base URL.
func (b *Backend) URL() string { return b.srv.URL }

// Handle registers a canned JSON body for "METHOD /path".
func (b *Backend) Handle(route string, body interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[route] = body
}

// HandleStatus registers a bare status code for "METHOD /path".
func (b *Backend) HandleStatus(route string, status int, body interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[route] = body
	b.statuses[route] = status
}

// Requests returns every "METHOD /path" seen, in order.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.requests))
	copy(out, b.requests)
	return out
}

// Unmatched returns requests that hit no registered route.
func (b *Backend) Unmatched() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.unmatched))
	copy(out, b.unmatched)
	return out
}

// CountRequests returns how many times a route was hit.
func (b *Backend) CountRequests(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, seen := range b.requests {
		if seen == route {
			n++
		}
	}
	return n
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	b.mu.Lock()
	b.requests = append(b.requests, route)
	body, ok := b.routes[route]
	status := b.statuses[route]
	if !ok {
		b.unmatched = append(b.unmatched, route)
	}
	b.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}
