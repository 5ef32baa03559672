package middleware

import (
	"net/http"
	"sync"
)

// InFlight rejects a mutating request while an identical one from the same
// client slot is still being served. Reads are never blocked.
type InFlight struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{active: map[string]struct{}{}}
}

func (g *InFlight) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		key := inFlightKey(r)
		if !g.acquire(key) {
			writeJSONError(w, http.StatusConflict, "BUSY", "an identical request is already in progress")
			return
		}
		defer g.release(key)

		next.ServeHTTP(w, r)
	})
}

func (g *InFlight) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.active[key]; busy {
		return false
	}
	g.active[key] = struct{}{}
	return true
}

func (g *InFlight) release(key string) {
	g.mu.Lock()
	delete(g.active, key)
	g.mu.Unlock()
}

// inFlightKey falls back to the remote address for clients that have no
// slot yet, such as a first login.
func inFlightKey(r *http.Request) string {
	client := TabIDFromContext(r.Context())
	if client == "" {
		client = r.RemoteAddr
	}
	return client + "|" + r.Method + "|" + r.URL.Path
}
