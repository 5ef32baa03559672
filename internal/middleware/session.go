package middleware

import (
	"context"
	"net/http"

	"pah-access/internal/access"
	"pah-access/internal/event"
	"pah-access/internal/model"
	"pah-access/internal/session"
)

type sessionRestorer interface {
	Restore(ctx context.Context, st session.Storage) (model.Session, bool)
}

type contextKey string

const (
	storageContextKey contextKey = "session_storage"
	tabIDContextKey   contextKey = "session_tab"
	sessionContextKey contextKey = "session"
	requestEntryKey   contextKey = "request_entry"
)

// SessionMiddleware restores the caller's session on every request, the
// server side equivalent of an application load.
type SessionMiddleware struct {
	binder   session.Binder
	sessions sessionRestorer
	policy   *access.Policy
	bus      event.Bus
}

func NewSessionMiddleware(binder session.Binder, sessions sessionRestorer, policy *access.Policy, bus event.Bus) *SessionMiddleware {
	return &SessionMiddleware{binder: binder, sessions: sessions, policy: policy, bus: bus}
}

// Restore binds the request to its token storage and, when a valid token is
// persisted there, attaches the session. Expired or malformed tokens are
// discarded by the session manager; the request continues without a session.
func (m *SessionMiddleware) Restore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, tabID := m.binder.Bind(w, r)

		ctx := context.WithValue(r.Context(), storageContextKey, st)
		ctx = context.WithValue(ctx, tabIDContextKey, tabID)

		if tok, ok := m.sessions.Restore(ctx, st); ok {
			ctx = context.WithValue(ctx, sessionContextKey, tok)
			annotateUser(ctx, tok.Username)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdminPanel gates the admin panel routes. It expects RequireSession
// to have run.
func (m *SessionMiddleware) RequireAdminPanel(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, _ := SessionFromContext(r.Context())
		if !m.policy.CanOpenAdminPanel(tok) {
			if m.bus != nil {
				m.bus.Publish(event.New(event.TypeAccessRefused, tok.Username,
					access.NewRefusal(access.ActionOpenAdminPanel, tok, "")))
			}
			writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func StorageFromContext(ctx context.Context) (session.Storage, bool) {
	st, ok := ctx.Value(storageContextKey).(session.Storage)
	return st, ok
}

func TabIDFromContext(ctx context.Context) string {
	tabID, _ := ctx.Value(tabIDContextKey).(string)
	return tabID
}

func SessionFromContext(ctx context.Context) (model.Session, bool) {
	tok, ok := ctx.Value(sessionContextKey).(model.Session)
	return tok, ok
}
