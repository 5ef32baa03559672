package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pah-access/internal/access"
	"pah-access/internal/event"
	"pah-access/internal/model"
	"pah-access/internal/session"
)

func newSessionMiddleware(t *testing.T, bus event.Bus) (*SessionMiddleware, *session.MemoryStorage, *session.Manager) {
	t.Helper()

	backend := session.NewMemoryStorage()
	manager := session.NewManager(session.DefaultTTL)
	m := NewSessionMiddleware(session.NewTabBinder(backend, false), manager, access.NewPolicy(), bus)
	return m, backend, manager
}

// loginTab persists a session for a fresh tab and returns the tab cookie.
func loginTab(t *testing.T, backend session.Storage, manager *session.Manager, user model.User) *http.Cookie {
	t.Helper()

	tabID := "6f1c1c56-9a43-4a39-9d6e-6b0a2c1b1f10"
	_, err := manager.Create(context.Background(), session.TabStorage(backend, tabID), user)
	require.NoError(t, err)
	return &http.Cookie{Name: session.TabCookieName, Value: tabID}
}

func TestSessionMiddleware_Restore(t *testing.T) {
	t.Parallel()

	m, backend, manager := newSessionMiddleware(t, nil)
	cookie := loginTab(t, backend, manager, model.User{Username: "bob", Name: "Bob", Role: model.RoleUser})

	var (
		got   model.Session
		found bool
		tabID string
	)
	handler := m.Restore(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = SessionFromContext(r.Context())
		tabID = TabIDFromContext(r.Context())
		_, hasStorage := StorageFromContext(r.Context())
		assert.True(t, hasStorage)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req.AddCookie(cookie)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, found)
	require.Equal(t, "bob", got.Username)
	require.Equal(t, cookie.Value, tabID)
}

func TestSessionMiddleware_RequireSession(t *testing.T) {
	t.Parallel()

	m, _, _ := newSessionMiddleware(t, nil)
	called := false
	handler := m.Restore(m.RequireSession(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil))

	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"UNAUTHORIZED"`)
}

func TestSessionMiddleware_RequireAdminPanel(t *testing.T) {
	t.Parallel()

	bus := event.NewBus()
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	m, backend, manager := newSessionMiddleware(t, bus)
	cookie := loginTab(t, backend, manager, model.User{Username: "bob", Role: model.RoleUser})

	handler := m.Restore(m.RequireSession(m.RequireAdminPanel(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("non-admin reached the admin panel")
	}))))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)

	select {
	case e := <-events:
		require.Equal(t, event.TypeAccessRefused, e.Type)
		require.Equal(t, "bob", e.ActorID)
	case <-time.After(time.Second):
		t.Fatal("refusal was not published")
	}
}

func TestInFlight_RejectsDuplicateMutation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	entered := make(chan struct{})
	var enteredOnce sync.Once
	guard := NewInFlight()
	handler := guard.Guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			enteredOnce.Do(func() { close(entered) })
			<-release
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	var wg sync.WaitGroup
	first := httptest.NewRecorder()
	wg.Add(1)
	go func() {
		defer wg.Done()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodDelete, "/slow", nil))
	}()
	<-entered

	dup := httptest.NewRecorder()
	handler.ServeHTTP(dup, httptest.NewRequest(http.MethodDelete, "/slow", nil))
	require.Equal(t, http.StatusConflict, dup.Code)
	require.Contains(t, dup.Body.String(), `"code":"BUSY"`)

	other := httptest.NewRecorder()
	handler.ServeHTTP(other, httptest.NewRequest(http.MethodDelete, "/other", nil))
	require.Equal(t, http.StatusNoContent, other.Code)

	close(release)
	wg.Wait()
	require.Equal(t, http.StatusNoContent, first.Code)

	again := httptest.NewRecorder()
	handler.ServeHTTP(again, httptest.NewRequest(http.MethodDelete, "/slow", nil))
	require.Equal(t, http.StatusNoContent, again.Code)
}

func TestInFlight_ReadsAreNotGuarded(t *testing.T) {
	t.Parallel()

	guard := NewInFlight()
	require.True(t, guard.acquire("192.0.2.1:1234|GET|/api/v1/admin/users"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	guard.Guard(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"INTERNAL_ERROR"`)
}

func TestLogging_SetsRequestID(t *testing.T) {
	t.Parallel()

	var annotated bool
	handler := Logging(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		annotateUser(r.Context(), "bob")
		entry, ok := r.Context().Value(requestEntryKey).(*requestEntry)
		annotated = ok && entry.username == "bob"
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-1")
	handler.ServeHTTP(rec, req)

	require.True(t, annotated)
	require.Equal(t, "req-1", rec.Header().Get(requestIDHeader))
}
