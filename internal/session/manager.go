// Package session owns the login token: it creates it after a successful
// authentication, restores it when a client comes back, and destroys it on
// logout.
//
// Expiry is evaluated only inside Restore. There is no background sweeper and
// no server-side revocation list.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pah-access/internal/model"
)

// StorageKey is the name the token is persisted under.
const StorageKey = "pahAuth"

// DefaultTTL is how long a token stays valid after login.
const DefaultTTL = 24 * time.Hour

var (
	// ErrNoValue is returned by Storage.Get when nothing is stored under the key.
	ErrNoValue = errors.New("no value stored")
	// ErrTampered is returned by Storage.Get when the stored value fails an integrity check.
	ErrTampered = errors.New("stored value failed integrity check")
)

// Storage is a per-client slot for text values, the server-side stand-in for a
// browser tab's session storage.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}

// Manager creates, restores and destroys tokens in a Storage.
type Manager struct {
	ttl time.Duration
	now func() time.Time
}

// NewManager returns a Manager with the given TTL, or DefaultTTL when ttl is not positive.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{ttl: ttl, now: time.Now}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create stamps the login time and persists the token, replacing any previous one.
func (m *Manager) Create(ctx context.Context, st Storage, user model.User) (model.Session, error) {
	tok := model.NewSession(user, m.now().UTC())

	raw, err := json.Marshal(tok)
	if err != nil {
		return model.Session{}, fmt.Errorf("encode session: %w", err)
	}

	if err := st.Set(ctx, StorageKey, string(raw)); err != nil {
		return model.Session{}, fmt.Errorf("persist session: %w", err)
	}

	return tok, nil
}

// Restore returns the persisted token while it is younger than the TTL. An
// expired or unreadable token is removed and reported as no session.
func (m *Manager) Restore(ctx context.Context, st Storage) (model.Session, bool) {
	raw, err := st.Get(ctx, StorageKey)
	switch {
	case errors.Is(err, ErrNoValue):
		return model.Session{}, false
	case errors.Is(err, ErrTampered):
		m.discard(ctx, st, model.ErrSessionMalformed)
		return model.Session{}, false
	case err != nil:
		slog.Warn("session storage unavailable", "error", err)
		return model.Session{}, false
	}

	tok, err := m.check(raw)
	if err != nil {
		m.discard(ctx, st, err)
		return model.Session{}, false
	}

	return tok, true
}

// Destroy clears the persisted token whatever its state.
func (m *Manager) Destroy(ctx context.Context, st Storage) error {
	if err := st.Remove(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (m *Manager) check(raw string) (model.Session, error) {
	var tok model.Session
	if err := json.Unmarshal([]byte(raw), &tok); err != nil {
		return model.Session{}, fmt.Errorf("%w: %v", model.ErrSessionMalformed, err)
	}
	if tok.LoginTime.IsZero() || tok.Username == "" {
		return model.Session{}, model.ErrSessionMalformed
	}

	// strict: a token exactly ttl old is already expired
	if m.now().Sub(tok.LoginTime) >= m.ttl {
		return model.Session{}, model.ErrSessionExpired
	}

	return tok, nil
}

func (m *Manager) discard(ctx context.Context, st Storage, reason error) {
	slog.Debug("discarding session", "reason", reason)
	if err := st.Remove(ctx, StorageKey); err != nil {
		slog.Warn("failed to clear discarded session", "error", err)
	}
}
