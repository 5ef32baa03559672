package service

import (
	"context"
	"fmt"
	"log/slog"

	"pah-access/internal/event"
	"pah-access/internal/model"
	"pah-access/internal/session"
)

type credentialFinder interface {
	FindByCredentials(ctx context.Context, username string, password string) (model.User, bool)
}

type AuthService struct {
	gateway  credentialFinder
	sessions *session.Manager
	bus      event.Bus
}

func NewAuthService(gateway credentialFinder, sessions *session.Manager, bus event.Bus) *AuthService {
	return &AuthService{gateway: gateway, sessions: sessions, bus: bus}
}

// Authenticate lowercases the username and compares the password byte for
// byte. Unknown users, wrong passwords, ambiguous matches and an unreachable
// store all come back as model.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username string, password string) (model.User, error) {
	username = model.NormalizeUsername(username)
	if username == "" || password == "" {
		return model.User{}, model.ErrInvalidCredentials
	}

	user, ok := s.gateway.FindByCredentials(ctx, username, password)
	if !ok {
		return model.User{}, model.ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates and, on success, persists a new session in st.
func (s *AuthService) Login(ctx context.Context, st session.Storage, username string, password string) (model.Session, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		s.publish(event.TypeLoginRejected, "", map[string]string{"username": model.NormalizeUsername(username)})
		return model.Session{}, err
	}

	tok, err := s.sessions.Create(ctx, st, user)
	if err != nil {
		return model.Session{}, fmt.Errorf("login %q: %w", user.Username, err)
	}

	slog.Info("login succeeded", "username", tok.Username, "role", tok.Role)
	s.publish(event.TypeSessionCreated, tok.Username, map[string]string{"role": string(tok.Role)})
	return tok, nil
}

// Restore returns the session persisted in st, if it is still valid.
func (s *AuthService) Restore(ctx context.Context, st session.Storage) (model.Session, bool) {
	return s.sessions.Restore(ctx, st)
}

func (s *AuthService) Logout(ctx context.Context, st session.Storage, actor string) error {
	if err := s.sessions.Destroy(ctx, st); err != nil {
		return err
	}

	s.publish(event.TypeSessionDestroyed, actor, nil)
	return nil
}

func (s *AuthService) publish(typ event.Type, actor string, payload any) {
	if s.bus != nil {
		s.bus.Publish(event.New(typ, actor, payload))
	}
}
