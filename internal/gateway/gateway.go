// Package gateway is the boundary to the user store. Every failure is logged
// and turned into a boolean or a missing value; nothing raised by the store
// crosses this boundary.
package gateway

import (
	"context"
	"errors"
	"log/slog"

	"pah-access/internal/access"
	"pah-access/internal/event"
	"pah-access/internal/model"
)

// Store is implemented by repository.UserRepository and repository.MemoryUserRepository.
type Store interface {
	FindByCredentials(ctx context.Context, username string, password string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, data model.CreateUserData) (model.User, error)
	UpdateUser(ctx context.Context, username string, password string, name string) error
	Delete(ctx context.Context, username string) error
	Exists(ctx context.Context, username string) (bool, error)
	Ping(ctx context.Context) error
}

type Gateway struct {
	store  Store
	policy *access.Policy
	bus    event.Bus
}

// New wraps store. bus may be nil.
func New(store Store, policy *access.Policy, bus event.Bus) *Gateway {
	return &Gateway{store: store, policy: policy, bus: bus}
}

func (g *Gateway) FindByCredentials(ctx context.Context, username string, password string) (model.User, bool) {
	u, err := g.store.FindByCredentials(ctx, username, password)
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			g.fail("find_by_credentials", err)
		}
		return model.User{}, false
	}
	return u, true
}

// ListAll returns every user, most recently created first.
func (g *Gateway) ListAll(ctx context.Context) ([]model.User, bool) {
	users, err := g.store.List(ctx)
	if err != nil {
		g.fail("list_all", err)
		return nil, false
	}
	return users, true
}

func (g *Gateway) Insert(ctx context.Context, data model.CreateUserData) (model.User, bool) {
	u, err := g.store.Create(ctx, data)
	if err != nil {
		g.fail("insert", err, "username", data.Username)
		return model.User{}, false
	}
	return u, true
}

func (g *Gateway) UpdatePassword(ctx context.Context, username string, newPassword string) bool {
	return g.UpdateUser(ctx, username, newPassword, "")
}

// UpdateUser writes the password and, when name is not empty, the name in a
// single store call.
func (g *Gateway) UpdateUser(ctx context.Context, username string, password string, name string) bool {
	if err := g.store.UpdateUser(ctx, username, password, name); err != nil {
		g.fail("update_user", err, "username", username)
		return false
	}
	return true
}

// Delete refuses the protected account without touching the store.
func (g *Gateway) Delete(ctx context.Context, username string) bool {
	if g.policy.IsProtected(username) {
		slog.Warn("refusing to delete protected user", "username", username)
		return false
	}

	if err := g.store.Delete(ctx, username); err != nil {
		g.fail("delete", err, "username", username)
		return false
	}
	return true
}

// Exists reports false when the store cannot be queried.
func (g *Gateway) Exists(ctx context.Context, username string) bool {
	exists, err := g.store.Exists(ctx, username)
	if err != nil {
		g.fail("exists", err, "username", username)
		return false
	}
	return exists
}

func (g *Gateway) Ping(ctx context.Context) bool {
	return g.store.Ping(ctx) == nil
}

func (g *Gateway) fail(op string, err error, attrs ...any) {
	slog.Error("user store operation failed", append([]any{"op", op, "error", err}, attrs...)...)
	if g.bus != nil {
		g.bus.Publish(event.New(event.TypeStoreFailed, "", map[string]string{"op": op}))
	}
}
