package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"pah-access/internal/model"
)

// MemoryUserRepository keeps users in process memory with the same ordering
// and uniqueness rules as the users table.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[string]model.User
	now    func() time.Time
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		nextID: 1,
		users:  map[string]model.User{},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryUserRepository) FindByCredentials(_ context.Context, username string, password string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok || u.Password != password {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) List(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	r.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.After(users[j].CreatedAt)
		}
		return users[i].ID > users[j].ID
	})
	return users, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, data model.CreateUserData) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[data.Username]; exists {
		return model.User{}, fmt.Errorf("create user %q: %w", data.Username, model.ErrUserAlreadyExists)
	}

	now := r.now()
	u := model.User{
		ID:        r.nextID,
		Username:  data.Username,
		Password:  data.Password,
		Role:      data.Role,
		Name:      data.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.nextID++
	r.users[u.Username] = u
	return u, nil
}

func (r *MemoryUserRepository) UpdateUser(_ context.Context, username string, password string, name string) error {
	return r.update(username, func(u *model.User) {
		u.Password = password
		if name != "" {
			u.Name = name
		}
	})
}

func (r *MemoryUserRepository) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	delete(r.users, username)
	r.mu.Unlock()
	return nil
}

func (r *MemoryUserRepository) Exists(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[username]
	return ok, nil
}

func (r *MemoryUserRepository) Ping(context.Context) error {
	return nil
}

func (r *MemoryUserRepository) update(username string, apply func(u *model.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return model.ErrUserNotFound
	}
	apply(&u)
	u.UpdatedAt = r.now()
	r.users[username] = u
	return nil
}
