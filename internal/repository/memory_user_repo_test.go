package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pah-access/internal/model"
)

func newTestMemoryRepo() *MemoryUserRepository {
	repo := NewMemoryUserRepository()
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return repo
}

func TestMemoryUserRepository_CreateThenList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestMemoryRepo()

	_, err := repo.Create(ctx, model.CreateUserData{Username: "admin", Password: "correct", Role: model.RoleAdmin, Name: "Admin"})
	require.NoError(t, err)
	created, err := repo.Create(ctx, model.CreateUserData{Username: "bob", Password: " P@ss word ", Role: model.RoleUser, Name: "Bob"})
	require.NoError(t, err)
	require.Equal(t, int64(2), created.ID)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	// newest first
	require.Equal(t, "bob", users[0].Username)
	require.Equal(t, "admin", users[1].Username)
	require.Equal(t, model.RoleUser, users[0].Role)
	require.Equal(t, "Bob", users[0].Name)
	require.Equal(t, " P@ss word ", users[0].Password)
}

func TestMemoryUserRepository_RejectsDuplicateUsername(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestMemoryRepo()

	_, err := repo.Create(ctx, model.CreateUserData{Username: "bob", Password: "x", Role: model.RoleUser, Name: "Bob"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, model.CreateUserData{Username: "bob", Password: "y", Role: model.RoleUser, Name: "Bobby"})
	require.ErrorIs(t, err, model.ErrUserAlreadyExists)
}

func TestMemoryUserRepository_FindByCredentials(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestMemoryRepo()
	_, err := repo.Create(ctx, model.CreateUserData{Username: "admin", Password: "correct", Role: model.RoleAdmin, Name: "Admin"})
	require.NoError(t, err)

	u, err := repo.FindByCredentials(ctx, "admin", "correct")
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, u.Role)

	_, err = repo.FindByCredentials(ctx, "admin", "Correct")
	require.ErrorIs(t, err, model.ErrUserNotFound)

	_, err = repo.FindByCredentials(ctx, "nobody", "correct")
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestMemoryUserRepository_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestMemoryRepo()
	created, err := repo.Create(ctx, model.CreateUserData{Username: "bob", Password: "old", Role: model.RoleUser, Name: "Bob"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateUser(ctx, "bob", "interim", "Robert"))
	require.NoError(t, repo.UpdateUser(ctx, "bob", "new", ""))
	require.ErrorIs(t, repo.UpdateUser(ctx, "carol", "new", "Carol"), model.ErrUserNotFound)

	u, err := repo.FindByCredentials(ctx, "bob", "new")
	require.NoError(t, err)
	require.Equal(t, "Robert", u.Name)
	require.True(t, u.UpdatedAt.After(created.UpdatedAt))

	require.NoError(t, repo.Delete(ctx, "bob"))
	require.NoError(t, repo.Delete(ctx, "bob"))

	exists, err := repo.Exists(ctx, "bob")
	require.NoError(t, err)
	require.False(t, exists)
}
