package view

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pah-access/internal/access"
	"pah-access/internal/model"
)

func TestBuildDirectory(t *testing.T) {
	t.Parallel()

	users := []model.User{
		{ID: 3, Username: "carol", Password: "c-pass", Role: model.RoleUser, Name: "Carol"},
		{ID: 2, Username: "bob", Password: "b-pass", Role: model.RoleUser, Name: "Bob"},
		{ID: 1, Username: "admin", Password: "correct", Role: model.RoleAdmin, Name: "Admin"},
	}
	viewer := model.Session{Username: "admin", Role: model.RoleAdmin}

	dir := BuildDirectory(users, viewer, access.NewPolicy(), []string{"BOB", "admin"})

	require.Equal(t, model.UserStats{Total: 3, Admins: 1, Users: 2}, dir.Stats)
	require.Len(t, dir.Users, 3)

	carol, bob, admin := dir.Users[0], dir.Users[1], dir.Users[2]
	require.Equal(t, PasswordMask, carol.Password)
	require.False(t, carol.PasswordVisible)
	require.Equal(t, "b-pass", bob.Password)
	require.True(t, bob.PasswordVisible)
	require.Equal(t, "correct", admin.Password)

	require.True(t, bob.Deletable)
	require.True(t, bob.Editable)
	require.False(t, admin.Deletable)
	require.True(t, admin.Editable)
}

func TestBuildDirectory_NonAdminNeverSeesPasswords(t *testing.T) {
	t.Parallel()

	users := []model.User{{ID: 1, Username: "bob", Password: "b-pass", Role: model.RoleUser}}
	viewer := model.Session{Username: "bob", Role: model.RoleUser}

	dir := BuildDirectory(users, viewer, access.NewPolicy(), []string{"bob"})

	require.Equal(t, PasswordMask, dir.Users[0].Password)
	require.False(t, dir.Users[0].Editable)
	require.False(t, dir.Users[0].Deletable)
}

func TestBuildDirectory_EmptyListEncodesAsArray(t *testing.T) {
	t.Parallel()

	dir := BuildDirectory(nil, model.Session{Role: model.RoleAdmin}, access.NewPolicy(), nil)
	require.NotNil(t, dir.Users)
	require.Equal(t, model.UserStats{}, dir.Stats)
}

func TestEntry_MasksUnlessVisible(t *testing.T) {
	t.Parallel()

	policy := access.NewPolicy()
	viewer := model.Session{Username: "admin", Role: model.RoleAdmin}
	u := model.User{ID: 2, Username: "bob", Password: "b-pass", Role: model.RoleUser, Name: "Bob"}

	masked := Entry(u, viewer, policy, false)
	require.Equal(t, PasswordMask, masked.Password)
	require.True(t, masked.Deletable)

	shown := Entry(u, viewer, policy, true)
	require.Equal(t, "b-pass", shown.Password)
	require.True(t, shown.PasswordVisible)
}
