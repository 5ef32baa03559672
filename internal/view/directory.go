// Package view shapes store results for the admin panel.
package view

import (
	"pah-access/internal/access"
	"pah-access/internal/model"
)

// PasswordMask replaces a password the viewer has not chosen to reveal.
const PasswordMask = "••••••••"

// BuildDirectory turns users into the admin panel table. reveal lists the
// usernames whose password visibility is toggled on; it is ignored unless the
// viewer may see passwords.
func BuildDirectory(users []model.User, viewer model.Session, policy *access.Policy, reveal []string) model.Directory {
	revealSet := map[string]struct{}{}
	if policy.CanViewPasswords(viewer) {
		for _, username := range reveal {
			revealSet[model.NormalizeUsername(username)] = struct{}{}
		}
	}

	dir := model.Directory{Users: make([]model.DirectoryEntry, 0, len(users))}
	for _, u := range users {
		_, visible := revealSet[u.Username]
		dir.Users = append(dir.Users, Entry(u, viewer, policy, visible))
	}
	dir.Stats = Stats(users)

	return dir
}

// Entry builds one table row. The password is masked unless visible is set.
func Entry(u model.User, viewer model.Session, policy *access.Policy, visible bool) model.DirectoryEntry {
	password := PasswordMask
	if visible {
		password = u.Password
	}

	return model.DirectoryEntry{
		ID:              u.ID,
		Username:        u.Username,
		Name:            u.Name,
		Role:            u.Role,
		Password:        password,
		PasswordVisible: visible,
		Editable:        policy.CanEdit(viewer, u.Username),
		Deletable:       policy.CanDelete(viewer, u.Username),
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func Stats(users []model.User) model.UserStats {
	stats := model.UserStats{Total: len(users)}
	for _, u := range users {
		switch u.Role {
		case model.RoleAdmin:
			stats.Admins++
		case model.RoleUser:
			stats.Users++
		}
	}
	return stats
}
