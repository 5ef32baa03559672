package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole accepts "admin" or "user" in any case. Empty input yields RoleUser.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case "", RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// User is a row of the users table. Password is stored and returned verbatim.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Role      Role      `json:"role"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateUserData struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	Name     string `json:"name"`
}

type UserStats struct {
	Total  int `json:"total"`
	Admins int `json:"admins"`
	Users  int `json:"users"`
}

// NormalizeUsername lowercases and trims a username the way every lookup expects it.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
