package model

import "time"

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// DirectoryEntry is one row of the admin panel's user table.
type DirectoryEntry struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Name            string    `json:"name"`
	Role            Role      `json:"role"`
	Password        string    `json:"password"`
	PasswordVisible bool      `json:"password_visible"`
	Editable        bool      `json:"editable"`
	Deletable       bool      `json:"deletable"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Directory struct {
	Users []DirectoryEntry `json:"users"`
	Stats UserStats        `json:"stats"`
}

type StatusReport struct {
	DatabaseConnected bool `json:"database_connected"`
	AuthorizedUsers   int  `json:"authorized_users"`
}

type LogoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}
