package model

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

// UpdateUserRequest edits name and password only. An empty Name keeps the current one.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}
