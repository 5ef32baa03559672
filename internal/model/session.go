package model

import "time"

// Session is the client-held proof of a successful login. Role and Name are a
// snapshot of the user row taken at login time.
type Session struct {
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	LoginTime time.Time `json:"loginTime"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

func NewSession(user User, loginTime time.Time) Session {
	return Session{
		Username:  user.Username,
		Name:      user.Name,
		Role:      user.Role,
		LoginTime: loginTime,
	}
}
