// Package access decides which privileged actions a session may perform.
//
// Every check reads only the session snapshot taken at login. A role change in
// the user store has no effect here until the user logs in again. The checks
// have no side effects; callers report refusals themselves.
package access

import (
	"pah-access/internal/model"
)

// ProtectedUsername can never be deleted, whoever asks.
const ProtectedUsername = "admin"

type Action string

const (
	ActionOpenAdminPanel Action = "open_admin_panel"
	ActionCreateUser     Action = "create_user"
	ActionEditUser       Action = "edit_user"
	ActionDeleteUser     Action = "delete_user"
	ActionViewPasswords  Action = "view_passwords"
)

// Refusal describes an action the policy turned down.
type Refusal struct {
	Action Action `json:"action"`
	Actor  string `json:"actor,omitempty"`
	Role   string `json:"role,omitempty"`
	Target string `json:"target,omitempty"`
}

func NewRefusal(action Action, s model.Session, target string) Refusal {
	return Refusal{Action: action, Actor: s.Username, Role: string(s.Role), Target: target}
}

type Policy struct {
	protected string
}

func NewPolicy() *Policy {
	return &Policy{protected: ProtectedUsername}
}

// IsProtected reports whether username names the undeletable account.
func (p *Policy) IsProtected(username string) bool {
	return model.NormalizeUsername(username) == p.protected
}

func (p *Policy) CanOpenAdminPanel(s model.Session) bool {
	return s.IsAdmin()
}

func (p *Policy) CanCreate(s model.Session) bool {
	return s.IsAdmin()
}

// CanDelete is false for the protected account even when the caller is an admin.
func (p *Policy) CanDelete(s model.Session, target string) bool {
	return s.IsAdmin() && !p.IsProtected(target)
}

// CanEdit allows admins to edit any account, the protected one included.
func (p *Policy) CanEdit(s model.Session, _ string) bool {
	return s.IsAdmin()
}

func (p *Policy) CanViewPasswords(s model.Session) bool {
	return s.IsAdmin()
}
