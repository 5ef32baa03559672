package service

import (
	"context"
	"log/slog"
	"strings"

	"pah-access/internal/access"
	"pah-access/internal/event"
	"pah-access/internal/model"
	"pah-access/internal/view"
	"pah-access/pkg/apierror"
)

type userGateway interface {
	ListAll(ctx context.Context) ([]model.User, bool)
	Insert(ctx context.Context, data model.CreateUserData) (model.User, bool)
	UpdateUser(ctx context.Context, username string, password string, name string) bool
	Delete(ctx context.Context, username string) bool
	Exists(ctx context.Context, username string) bool
}

// UserService runs the admin panel actions. Every action is checked against
// the policy before the store is contacted.
type UserService struct {
	gateway userGateway
	policy  *access.Policy
	bus     event.Bus
}

func NewUserService(gateway userGateway, policy *access.Policy, bus event.Bus) *UserService {
	return &UserService{gateway: gateway, policy: policy, bus: bus}
}

func (s *UserService) List(ctx context.Context, viewer model.Session, reveal []string) (model.Directory, error) {
	if !s.policy.CanOpenAdminPanel(viewer) {
		return model.Directory{}, s.refuse(access.ActionOpenAdminPanel, viewer, "")
	}

	users, ok := s.gateway.ListAll(ctx)
	if !ok {
		return model.Directory{}, model.ErrStoreUnreachable
	}

	return view.BuildDirectory(users, viewer, s.policy, reveal), nil
}

// Create adds a user. The username is lowercased and must be free; the role
// defaults to "user". The returned row carries the masked password.
func (s *UserService) Create(ctx context.Context, actor model.Session, req model.CreateUserRequest) (model.DirectoryEntry, error) {
	if !s.policy.CanCreate(actor) {
		return model.DirectoryEntry{}, s.refuse(access.ActionCreateUser, actor, req.Username)
	}

	username := model.NormalizeUsername(req.Username)
	name := strings.TrimSpace(req.Name)
	if username == "" || req.Password == "" || name == "" {
		return model.DirectoryEntry{}, apierror.BadRequest("username, password and name are required", "").Wrap(model.ErrInvalidInput)
	}

	role, ok := model.ParseRole(req.Role)
	if !ok {
		return model.DirectoryEntry{}, apierror.BadRequest("invalid role", req.Role).Wrap(model.ErrInvalidInput)
	}

	if s.gateway.Exists(ctx, username) {
		return model.DirectoryEntry{}, model.ErrUserAlreadyExists
	}

	created, ok := s.gateway.Insert(ctx, model.CreateUserData{
		Username: username,
		Password: req.Password,
		Role:     role,
		Name:     name,
	})
	if !ok {
		return model.DirectoryEntry{}, model.ErrOperationFailed
	}

	slog.Info("user created", "username", created.Username, "role", created.Role, "by", actor.Username)
	s.publish(event.TypeUserCreated, actor.Username, map[string]string{"username": created.Username})
	return view.Entry(created, actor, s.policy, false), nil
}

// Update sets a new password and, when given, a new name. Role changes are
// not offered.
func (s *UserService) Update(ctx context.Context, actor model.Session, target string, req model.UpdateUserRequest) error {
	target = model.NormalizeUsername(target)
	if !s.policy.CanEdit(actor, target) {
		return s.refuse(access.ActionEditUser, actor, target)
	}

	if target == "" || req.Password == "" {
		return apierror.BadRequest("password is required", "password").Wrap(model.ErrInvalidInput)
	}

	// a blank name leaves the stored one unchanged
	if !s.gateway.UpdateUser(ctx, target, req.Password, strings.TrimSpace(req.Name)) {
		return model.ErrOperationFailed
	}

	slog.Info("user updated", "username", target, "by", actor.Username)
	s.publish(event.TypeUserUpdated, actor.Username, map[string]string{"username": target})
	return nil
}

// Delete removes a user. The protected account is refused before any store
// round trip.
func (s *UserService) Delete(ctx context.Context, actor model.Session, target string) error {
	target = model.NormalizeUsername(target)
	if s.policy.IsProtected(target) {
		s.publish(event.TypeAccessRefused, actor.Username, access.NewRefusal(access.ActionDeleteUser, actor, target))
		return model.ErrProtectedUser
	}
	if !s.policy.CanDelete(actor, target) {
		return s.refuse(access.ActionDeleteUser, actor, target)
	}

	if target == "" {
		return apierror.BadRequest("username is required", "username").Wrap(model.ErrInvalidInput)
	}

	if !s.gateway.Delete(ctx, target) {
		return model.ErrOperationFailed
	}

	slog.Info("user deleted", "username", target, "by", actor.Username)
	s.publish(event.TypeUserDeleted, actor.Username, map[string]string{"username": target})
	return nil
}

// Status backs the login screen's "database connected" line.
func (s *UserService) Status(ctx context.Context) model.StatusReport {
	users, ok := s.gateway.ListAll(ctx)
	if !ok {
		return model.StatusReport{}
	}
	return model.StatusReport{DatabaseConnected: true, AuthorizedUsers: len(users)}
}

// SeedAdmin inserts the protected admin account when it is missing.
func (s *UserService) SeedAdmin(ctx context.Context, password string) error {
	if password == "" || s.gateway.Exists(ctx, access.ProtectedUsername) {
		return nil
	}

	_, ok := s.gateway.Insert(ctx, model.CreateUserData{
		Username: access.ProtectedUsername,
		Password: password,
		Role:     model.RoleAdmin,
		Name:     "Amministratore",
	})
	if !ok {
		return model.ErrOperationFailed
	}

	slog.Info("seeded admin account", "username", access.ProtectedUsername)
	return nil
}

func (s *UserService) refuse(action access.Action, actor model.Session, target string) error {
	s.publish(event.TypeAccessRefused, actor.Username, access.NewRefusal(action, actor, target))
	return model.ErrForbidden
}

func (s *UserService) publish(typ event.Type, actor string, payload any) {
	if s.bus != nil {
		s.bus.Publish(event.New(typ, actor, payload))
	}
}
