// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/yamdb/internal/access"
	"github.com/carterperez-dev/yamdb/internal/auth"
	"github.com/carterperez-dev/yamdb/internal/core"
)

var ErrReservedUsername = fmt.Errorf(
	"username %q is reserved: %w",
	auth.ReservedUsername,
	core.ErrInvalidInput,
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByUsername, Create and TouchLastLogin serve the signup flow.

func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	username, email string,
) (*auth.UserInfo, error) {
	user := &User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    strings.ToLower(email),
		Role:     access.RoleUser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) TouchLastLogin(
	ctx context.Context,
	userID string,
	seen *time.Time,
) error {
	return s.repo.TouchLastLogin(ctx, userID, seen)
}

// LoadActor resolves a token subject to the identity stored right now.
func (s *Service) LoadActor(
	ctx context.Context,
	userID string,
) (*access.Actor, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return user.Actor(), nil
}

func (s *Service) GetUser(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) CreateUser(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	if req.Username == auth.ReservedUsername {
		return nil, ErrReservedUsername
	}

	role := access.RoleUser
	if req.Role != nil {
		parsed, err := access.ParseRole(*req.Role)
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	user := &User{
		ID:        uuid.New().String(),
		Username:  req.Username,
		Email:     strings.ToLower(req.Email),
		Role:      role,
		Bio:       req.Bio,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateUser applies a partial update to the named user on behalf of
// actor. A role change survives only when the actor may assign roles.
func (s *Service) UpdateUser(
	ctx context.Context,
	actor *access.Actor,
	username string,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return s.apply(ctx, actor, user, req)
}

func (s *Service) DeleteUser(ctx context.Context, username string) error {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, user.ID)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) CountByRole(ctx context.Context) (map[string]int, error) {
	rows, err := s.repo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{
		access.RoleUser.String():      0,
		access.RoleModerator.String(): 0,
		access.RoleAdmin.String():     0,
	}
	for _, row := range rows {
		counts[row.Role.String()] = row.Count
	}

	return counts, nil
}

func (s *Service) GetMe(ctx context.Context, actor *access.Actor) (*User, error) {
	if !actor.Authenticated() {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, actor.ID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	actor *access.Actor,
	req UpdateUserRequest,
) (*User, error) {
	if !actor.Authenticated() {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	return s.apply(ctx, actor, user, req)
}

func (s *Service) apply(
	ctx context.Context,
	actor *access.Actor,
	user *User,
	req UpdateUserRequest,
) (*User, error) {
	if req.Username != nil {
		if *req.Username == auth.ReservedUsername {
			return nil, ErrReservedUsername
		}
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = strings.ToLower(*req.Email)
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if role := access.FilterRoleChange(actor, req.requestedRole()); role != nil {
		if !role.Valid() {
			return nil, fmt.Errorf("update user: role %q: %w", *role, core.ErrInvalidInput)
		}
		user.Role = *role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role.String(),
		LastLogin: u.LastLogin,
	}
}

var _ auth.UserProvider = (*Service)(nil)
