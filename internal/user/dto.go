// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/yamdb/internal/access"
)

type CreateUserRequest struct {
	Username  string  `json:"username"   validate:"required,max=150,username"`
	Email     string  `json:"email"      validate:"required,email,max=254"`
	Role      *string `json:"role"       validate:"omitempty,oneof=user moderator admin"`
	Bio       string  `json:"bio"        validate:"max=2000"`
	FirstName string  `json:"first_name" validate:"max=150"`
	LastName  string  `json:"last_name"  validate:"max=150"`
}

// UpdateUserRequest is a partial update; nil fields are left as stored.
type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty"   validate:"omitempty,max=150,username"`
	Email     *string `json:"email,omitempty"      validate:"omitempty,email,max=254"`
	Role      *string `json:"role,omitempty"       validate:"omitempty,oneof=user moderator admin"`
	Bio       *string `json:"bio,omitempty"        validate:"omitempty,max=2000"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty"  validate:"omitempty,max=150"`
}

func (r UpdateUserRequest) requestedRole() *access.Role {
	if r.Role == nil {
		return nil
	}
	role := access.Role(*r.Role)
	return &role
}

type UserResponse struct {
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Bio       string     `json:"bio"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	LastLogin *time.Time `json:"last_login"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Username string `json:"username"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role.String(),
		Bio:       u.Bio,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		LastLogin: u.LastLogin,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
