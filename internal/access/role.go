// AngelaMos | 2026
// role.go

// Package access holds the role model and the authorization policies that
// gate every endpoint. Everything here is a pure function of its inputs.
package access

import (
	"fmt"

	"github.com/carterperez-dev/yamdb/internal/core"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("parse role %q: %w", s, core.ErrInvalidInput)
	}
	return r, nil
}

// Actor is the identity behind a request. A nil *Actor is anonymous.
type Actor struct {
	ID        string
	Username  string
	Role      Role
	Superuser bool
}

func (a *Actor) Authenticated() bool {
	return a != nil && a.ID != ""
}

// IsStaff is true for moderators, admins and superusers.
func IsStaff(a *Actor) bool {
	if !a.Authenticated() {
		return false
	}
	return a.Superuser || a.Role == RoleAdmin || a.Role == RoleModerator
}

// IsAdmin is true for admins and superusers.
func IsAdmin(a *Actor) bool {
	if !a.Authenticated() {
		return false
	}
	return a.Superuser || a.Role == RoleAdmin
}
