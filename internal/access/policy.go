// AngelaMos | 2026
// policy.go

package access

import (
	"fmt"
	"net/http"

	"github.com/carterperez-dev/yamdb/internal/core"
)

// Resource is anything with an owning user.
type Resource interface {
	OwnerID() string
}

// Request is the full context a Check decides on. Resource is nil for
// class-level checks that run before anything is fetched.
type Request struct {
	Actor    *Actor
	Method   string
	Resource Resource
}

// Check returns nil to permit, or an error wrapping core.ErrUnauthorized
// or core.ErrForbidden to deny.
type Check func(req Request) error

// Policy is an ordered list of checks evaluated until the first denial.
type Policy []Check

func (p Policy) Authorize(req Request) error {
	for _, check := range p {
		if err := check(req); err != nil {
			return err
		}
	}
	return nil
}

var (
	AdminOnly                 = Policy{requireAdmin}
	ReadOnlyElseAdmin         = Policy{safeOr(requireAdmin)}
	AuthorOrStaffElseReadOnly = Policy{safeOr(requireAuthenticated, requireOwnerOrStaff)}
	Authenticated             = Policy{requireAuthenticated}
)

func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// safeOr permits safe methods outright and runs checks for the rest.
func safeOr(checks ...Check) Check {
	return func(req Request) error {
		if IsSafeMethod(req.Method) {
			return nil
		}
		return Policy(checks).Authorize(req)
	}
}

func requireAuthenticated(req Request) error {
	if !req.Actor.Authenticated() {
		return fmt.Errorf("%s: %w", req.Method, core.ErrUnauthorized)
	}
	return nil
}

func requireAdmin(req Request) error {
	if err := requireAuthenticated(req); err != nil {
		return err
	}
	if !IsAdmin(req.Actor) {
		return fmt.Errorf("admin role required: %w", core.ErrForbidden)
	}
	return nil
}

func requireOwnerOrStaff(req Request) error {
	if req.Resource == nil {
		return nil
	}
	if req.Resource.OwnerID() == req.Actor.ID || IsStaff(req.Actor) {
		return nil
	}
	return fmt.Errorf("not the author: %w", core.ErrForbidden)
}

// FilterRoleChange drops a requested role the actor is not allowed to
// assign. Only admins may set roles; for everyone else the stored role
// stays as it was.
func FilterRoleChange(actor *Actor, requested *Role) *Role {
	if requested == nil || !IsAdmin(actor) {
		return nil
	}
	return requested
}
