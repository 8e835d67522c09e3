// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/yamdb/internal/access"
)

type User struct {
	ID          string      `db:"id"`
	Username    string      `db:"username"`
	Email       string      `db:"email"`
	Role        access.Role `db:"role"`
	Bio         string      `db:"bio"`
	FirstName   string      `db:"first_name"`
	LastName    string      `db:"last_name"`
	IsSuperuser bool        `db:"is_superuser"`
	LastLogin   *time.Time  `db:"last_login"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (u *User) Actor() *access.Actor {
	return &access.Actor{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Superuser: u.IsSuperuser,
	}
}

// OwnerID makes a user its own resource.
func (u *User) OwnerID() string {
	return u.ID
}

// RoleCount is one row of the per-role user tally.
type RoleCount struct {
	Role  access.Role `db:"role"`
	Count int         `db:"count"`
}
