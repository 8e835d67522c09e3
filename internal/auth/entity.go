// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// ConfirmationCode is the persisted half of a stored confirmation code.
// Only the hash of the code is kept. A user has at most one row.
type ConfirmationCode struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	CodeHash  string     `db:"code_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	CreatedAt time.Time  `db:"created_at"`
	UsedAt    *time.Time `db:"used_at"`
}

func (c *ConfirmationCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

func (c *ConfirmationCode) IsUsed() bool {
	return c.UsedAt != nil
}

func (c *ConfirmationCode) IsValid(now time.Time) bool {
	return !c.IsExpired(now) && !c.IsUsed()
}
