// AngelaMos | 2026
// role_test.go

package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/yamdb/internal/core"
)

func TestRolePredicates(t *testing.T) {
	tests := []struct {
		name      string
		actor     *Actor
		wantStaff bool
		wantAdmin bool
	}{
		{name: "anonymous", actor: nil},
		{name: "empty identity", actor: &Actor{Role: RoleAdmin}},
		{name: "user", actor: &Actor{ID: "1", Role: RoleUser}},
		{
			name:      "moderator",
			actor:     &Actor{ID: "2", Role: RoleModerator},
			wantStaff: true,
		},
		{
			name:      "admin",
			actor:     &Actor{ID: "3", Role: RoleAdmin},
			wantStaff: true,
			wantAdmin: true,
		},
		{
			name:      "superuser with user role",
			actor:     &Actor{ID: "4", Role: RoleUser, Superuser: true},
			wantStaff: true,
			wantAdmin: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStaff, IsStaff(tt.actor))
			assert.Equal(t, tt.wantAdmin, IsAdmin(tt.actor))
		})
	}
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"user", "moderator", "admin"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, s, r.String())
	}

	_, err := ParseRole("superadmin")
	require.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = ParseRole("")
	require.ErrorIs(t, err, core.ErrInvalidInput)
}
