// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/yamdb/internal/access"
	"github.com/carterperez-dev/yamdb/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

var userRowColumns = []string{
	"id", "username", "email", "role", "bio", "first_name", "last_name",
	"is_superuser", "last_login", "created_at", "updated_at",
}

func TestRepository_CreateMapsUniqueViolation(t *testing.T) {
	tests := []struct {
		constraint string
		field      string
	}{
		{"users_username_key", "username"},
		{"users_email_lower_key", "email"},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectQuery(`INSERT INTO users`).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			err := repo.Create(context.Background(), &User{
				ID: "u-1", Username: "alice", Email: "a@x.com", Role: access.RoleUser,
			})

			var conflict *core.ConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, tt.field, conflict.Field)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("u-1", "alice", "a@x.com", "user", "", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"is_superuser", "created_at", "updated_at"}).
			AddRow(false, now, now))

	u := &User{ID: "u-1", Username: "alice", Email: "a@x.com", Role: access.RoleUser}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, now, u.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByUsername(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(
			"u-1", "alice", "a@x.com", "moderator", "", "", "", false, nil, now, now,
		))

	u, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, access.RoleModerator, u.Role)
	assert.Nil(t, u.LastLogin)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_TouchLastLoginAndDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE users SET last_login = NOW\(\) WHERE id = \$1 AND last_login IS NOT DISTINCT FROM \$2`).
		WithArgs("u-1", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.TouchLastLogin(context.Background(), "u-1", nil))

	seen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE users SET last_login`).
		WithArgs("u-1", seen).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t,
		repo.TouchLastLogin(context.Background(), "u-1", &seen),
		core.ErrConflict,
	)

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs("u-2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), "u-2"), core.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListEscapesSearch(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs(`%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs(`%50\%%`, 20, 0).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	users, total, err := repo.List(context.Background(), ListUsersParams{Search: "50%"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, users)
	require.NoError(t, mock.ExpectationsWereMet())
}
