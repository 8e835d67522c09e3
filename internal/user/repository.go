// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carterperez-dev/yamdb/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, user *User) error
	TouchLastLogin(ctx context.Context, id string, seen *time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	CountByRole(ctx context.Context) ([]RoleCount, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, username, email, role, bio, first_name, last_name,
		       is_superuser, last_login, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, username, email, role, bio, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING is_superuser, created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Username,
		user.Email,
		user.Role,
		user.Bio,
		user.FirstName,
		user.LastName,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", mapUniqueViolation(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByUsername(
	ctx context.Context,
	username string,
) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by username: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, role = $4, bio = $5,
		    first_name = $6, last_name = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Username,
		user.Email,
		user.Role,
		user.Bio,
		user.FirstName,
		user.LastName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", mapUniqueViolation(err))
	}

	return nil
}

// TouchLastLogin records a login only if last_login still holds the value
// the caller read. Losing that race reports ErrConflict.
func (r *repository) TouchLastLogin(
	ctx context.Context,
	id string,
	seen *time.Time,
) error {
	query := `
		UPDATE users SET last_login = NOW()
		WHERE id = $1 AND last_login IS NOT DISTINCT FROM $2`

	result, err := r.db.ExecContext(ctx, query, id, seen)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("touch last login: %w", core.ErrConflict)
	}

	return nil
}

// Delete removes the user; reviews, comments and the confirmation code
// go with it through ON DELETE CASCADE.
func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "TRUE")

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(username ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Username != "" {
		conditions = append(conditions, fmt.Sprintf("username = $%d", argIdx))
		args = append(args, params.Username)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY username
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) CountByRole(ctx context.Context) ([]RoleCount, error) {
	query := `SELECT role, COUNT(*) AS count FROM users GROUP BY role ORDER BY role`

	var counts []RoleCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}

	return counts, nil
}

// mapUniqueViolation turns a unique violation on users into a
// ConflictError naming the column.
func mapUniqueViolation(err error) error {
	constraint, ok := core.UniqueViolation(err)
	if !ok {
		return err
	}

	field := "username"
	if strings.Contains(constraint, "email") {
		field = "email"
	}

	return &core.ConflictError{Field: field}
}
