// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/yamdb/internal/core"
)

type CodeRepository interface {
	Upsert(ctx context.Context, code *ConfirmationCode) error
	FindByUserID(ctx context.Context, userID string) (*ConfirmationCode, error)
	MarkAsUsed(ctx context.Context, id, codeHash string) error
}

type codeRepository struct {
	db core.DBTX
}

func NewCodeRepository(db core.DBTX) CodeRepository {
	return &codeRepository{db: db}
}

// Upsert replaces whatever code the user had with a fresh, unused one.
func (r *codeRepository) Upsert(
	ctx context.Context,
	code *ConfirmationCode,
) error {
	query := `
		INSERT INTO confirmation_codes (id, user_id, code_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET code_hash = EXCLUDED.code_hash,
		    expires_at = EXCLUDED.expires_at,
		    created_at = NOW(),
		    used_at = NULL
		RETURNING id, created_at`

	err := r.db.GetContext(ctx, code, query,
		code.ID,
		code.UserID,
		code.CodeHash,
		code.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("upsert confirmation code: %w", err)
	}

	return nil
}

func (r *codeRepository) FindByUserID(
	ctx context.Context,
	userID string,
) (*ConfirmationCode, error) {
	query := `
		SELECT id, user_id, code_hash, expires_at, created_at, used_at
		FROM confirmation_codes
		WHERE user_id = $1`

	var code ConfirmationCode
	err := r.db.GetContext(ctx, &code, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find confirmation code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find confirmation code: %w", err)
	}

	return &code, nil
}

// MarkAsUsed consumes the code whose hash was just verified. Upsert keeps
// the row id on reissue, so the hash has to match too. It reports
// ErrNotFound when the row was already used or replaced in between.
func (r *codeRepository) MarkAsUsed(
	ctx context.Context,
	id, codeHash string,
) error {
	query := `
		UPDATE confirmation_codes
		SET used_at = NOW()
		WHERE id = $1 AND code_hash = $2 AND used_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, codeHash)
	if err != nil {
		return fmt.Errorf("mark confirmation code as used: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark confirmation code as used: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf(
			"mark confirmation code as used: %w",
			core.ErrNotFound,
		)
	}

	return nil
}
