// AngelaMos | 2026
// database_test.go

package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%\_a\\b`, EscapeLike(`100%_a\b`))
	assert.Equal(t, "plain", EscapeLike("plain"))
}

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_key"})
	name, ok := UniqueViolation(unique)
	assert.True(t, ok)
	assert.Equal(t, "users_email_lower_key", name)
	assert.False(t, ForeignKeyViolation(unique))

	assert.True(t, ForeignKeyViolation(&pgconn.PgError{Code: "23503"}))

	_, ok = UniqueViolation(errors.New("other"))
	assert.False(t, ok)
}

func TestInTx(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	db := sqlx.NewDb(raw, "pgx")

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, InTx(context.Background(), db, func(*sqlx.Tx) error { return nil }))

	mock.ExpectBegin()
	mock.ExpectRollback()
	boom := errors.New("boom")
	require.ErrorIs(t, InTx(context.Background(), db, func(*sqlx.Tx) error { return boom }), boom)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConflictErrorMatchesDuplicateKey(t *testing.T) {
	err := fmt.Errorf("create: %w", &ConflictError{Field: "email"})

	require.ErrorIs(t, err, ErrDuplicateKey)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)
}
