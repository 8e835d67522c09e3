// AngelaMos | 2026
// repository_test.go

package review

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/yamdb/internal/core"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return sqlx.NewDb(db, "pgx"), mock
}

func TestRepository_CreateReviewDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`INSERT INTO reviews`).
		WithArgs("r-1", titleA, "u-alice", "great", 9).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "reviews_author_title_key"})

	err := repo.CreateReview(context.Background(), &Review{
		ID: "r-1", TitleID: titleA, AuthorID: "u-alice", Text: "great", Score: 9,
	})
	require.ErrorIs(t, err, core.ErrDuplicateKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateReviewMissingTitle(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`INSERT INTO reviews`).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.CreateReview(context.Background(), &Review{ID: "r-1", TitleID: titleA, Score: 5})
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepository_CreateReviewSetsPubDate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	pub := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO reviews .* RETURNING pub_date`).
		WillReturnRows(sqlmock.NewRows([]string{"pub_date"}).AddRow(pub))

	review := &Review{ID: "r-1", TitleID: titleA, AuthorID: "u-alice", Text: "ok", Score: 5}
	require.NoError(t, repo.CreateReview(context.Background(), review))
	assert.Equal(t, pub, review.PubDate)
}

func TestRepository_GetReviewScopedToTitle(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`FROM reviews r\s+JOIN users u ON u.id = r.author_id WHERE r.id = \$1 AND r.title_id = \$2`).
		WithArgs("r-1", titleA).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetReview(context.Background(), titleA, "r-1")
	require.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListComments(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	pub := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM comments WHERE review_id = \$1`).
		WithArgs("r-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY c.pub_date DESC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs("r-1", 10, 10).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "review_id", "author_id", "author", "text", "pub_date"},
		).AddRow("c-1", "r-1", "u-bob", "bob", "agreed", pub))

	comments, total, err := repo.ListComments(context.Background(), "r-1", ListParams{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, comments, 1)
	assert.Equal(t, "bob", comments[0].Author)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`DELETE FROM reviews WHERE id = \$1`).
		WithArgs("r-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM comments WHERE id = \$1`).
		WithArgs("c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.ErrorIs(t, repo.DeleteReview(context.Background(), "r-1"), core.ErrNotFound)
	require.NoError(t, repo.DeleteComment(context.Background(), "c-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Count(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT \(SELECT COUNT\(\*\) FROM reviews\) AS reviews`).
		WillReturnRows(sqlmock.NewRows([]string{"reviews", "comments"}).AddRow(4, 7))

	reviews, comments, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, reviews)
	assert.Equal(t, 7, comments)
}
