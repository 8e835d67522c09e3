// AngelaMos | 2026
// repository.go

package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/yamdb/internal/core"
)

type Repository interface {
	TitleExists(ctx context.Context, titleID string) (bool, error)

	ListReviews(ctx context.Context, titleID string, params ListParams) ([]Review, int, error)
	GetReview(ctx context.Context, titleID, reviewID string) (*Review, error)
	CreateReview(ctx context.Context, review *Review) error
	UpdateReview(ctx context.Context, review *Review) error
	DeleteReview(ctx context.Context, reviewID string) error

	ListComments(ctx context.Context, reviewID string, params ListParams) ([]Comment, int, error)
	GetComment(ctx context.Context, reviewID, commentID string) (*Comment, error)
	CreateComment(ctx context.Context, comment *Comment) error
	UpdateComment(ctx context.Context, comment *Comment) error
	DeleteComment(ctx context.Context, commentID string) error

	Count(ctx context.Context) (reviews, comments int, err error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const (
	reviewSelect = `
		SELECT r.id, r.title_id, r.author_id, u.username AS author,
		       r.text, r.score, r.pub_date
		FROM reviews r
		JOIN users u ON u.id = r.author_id`

	commentSelect = `
		SELECT c.id, c.review_id, c.author_id, u.username AS author,
		       c.text, c.pub_date
		FROM comments c
		JOIN users u ON u.id = c.author_id`
)

func (r *repository) TitleExists(ctx context.Context, titleID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM titles WHERE id = $1)`, titleID)
	if err != nil {
		return false, fmt.Errorf("check title exists: %w", err)
	}
	return exists, nil
}

func (r *repository) ListReviews(
	ctx context.Context,
	titleID string,
	params ListParams,
) ([]Review, int, error) {
	params.Normalize()

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM reviews WHERE title_id = $1`, titleID,
	); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := reviewSelect + `
		WHERE r.title_id = $1
		ORDER BY r.pub_date DESC
		LIMIT $2 OFFSET $3`

	reviews := []Review{}
	if err := r.db.SelectContext(ctx, &reviews, query,
		titleID, params.PageSize, params.Offset(),
	); err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, total, nil
}

func (r *repository) GetReview(
	ctx context.Context,
	titleID, reviewID string,
) (*Review, error) {
	var review Review
	err := r.db.GetContext(ctx, &review,
		reviewSelect+` WHERE r.id = $1 AND r.title_id = $2`,
		reviewID, titleID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get review: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &review, nil
}

// CreateReview reports a ConflictError when the author already reviewed
// the title, and ErrNotFound when the title went away meanwhile.
func (r *repository) CreateReview(ctx context.Context, review *Review) error {
	query := `
		INSERT INTO reviews (id, title_id, author_id, text, score)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING pub_date`

	err := r.db.GetContext(ctx, &review.PubDate, query,
		review.ID,
		review.TitleID,
		review.AuthorID,
		review.Text,
		review.Score,
	)
	if err != nil {
		if _, ok := core.UniqueViolation(err); ok {
			return fmt.Errorf("create review: %w", &core.ConflictError{Field: "review"})
		}
		if core.ForeignKeyViolation(err) {
			return fmt.Errorf("create review: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

func (r *repository) UpdateReview(ctx context.Context, review *Review) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reviews SET text = $2, score = $3 WHERE id = $1`,
		review.ID, review.Text, review.Score,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	return expectOneRow(result, "update review")
}

func (r *repository) DeleteReview(ctx context.Context, reviewID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, reviewID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	return expectOneRow(result, "delete review")
}

func (r *repository) ListComments(
	ctx context.Context,
	reviewID string,
	params ListParams,
) ([]Comment, int, error) {
	params.Normalize()

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM comments WHERE review_id = $1`, reviewID,
	); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	query := commentSelect + `
		WHERE c.review_id = $1
		ORDER BY c.pub_date DESC
		LIMIT $2 OFFSET $3`

	comments := []Comment{}
	if err := r.db.SelectContext(ctx, &comments, query,
		reviewID, params.PageSize, params.Offset(),
	); err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	return comments, total, nil
}

func (r *repository) GetComment(
	ctx context.Context,
	reviewID, commentID string,
) (*Comment, error) {
	var comment Comment
	err := r.db.GetContext(ctx, &comment,
		commentSelect+` WHERE c.id = $1 AND c.review_id = $2`,
		commentID, reviewID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get comment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return &comment, nil
}

func (r *repository) CreateComment(ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO comments (id, review_id, author_id, text)
		VALUES ($1, $2, $3, $4)
		RETURNING pub_date`

	err := r.db.GetContext(ctx, &comment.PubDate, query,
		comment.ID,
		comment.ReviewID,
		comment.AuthorID,
		comment.Text,
	)
	if err != nil {
		if core.ForeignKeyViolation(err) {
			return fmt.Errorf("create comment: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

func (r *repository) UpdateComment(ctx context.Context, comment *Comment) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET text = $2 WHERE id = $1`,
		comment.ID, comment.Text,
	)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	return expectOneRow(result, "update comment")
}

func (r *repository) DeleteComment(ctx context.Context, commentID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	return expectOneRow(result, "delete comment")
}

func (r *repository) Count(ctx context.Context) (int, int, error) {
	var counts struct {
		Reviews  int `db:"reviews"`
		Comments int `db:"comments"`
	}

	err := r.db.GetContext(ctx, &counts, `
		SELECT (SELECT COUNT(*) FROM reviews) AS reviews,
		       (SELECT COUNT(*) FROM comments) AS comments`)
	if err != nil {
		return 0, 0, fmt.Errorf("count reviews and comments: %w", err)
	}

	return counts.Reviews, counts.Comments, nil
}

func expectOneRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}
