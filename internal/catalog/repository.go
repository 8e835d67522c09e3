// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/yamdb/internal/core"
)

type TermRepository interface {
	Create(ctx context.Context, term *Term) error
	GetBySlug(ctx context.Context, slug string) (*Term, error)
	ListBySlugs(ctx context.Context, slugs []string) ([]Term, error)
	DeleteBySlug(ctx context.Context, slug string) error
	List(ctx context.Context, params ListTermsParams) ([]Term, int, error)
}

type termRepository struct {
	db    core.DBTX
	table string
}

func NewCategoryRepository(db core.DBTX) TermRepository {
	return &termRepository{db: db, table: "categories"}
}

func NewGenreRepository(db core.DBTX) TermRepository {
	return &termRepository{db: db, table: "genres"}
}

func (r *termRepository) Create(ctx context.Context, term *Term) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (id, name, slug) VALUES ($1, $2, $3)`,
		r.table,
	)

	if _, err := r.db.ExecContext(ctx, query, term.ID, term.Name, term.Slug); err != nil {
		if _, ok := core.UniqueViolation(err); ok {
			return fmt.Errorf("create %s: %w", r.table, &core.ConflictError{Field: "slug"})
		}
		return fmt.Errorf("create %s: %w", r.table, err)
	}

	return nil
}

func (r *termRepository) GetBySlug(
	ctx context.Context,
	slug string,
) (*Term, error) {
	query := fmt.Sprintf(`SELECT id, name, slug FROM %s WHERE slug = $1`, r.table)

	var term Term
	err := r.db.GetContext(ctx, &term, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s: %w", r.table, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.table, err)
	}

	return &term, nil
}

func (r *termRepository) ListBySlugs(
	ctx context.Context,
	slugs []string,
) ([]Term, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		fmt.Sprintf(`SELECT id, name, slug FROM %s WHERE slug IN (?) ORDER BY slug`, r.table),
		slugs,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s by slug: %w", r.table, err)
	}

	var terms []Term
	if err := r.db.SelectContext(ctx, &terms, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return nil, fmt.Errorf("list %s by slug: %w", r.table, err)
	}

	return terms, nil
}

// DeleteBySlug reports core.ErrConflict when titles still reference the
// row through a restricting foreign key.
func (r *termRepository) DeleteBySlug(ctx context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE slug = $1`, r.table)

	result, err := r.db.ExecContext(ctx, query, slug)
	if err != nil {
		if core.ForeignKeyViolation(err) {
			return fmt.Errorf("delete %s: %w", r.table, core.ErrConflict)
		}
		return fmt.Errorf("delete %s: %w", r.table, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.table, err)
	}

	if rows == 0 {
		return fmt.Errorf("delete %s: %w", r.table, core.ErrNotFound)
	}

	return nil
}

func (r *termRepository) List(
	ctx context.Context,
	params ListTermsParams,
) ([]Term, int, error) {
	params.Normalize()

	where := "TRUE"
	var args []any
	if params.Search != "" {
		where = "name = $1"
		args = append(args, params.Search)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, r.table, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.table, err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, slug
		FROM %s
		WHERE %s
		ORDER BY name, slug
		LIMIT $%d OFFSET $%d`,
		r.table, where, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, params.Offset())

	terms := []Term{}
	if err := r.db.SelectContext(ctx, &terms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.table, err)
	}

	return terms, total, nil
}

type TitleRepository interface {
	Create(ctx context.Context, title *Title, genreIDs []string) error
	GetByID(ctx context.Context, id string) (*Title, error)
	Update(ctx context.Context, title *Title, genreIDs []string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TitleFilter) ([]Title, int, error)
	Count(ctx context.Context) (int, error)
}

type titleRepository struct {
	db *sqlx.DB
}

func NewTitleRepository(db *sqlx.DB) TitleRepository {
	return &titleRepository{db: db}
}

const titleSelect = `
		SELECT t.id, t.name, t.year, t.description, t.category_id,
		       (SELECT AVG(rv.score)::float8 FROM reviews rv WHERE rv.title_id = t.id) AS rating,
		       c.id AS "category.id", c.name AS "category.name", c.slug AS "category.slug"
		FROM titles t
		JOIN categories c ON c.id = t.category_id`

// Create inserts the title and its genre links in one transaction.
func (r *titleRepository) Create(
	ctx context.Context,
	title *Title,
	genreIDs []string,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO titles (id, name, year, description, category_id)
			VALUES ($1, $2, $3, $4, $5)`

		_, err := tx.ExecContext(ctx, query,
			title.ID,
			title.Name,
			title.Year,
			title.Description,
			title.CategoryID,
		)
		if err != nil {
			return fmt.Errorf("create title: %w", err)
		}

		return linkGenres(ctx, tx, title.ID, genreIDs)
	})
}

func (r *titleRepository) GetByID(ctx context.Context, id string) (*Title, error) {
	var title Title
	err := r.db.GetContext(ctx, &title, titleSelect+` WHERE t.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get title: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get title: %w", err)
	}

	titles := []Title{title}
	if err := r.attachGenres(ctx, titles); err != nil {
		return nil, err
	}

	return &titles[0], nil
}

// Update writes the scalar columns and, when genreIDs is non-nil,
// replaces the title's genre set.
func (r *titleRepository) Update(
	ctx context.Context,
	title *Title,
	genreIDs []string,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE titles
			SET name = $2, year = $3, description = $4, category_id = $5
			WHERE id = $1`

		result, err := tx.ExecContext(ctx, query,
			title.ID,
			title.Name,
			title.Year,
			title.Description,
			title.CategoryID,
		)
		if err != nil {
			return fmt.Errorf("update title: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update title: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("update title: %w", core.ErrNotFound)
		}

		if genreIDs == nil {
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM title_genres WHERE title_id = $1`, title.ID,
		); err != nil {
			return fmt.Errorf("update title genres: %w", err)
		}

		return linkGenres(ctx, tx, title.ID, genreIDs)
	})
}

func (r *titleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete title: %w", core.ErrNotFound)
	}

	return nil
}

func (r *titleRepository) List(
	ctx context.Context,
	filter TitleFilter,
) ([]Title, int, error) {
	filter.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "TRUE")

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("t.name LIKE $%d", argIdx))
		args = append(args, "%"+core.EscapeLike(filter.Name)+"%")
		argIdx++
	}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("c.slug = $%d", argIdx))
		args = append(args, filter.Category)
		argIdx++
	}

	if filter.Genre != "" {
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM title_genres tg
			JOIN genres g ON g.id = tg.genre_id
			WHERE tg.title_id = t.id AND g.slug = $%d)`, argIdx))
		args = append(args, filter.Genre)
		argIdx++
	}

	if filter.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("t.year = $%d", argIdx))
		args = append(args, filter.Year)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM titles t
		JOIN categories c ON c.id = t.category_id
		WHERE %s`, whereClause)

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY t.year, t.name
		LIMIT $%d OFFSET $%d`,
		titleSelect, whereClause, argIdx, argIdx+1)
	args = append(args, filter.PageSize, filter.Offset())

	titles := []Title{}
	if err := r.db.SelectContext(ctx, &titles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}

	if err := r.attachGenres(ctx, titles); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

func (r *titleRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM titles`); err != nil {
		return 0, fmt.Errorf("count titles: %w", err)
	}
	return total, nil
}

func (r *titleRepository) attachGenres(ctx context.Context, titles []Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]string, 0, len(titles))
	index := make(map[string]int, len(titles))
	for i := range titles {
		ids = append(ids, titles[i].ID)
		index[titles[i].ID] = i
		titles[i].Genres = []Term{}
	}

	query, args, err := sqlx.In(`
		SELECT tg.title_id, g.id, g.name, g.slug
		FROM title_genres tg
		JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id IN (?)
		ORDER BY g.name, g.slug`, ids)
	if err != nil {
		return fmt.Errorf("load title genres: %w", err)
	}

	var rows []titleGenre
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("load title genres: %w", err)
	}

	for _, row := range rows {
		i := index[row.TitleID]
		titles[i].Genres = append(titles[i].Genres, row.Term)
	}

	return nil
}

func linkGenres(
	ctx context.Context,
	tx *sqlx.Tx,
	titleID string,
	genreIDs []string,
) error {
	for _, genreID := range genreIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO title_genres (title_id, genre_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			titleID, genreID,
		)
		if err != nil {
			return fmt.Errorf("link genre: %w", err)
		}
	}
	return nil
}
