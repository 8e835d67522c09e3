// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/yamdb/internal/core"
)

// Each of these is reported wrapped together with core.ErrInvalidInput.
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownGenre    = errors.New("unknown genre")
	ErrFutureYear      = errors.New("year is in the future")
)

type Service struct {
	categories TermRepository
	genres     TermRepository
	titles     TitleRepository
	now        func() time.Time
}

func NewService(categories, genres TermRepository, titles TitleRepository) *Service {
	return &Service{
		categories: categories,
		genres:     genres,
		titles:     titles,
		now:        time.Now,
	}
}

func (s *Service) ListCategories(
	ctx context.Context,
	params ListTermsParams,
) ([]Term, int, error) {
	return s.categories.List(ctx, params)
}

func (s *Service) CreateCategory(
	ctx context.Context,
	req CreateTermRequest,
) (*Term, error) {
	return createTerm(ctx, s.categories, req)
}

// DeleteCategory fails with core.ErrConflict while any title is filed
// under the category.
func (s *Service) DeleteCategory(ctx context.Context, slug string) error {
	return s.categories.DeleteBySlug(ctx, slug)
}

func (s *Service) ListGenres(
	ctx context.Context,
	params ListTermsParams,
) ([]Term, int, error) {
	return s.genres.List(ctx, params)
}

func (s *Service) CreateGenre(
	ctx context.Context,
	req CreateTermRequest,
) (*Term, error) {
	return createTerm(ctx, s.genres, req)
}

func (s *Service) DeleteGenre(ctx context.Context, slug string) error {
	return s.genres.DeleteBySlug(ctx, slug)
}

func createTerm(
	ctx context.Context,
	repo TermRepository,
	req CreateTermRequest,
) (*Term, error) {
	term := &Term{
		ID:   uuid.New().String(),
		Name: req.Name,
		Slug: req.Slug,
	}

	if err := repo.Create(ctx, term); err != nil {
		return nil, err
	}

	return term, nil
}

func (s *Service) ListTitles(
	ctx context.Context,
	filter TitleFilter,
) ([]Title, int, error) {
	return s.titles.List(ctx, filter)
}

func (s *Service) GetTitle(ctx context.Context, id string) (*Title, error) {
	return s.titles.GetByID(ctx, id)
}

func (s *Service) CountContent(ctx context.Context) (map[string]int, error) {
	titles, err := s.titles.Count(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]int{"titles": titles}, nil
}

func (s *Service) CreateTitle(
	ctx context.Context,
	req CreateTitleRequest,
) (*Title, error) {
	if err := s.checkYear(*req.Year); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	title := &Title{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Year:        *req.Year,
		Description: req.Description,
		CategoryID:  category.ID,
	}

	if err := s.titles.Create(ctx, title, termIDs(genres)); err != nil {
		return nil, err
	}

	return s.titles.GetByID(ctx, title.ID)
}

func (s *Service) UpdateTitle(
	ctx context.Context,
	id string,
	req UpdateTitleRequest,
) (*Title, error) {
	title, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		if err := s.checkYear(*req.Year); err != nil {
			return nil, err
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = category.ID
	}

	var genreIDs []string
	if req.Genre != nil {
		genres, err := s.resolveGenres(ctx, *req.Genre)
		if err != nil {
			return nil, err
		}
		genreIDs = termIDs(genres)
		if genreIDs == nil {
			genreIDs = []string{}
		}
	}

	if err := s.titles.Update(ctx, title, genreIDs); err != nil {
		return nil, err
	}

	return s.titles.GetByID(ctx, id)
}

func (s *Service) DeleteTitle(ctx context.Context, id string) error {
	return s.titles.Delete(ctx, id)
}

func (s *Service) checkYear(year int) error {
	if year > s.now().Year() {
		return fmt.Errorf("%w (%d): %w", ErrFutureYear, year, core.ErrInvalidInput)
	}
	return nil
}

func (s *Service) resolveCategory(ctx context.Context, slug string) (*Term, error) {
	category, err := s.categories.GetBySlug(ctx, slug)
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownCategory, slug, core.ErrInvalidInput)
	}
	return category, err
}

// resolveGenres looks up every slug and fails on the first unknown one.
func (s *Service) resolveGenres(ctx context.Context, slugs []string) ([]Term, error) {
	slugs = dedupe(slugs)

	genres, err := s.genres.ListBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}

	if len(genres) != len(slugs) {
		found := make(map[string]struct{}, len(genres))
		for _, g := range genres {
			found[g.Slug] = struct{}{}
		}
		for _, slug := range slugs {
			if _, ok := found[slug]; !ok {
				return nil, fmt.Errorf("%w %q: %w", ErrUnknownGenre, slug, core.ErrInvalidInput)
			}
		}
	}

	return genres, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func termIDs(terms []Term) []string {
	if len(terms) == 0 {
		return nil
	}
	ids := make([]string, 0, len(terms))
	for _, t := range terms {
		ids = append(ids, t.ID)
	}
	return ids
}
