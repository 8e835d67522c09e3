// AngelaMos | 2026
// fakes_test.go

package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/carterperez-dev/yamdb/internal/core"
)

type memTerms struct {
	mu    sync.Mutex
	terms []Term
	// inUse reports whether a title still points at the term id.
	inUse func(id string) bool
}

func (m *memTerms) Create(_ context.Context, term *Term) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.terms {
		if t.Slug == term.Slug {
			return &core.ConflictError{Field: "slug"}
		}
	}
	m.terms = append(m.terms, *term)
	return nil
}

func (m *memTerms) GetBySlug(_ context.Context, slug string) (*Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.terms {
		if t.Slug == slug {
			cp := t
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memTerms) ListBySlugs(_ context.Context, slugs []string) ([]Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Term
	for _, t := range m.terms {
		for _, s := range slugs {
			if t.Slug == s {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (m *memTerms) DeleteBySlug(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.terms {
		if t.Slug != slug {
			continue
		}
		if m.inUse != nil && m.inUse(t.ID) {
			return core.ErrConflict
		}
		m.terms = append(m.terms[:i], m.terms[i+1:]...)
		return nil
	}
	return core.ErrNotFound
}

func (m *memTerms) List(_ context.Context, params ListTermsParams) ([]Term, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	params.Normalize()
	var out []Term
	for _, t := range m.terms {
		if params.Search != "" && t.Name != params.Search {
			continue
		}
		out = append(out, t)
	}
	return out, len(out), nil
}

type memTitles struct {
	mu     sync.Mutex
	titles map[string]*Title
	genres map[string][]string
	terms  *memTerms
	cats   *memTerms
}

func (m *memTitles) Create(_ context.Context, title *Title, genreIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *title
	m.titles[title.ID] = &cp
	m.genres[title.ID] = genreIDs
	return nil
}

func (m *memTitles) GetByID(_ context.Context, id string) (*Title, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.titles[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *t
	m.hydrate(&cp)
	return &cp, nil
}

func (m *memTitles) hydrate(t *Title) {
	for _, c := range m.cats.terms {
		if c.ID == t.CategoryID {
			t.Category = c
		}
	}
	t.Genres = []Term{}
	for _, id := range m.genres[t.ID] {
		for _, g := range m.terms.terms {
			if g.ID == id {
				t.Genres = append(t.Genres, g)
			}
		}
	}
}

func (m *memTitles) Update(_ context.Context, title *Title, genreIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.titles[title.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *title
	m.titles[title.ID] = &cp
	if genreIDs != nil {
		m.genres[title.ID] = genreIDs
	}
	return nil
}

func (m *memTitles) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.titles[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.titles, id)
	delete(m.genres, id)
	return nil
}

func (m *memTitles) List(_ context.Context, f TitleFilter) ([]Title, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Title
	for _, t := range m.titles {
		cp := *t
		m.hydrate(&cp)
		if f.Name != "" && !strings.Contains(cp.Name, f.Name) {
			continue
		}
		if f.Category != "" && cp.Category.Slug != f.Category {
			continue
		}
		if f.Year != 0 && cp.Year != f.Year {
			continue
		}
		if f.Genre != "" && !hasGenre(cp.Genres, f.Genre) {
			continue
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (m *memTitles) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.titles), nil
}

func hasGenre(genres []Term, slug string) bool {
	for _, g := range genres {
		if g.Slug == slug {
			return true
		}
	}
	return false
}

func newMemCatalog() (*memTerms, *memTerms, *memTitles) {
	cats := &memTerms{}
	genres := &memTerms{}
	titles := &memTitles{
		titles: map[string]*Title{},
		genres: map[string][]string{},
		terms:  genres,
		cats:   cats,
	}
	cats.inUse = func(id string) bool {
		for _, t := range titles.titles {
			if t.CategoryID == id {
				return true
			}
		}
		return false
	}
	return cats, genres, titles
}
