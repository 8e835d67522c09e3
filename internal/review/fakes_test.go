// AngelaMos | 2026
// fakes_test.go

package review

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/carterperez-dev/yamdb/internal/core"
)

type memRepo struct {
	mu       sync.Mutex
	titles   map[string]bool
	reviews  map[string]*Review
	comments map[string]*Comment
	clock    time.Time
}

func newMemRepo(titleIDs ...string) *memRepo {
	m := &memRepo{
		titles:   map[string]bool{},
		reviews:  map[string]*Review{},
		comments: map[string]*Comment{},
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, id := range titleIDs {
		m.titles[id] = true
	}
	return m
}

func (m *memRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memRepo) TitleExists(_ context.Context, titleID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.titles[titleID], nil
}

func (m *memRepo) ListReviews(_ context.Context, titleID string, params ListParams) ([]Review, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	params.Normalize()
	var out []Review
	for _, r := range m.reviews {
		if r.TitleID == titleID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PubDate.After(out[j].PubDate) })
	return out, len(out), nil
}

func (m *memRepo) GetReview(_ context.Context, titleID, reviewID string) (*Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[reviewID]
	if !ok || r.TitleID != titleID {
		return nil, core.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) CreateReview(_ context.Context, review *Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.TitleID == review.TitleID && r.AuthorID == review.AuthorID {
			return &core.ConflictError{Field: "review"}
		}
	}
	review.PubDate = m.tick()
	cp := *review
	m.reviews[review.ID] = &cp
	return nil
}

func (m *memRepo) UpdateReview(_ context.Context, review *Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[review.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *review
	m.reviews[review.ID] = &cp
	return nil
}

func (m *memRepo) DeleteReview(_ context.Context, reviewID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[reviewID]; !ok {
		return core.ErrNotFound
	}
	delete(m.reviews, reviewID)
	for id, c := range m.comments {
		if c.ReviewID == reviewID {
			delete(m.comments, id)
		}
	}
	return nil
}

func (m *memRepo) ListComments(_ context.Context, reviewID string, params ListParams) ([]Comment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	params.Normalize()
	var out []Comment
	for _, c := range m.comments {
		if c.ReviewID == reviewID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PubDate.After(out[j].PubDate) })
	return out, len(out), nil
}

func (m *memRepo) GetComment(_ context.Context, reviewID, commentID string) (*Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[commentID]
	if !ok || c.ReviewID != reviewID {
		return nil, core.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) CreateComment(_ context.Context, comment *Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment.PubDate = m.tick()
	cp := *comment
	m.comments[comment.ID] = &cp
	return nil
}

func (m *memRepo) UpdateComment(_ context.Context, comment *Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[comment.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *comment
	m.comments[comment.ID] = &cp
	return nil
}

func (m *memRepo) DeleteComment(_ context.Context, commentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[commentID]; !ok {
		return core.ErrNotFound
	}
	delete(m.comments, commentID)
	return nil
}

func (m *memRepo) Count(_ context.Context) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reviews), len(m.comments), nil
}
