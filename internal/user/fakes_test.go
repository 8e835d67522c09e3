// AngelaMos | 2026
// fakes_test.go

package user

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/carterperez-dev/yamdb/internal/access"
	"github.com/carterperez-dev/yamdb/internal/core"
)

type memRepo struct {
	mu   sync.Mutex
	byID map[string]*User
}

func newMemRepo(users ...*User) *memRepo {
	m := &memRepo{byID: map[string]*User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memRepo) conflict(u *User) error {
	for _, other := range m.byID {
		if other.ID == u.ID {
			continue
		}
		if other.Username == u.Username {
			return &core.ConflictError{Field: "username"}
		}
		if strings.EqualFold(other.Email, u.Email) {
			return &core.ConflictError{Field: "email"}
		}
	}
	return nil
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.conflict(u); err != nil {
		return err
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) Update(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return core.ErrNotFound
	}
	if err := m.conflict(u); err != nil {
		return err
	}
	u.UpdatedAt = time.Now()
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memRepo) TouchLastLogin(_ context.Context, id string, seen *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok || !sameInstant(u.LastLogin, seen) {
		return core.ErrConflict
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memRepo) List(_ context.Context, params ListUsersParams) ([]User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	params.Normalize()

	var out []User
	for _, u := range m.byID {
		if params.Username != "" && u.Username != params.Username {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })

	total := len(out)
	start := min(params.Offset(), total)
	end := min(start+params.PageSize, total)
	return out[start:end], total, nil
}

func (m *memRepo) CountByRole(_ context.Context) ([]RoleCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tally := map[access.Role]int{}
	for _, u := range m.byID {
		tally[u.Role]++
	}
	var out []RoleCount
	for role, n := range tally {
		out = append(out, RoleCount{Role: role, Count: n})
	}
	return out, nil
}

func seedUsers() (*User, *User, *User) {
	admin := &User{ID: "id-admin", Username: "root", Email: "root@x.com", Role: access.RoleAdmin}
	mod := &User{ID: "id-mod", Username: "mod", Email: "mod@x.com", Role: access.RoleModerator}
	plain := &User{ID: "id-user", Username: "alice", Email: "a@x.com", Role: access.RoleUser}
	return admin, mod, plain
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
