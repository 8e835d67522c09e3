// AngelaMos | 2026
// fakes_test.go

package auth

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/carterperez-dev/yamdb/internal/core"
)

type memUsers struct {
	mu     sync.Mutex
	byName map[string]*UserInfo
	nextID int

	// raceOnCreate simulates a concurrent signup that wins the insert.
	raceOnCreate *UserInfo
	touchErr     error
	// beforeTouch runs once at the start of TouchLastLogin.
	beforeTouch func()
}

func newMemUsers() *memUsers {
	return &memUsers{byName: map[string]*UserInfo{}}
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byName[username]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Create(_ context.Context, username, email string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.raceOnCreate != nil {
		m.byName[m.raceOnCreate.Username] = m.raceOnCreate
		m.raceOnCreate = nil
	}

	if _, ok := m.byName[username]; ok {
		return nil, &core.ConflictError{Field: "username"}
	}
	for _, u := range m.byName {
		if strings.EqualFold(u.Email, email) {
			return nil, &core.ConflictError{Field: "email"}
		}
	}

	m.nextID++
	u := &UserInfo{
		ID:       fmt.Sprintf("id-%d", m.nextID),
		Username: username,
		Email:    strings.ToLower(email),
		Role:     "user",
	}
	m.byName[username] = u
	cp := *u
	return &cp, nil
}

func (m *memUsers) TouchLastLogin(_ context.Context, userID string, seen *time.Time) error {
	if m.touchErr != nil {
		return m.touchErr
	}
	if hook := m.beforeTouch; hook != nil {
		m.beforeTouch = nil
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.byName {
		if u.ID == userID {
			if !sameInstant(u.LastLogin, seen) {
				return core.ErrConflict
			}
			now := time.Now()
			u.LastLogin = &now
			return nil
		}
	}
	return core.ErrNotFound
}

type sentMail struct {
	to, subject, body string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

var codePattern = regexp.MustCompile(`confirmation code: (\S+)`)

func (m *recordingMailer) lastCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	match := codePattern.FindStringSubmatch(m.sent[len(m.sent)-1].body)
	if match == nil {
		return ""
	}
	return match[1]
}

type fakeTokens struct{}

func (fakeTokens) CreateAccessToken(claims AccessTokenClaims) (*IssuedToken, error) {
	return &IssuedToken{
		Token:     "token-for-" + claims.Username,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (fakeTokens) TTL() time.Duration { return time.Hour }

type memCodes struct {
	mu   sync.Mutex
	rows map[string]*ConfirmationCode

	// beforeMark runs at the start of MarkAsUsed, between the read and the
	// consume of a verification.
	beforeMark func()
}

func newMemCodes() *memCodes {
	return &memCodes{rows: map[string]*ConfirmationCode{}}
}

func (m *memCodes) Upsert(_ context.Context, code *ConfirmationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// ON CONFLICT (user_id) DO UPDATE keeps the existing row id.
	if existing, ok := m.rows[code.UserID]; ok {
		code.ID = existing.ID
	}
	code.CreatedAt = time.Now()
	cp := *code
	m.rows[code.UserID] = &cp
	return nil
}

func (m *memCodes) FindByUserID(_ context.Context, userID string) (*ConfirmationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *memCodes) MarkAsUsed(_ context.Context, id, codeHash string) error {
	if hook := m.beforeMark; hook != nil {
		m.beforeMark = nil
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ID == id && row.CodeHash == codeHash && row.UsedAt == nil {
			now := time.Now()
			row.UsedAt = &now
			return nil
		}
	}
	return core.ErrNotFound
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
