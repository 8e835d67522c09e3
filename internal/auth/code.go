// AngelaMos | 2026
// code.go

package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"github.com/carterperez-dev/yamdb/internal/config"
	"github.com/carterperez-dev/yamdb/internal/core"
)

var ErrInvalidCode = errors.New("invalid confirmation code")

// CodeStrategy issues and checks confirmation codes for a user.
//
// Verify returns ErrInvalidCode for any code that was not issued for this
// user, has expired, or has already been consumed.
type CodeStrategy interface {
	Issue(ctx context.Context, user *UserInfo) (string, error)
	Verify(ctx context.Context, user *UserInfo, code string) error
}

func NewCodeStrategy(
	cfg config.ConfirmConfig,
	repo CodeRepository,
) (CodeStrategy, error) {
	switch cfg.Strategy {
	case config.StrategyStored:
		return NewStoredCode(repo, cfg.TTL), nil
	case config.StrategyDerived:
		return NewDerivedCode(cfg.Secret, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown confirmation strategy %q", cfg.Strategy)
	}
}

const storedCodeDigits = 6

// StoredCode keeps the SHA-256 of a numeric code per user. Codes are
// single use and expire after ttl; reissuing replaces the previous code.
type StoredCode struct {
	repo CodeRepository
	ttl  time.Duration
	now  func() time.Time
}

func NewStoredCode(repo CodeRepository, ttl time.Duration) *StoredCode {
	return &StoredCode{repo: repo, ttl: ttl, now: time.Now}
}

func (s *StoredCode) Issue(ctx context.Context, user *UserInfo) (string, error) {
	code, err := core.GenerateNumericCode(storedCodeDigits)
	if err != nil {
		return "", err
	}

	record := &ConfirmationCode{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		CodeHash:  core.HashToken(code),
		ExpiresAt: s.now().Add(s.ttl),
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return "", fmt.Errorf("issue code: %w", err)
	}

	return code, nil
}

func (s *StoredCode) Verify(
	ctx context.Context,
	user *UserInfo,
	code string,
) error {
	record, err := s.repo.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrInvalidCode
		}
		return fmt.Errorf("verify code: %w", err)
	}

	if !record.IsValid(s.now()) {
		return ErrInvalidCode
	}

	if !core.CompareTokenHash(code, record.CodeHash) {
		return ErrInvalidCode
	}

	if err := s.repo.MarkAsUsed(ctx, record.ID, record.CodeHash); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrInvalidCode
		}
		return fmt.Errorf("verify code: %w", err)
	}

	return nil
}

const (
	derivedKeyInfo  = "yamdb confirmation code v1"
	derivedMACChars = 20
	clockSkew       = time.Minute
)

// DerivedCode stores nothing. A code is "<base36 unix time>-<hmac>" where
// the HMAC covers the user's identity and last login, so a code stops
// verifying once it has been used to log in, or after ttl.
type DerivedCode struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewDerivedCode(secret string, ttl time.Duration) (*DerivedCode, error) {
	if secret == "" {
		return nil, fmt.Errorf("derived code: empty secret: %w", core.ErrInvalidInput)
	}

	key := make([]byte, sha256.Size)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(derivedKeyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive code key: %w", err)
	}

	return &DerivedCode{key: key, ttl: ttl, now: time.Now}, nil
}

func (d *DerivedCode) Issue(_ context.Context, user *UserInfo) (string, error) {
	return d.make(user, d.now().Unix()), nil
}

func (d *DerivedCode) Verify(
	_ context.Context,
	user *UserInfo,
	code string,
) error {
	tsPart, _, ok := strings.Cut(code, "-")
	if !ok {
		return ErrInvalidCode
	}

	ts, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil {
		return ErrInvalidCode
	}

	issued := time.Unix(ts, 0)
	now := d.now()
	if now.Sub(issued) > d.ttl || issued.Sub(now) > clockSkew {
		return ErrInvalidCode
	}

	expected := d.make(user, ts)
	if !hmac.Equal([]byte(expected), []byte(code)) {
		return ErrInvalidCode
	}

	return nil
}

func (d *DerivedCode) make(user *UserInfo, ts int64) string {
	lastLogin := ""
	if user.LastLogin != nil {
		lastLogin = strconv.FormatInt(user.LastLogin.UTC().UnixNano(), 10)
	}

	mac := hmac.New(sha256.New, d.key)
	for _, part := range []string{
		user.ID,
		user.Username,
		strings.ToLower(user.Email),
		lastLogin,
		strconv.FormatInt(ts, 10),
	} {
		mac.Write([]byte(part))
		mac.Write([]byte{0})
	}

	sum := hex.EncodeToString(mac.Sum(nil))[:derivedMACChars]
	return strconv.FormatInt(ts, 36) + "-" + sum
}
