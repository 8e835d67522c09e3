// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/yamdb/internal/access"
	"github.com/carterperez-dev/yamdb/internal/core"
)

type fakeVerifier map[string]error

func (f fakeVerifier) VerifyAccessToken(_ context.Context, token string) (*AccessTokenClaims, error) {
	if err, ok := f[token]; ok {
		return nil, err
	}
	return &AccessTokenClaims{UserID: token, Username: token, Role: "user"}, nil
}

type fakeLoader map[string]*access.Actor

func (f fakeLoader) LoadActor(_ context.Context, userID string) (*access.Actor, error) {
	actor, ok := f[userID]
	if !ok {
		return nil, fmt.Errorf("load actor: %w", core.ErrNotFound)
	}
	return actor, nil
}

var (
	verifier = fakeVerifier{
		"expired": core.ErrTokenExpired,
		"garbage": core.ErrTokenInvalid,
	}
	loader = fakeLoader{
		"u-alice": {ID: "u-alice", Username: "alice", Role: access.RoleUser},
		"u-root":  {ID: "u-root", Username: "root", Role: access.RoleAdmin},
	}
)

func echoActor(w http.ResponseWriter, r *http.Request) {
	if actor := GetActor(r.Context()); actor != nil {
		_, _ = w.Write([]byte(actor.Username))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
}

func request(h http.Handler, method, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticator(t *testing.T) {
	h := Authenticator(verifier, loader)(http.HandlerFunc(echoActor))

	rec := request(h, http.MethodGet, "u-alice")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())

	tests := []struct {
		name  string
		token string
		code  string
	}{
		{"missing", "", "UNAUTHORIZED"},
		{"expired", "expired", "TOKEN_EXPIRED"},
		{"invalid", "garbage", "TOKEN_INVALID"},
		{"deleted user", "u-ghost", "TOKEN_INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := request(h, http.MethodGet, tt.token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	h := OptionalAuth(verifier, loader)(http.HandlerFunc(echoActor))

	assert.Equal(t, "root", request(h, http.MethodGet, "u-root").Body.String())
	assert.Equal(t, "anonymous", request(h, http.MethodGet, "").Body.String())
	assert.Equal(t, "anonymous", request(h, http.MethodGet, "garbage").Body.String())
}

func TestAuthorize(t *testing.T) {
	h := OptionalAuth(verifier, loader)(
		Authorize(access.ReadOnlyElseAdmin)(http.HandlerFunc(echoActor)),
	)

	assert.Equal(t, http.StatusOK, request(h, http.MethodGet, "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(h, http.MethodPost, "").Code)
	assert.Equal(t, http.StatusForbidden, request(h, http.MethodPost, "u-alice").Code)
	assert.Equal(t, http.StatusOK, request(h, http.MethodPost, "u-root").Code)
}

func TestExtractToken(t *testing.T) {
	for header, want := range map[string]string{
		"Bearer abc":  "abc",
		"bearer  abc": "abc",
		"Basic abc":   "",
		"Bearer":      "",
		"":            "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		assert.Equal(t, want, ExtractToken(req), header)
	}
}
