// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/carterperez-dev/yamdb/internal/access"
	"github.com/carterperez-dev/yamdb/internal/core"
)

const ActorKey contextKey = "actor"

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

// ActorLoader resolves the subject of a verified token to the current
// stored identity, so role changes apply without reissuing tokens.
type ActorLoader interface {
	LoadActor(ctx context.Context, userID string) (*access.Actor, error)
}

type AccessTokenClaims struct {
	UserID   string
	Username string
	Role     string
}

func Authenticator(
	verifier TokenVerifier,
	loader ActorLoader,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			ctx, err := authenticate(r.Context(), verifier, loader, token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches an actor when a valid token is present and
// otherwise lets the request through as anonymous.
func OptionalAuth(
	verifier TokenVerifier,
	loader ActorLoader,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token != "" {
				ctx, err := authenticate(r.Context(), verifier, loader, token)
				if err == nil {
					r = r.WithContext(ctx)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(
	ctx context.Context,
	verifier TokenVerifier,
	loader ActorLoader,
	token string,
) (context.Context, error) {
	claims, err := verifier.VerifyAccessToken(ctx, token)
	if err != nil {
		return ctx, err
	}

	actor, err := loader.LoadActor(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ctx, core.ErrTokenInvalid
		}
		return ctx, err
	}

	return context.WithValue(ctx, ActorKey, actor), nil
}

// Authorize runs the class-level part of a policy against the request
// method and the actor in context, before any resource is loaded.
func Authorize(policy access.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := policy.Authorize(access.Request{
				Actor:  GetActor(r.Context()),
				Method: r.Method,
			})
			if err != nil {
				WriteAccessError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return Authorize(access.AdminOnly)(next)
}

// WriteAccessError maps a policy denial to 401 or 403.
func WriteAccessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		core.JSONError(w, core.UnauthorizedError(""))
	case errors.Is(err, core.ErrForbidden):
		core.JSONError(w, core.ForbiddenError(""))
	default:
		core.InternalServerError(w, err)
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	default:
		core.InternalServerError(w, err)
	}
}

func GetActor(ctx context.Context) *access.Actor {
	if actor, ok := ctx.Value(ActorKey).(*access.Actor); ok {
		return actor
	}
	return nil
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor *access.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}
