// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/yamdb/internal/core"
	"github.com/carterperez-dev/yamdb/internal/mail"
)

const ReservedUsername = "me"

// signupAttempts bounds the create-or-reissue loop. A second pass only
// happens when a concurrent signup inserted the same username first.
const signupAttempts = 2

var (
	ErrReservedUsername = errors.New("username \"me\" is reserved")
	ErrEmailMismatch    = errors.New("email does not match the registered one")
	ErrDuplicateEmail   = errors.New("email is already registered")
	ErrUserNotFound     = errors.New("user not found")
	ErrMissingFields    = errors.New("username and confirmation_code are required")
)

type UserInfo struct {
	ID        string
	Username  string
	Email     string
	Role      string
	LastLogin *time.Time
}

type UserProvider interface {
	GetByUsername(ctx context.Context, username string) (*UserInfo, error)
	Create(ctx context.Context, username, email string) (*UserInfo, error)
	// TouchLastLogin fails with core.ErrConflict when last_login no longer
	// equals seen.
	TouchLastLogin(ctx context.Context, userID string, seen *time.Time) error
}

type TokenIssuer interface {
	CreateAccessToken(claims AccessTokenClaims) (*IssuedToken, error)
	TTL() time.Duration
}

type Service struct {
	users   UserProvider
	codes   CodeStrategy
	tokens  TokenIssuer
	mailer  mail.Mailer
	subject string
	logger  *slog.Logger
}

type ServiceConfig struct {
	Users       UserProvider
	Codes       CodeStrategy
	Tokens      TokenIssuer
	Mailer      mail.Mailer
	MailSubject string
	Logger      *slog.Logger
}

func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		users:   cfg.Users,
		codes:   cfg.Codes,
		tokens:  cfg.Tokens,
		mailer:  cfg.Mailer,
		subject: cfg.MailSubject,
		logger:  logger,
	}
}

// Signup creates the user on first sight, or re-issues a code when the
// username comes back with the same email, and mails the code. A failed
// delivery is reported to the caller but the user row is kept.
func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
) (_ *SignupResponse, err error) {
	ctx, span := core.StartSpan(ctx, "auth.Signup",
		attribute.String("user.name", req.Username),
	)
	defer func() { core.EndSpan(span, err) }()

	if req.Username == ReservedUsername {
		return nil, ErrReservedUsername
	}

	user, err := s.findOrCreate(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}

	code, err := s.codes.Issue(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	core.AddSpanEvent(ctx, "confirmation_code.issued",
		attribute.String("user.id", user.ID),
	)

	if err := s.mailer.Send(ctx, user.Email, s.subject, codeMessage(user.Username, code)); err != nil {
		s.logger.Warn("confirmation mail not delivered",
			"user_id", user.ID,
			"error", err,
		)
		return nil, fmt.Errorf("signup: %w: %w", mail.ErrDelivery, err)
	}

	s.logger.Info("confirmation code issued", "user_id", user.ID)

	return &SignupResponse{Username: user.Username, Email: req.Email}, nil
}

func (s *Service) findOrCreate(
	ctx context.Context,
	username, email string,
) (*UserInfo, error) {
	for range signupAttempts {
		user, err := s.users.GetByUsername(ctx, username)
		if err == nil {
			if !strings.EqualFold(user.Email, email) {
				return nil, ErrEmailMismatch
			}
			return user, nil
		}
		if !errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("signup: get user: %w", err)
		}

		user, err = s.users.Create(ctx, username, email)
		if err == nil {
			return user, nil
		}

		var conflict *core.ConflictError
		if !errors.As(err, &conflict) {
			return nil, fmt.Errorf("signup: create user: %w", err)
		}
		if conflict.Field == "email" {
			return nil, ErrDuplicateEmail
		}
	}

	return nil, fmt.Errorf("signup: %w", core.ErrConflict)
}

// ExchangeCode checks a confirmation code and returns a session token.
// A successful exchange records the login, which consumes the code.
func (s *Service) ExchangeCode(
	ctx context.Context,
	req TokenRequest,
) (_ *TokenResponse, err error) {
	ctx, span := core.StartSpan(ctx, "auth.ExchangeCode",
		attribute.String("user.name", req.Username),
	)
	defer func() { core.EndSpan(span, err) }()

	if req.Username == "" || req.ConfirmationCode == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	if err := s.codes.Verify(ctx, user, req.ConfirmationCode); err != nil {
		if errors.Is(err, ErrInvalidCode) {
			s.logger.Info("confirmation code rejected", "user_id", user.ID)
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	// Derived codes are bound to last_login, so only one of two concurrent
	// exchanges of the same code may move it.
	if err := s.users.TouchLastLogin(ctx, user.ID, user.LastLogin); err != nil {
		if errors.Is(err, core.ErrConflict) {
			s.logger.Info("confirmation code raced another login", "user_id", user.ID)
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("exchange code: record login: %w", err)
	}

	issued, err := s.tokens.CreateAccessToken(AccessTokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	return &TokenResponse{
		Token:     issued.Token,
		TokenType: "Bearer",
		ExpiresIn: int(s.tokens.TTL() / time.Second),
		ExpiresAt: issued.ExpiresAt,
	}, nil
}

func codeMessage(username, code string) string {
	return fmt.Sprintf(
		"Hello, %s!\n\nYour confirmation code: %s\n\n"+
			"Send it with your username to /v1/auth/token to get an access token.",
		username,
		code,
	)
}
