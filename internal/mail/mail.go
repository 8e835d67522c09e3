// AngelaMos | 2026
// mail.go

package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/carterperez-dev/yamdb/internal/config"
)

var ErrDelivery = errors.New("mail delivery failed")

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type sendClient interface {
	SendWithContext(
		ctx context.Context,
		email *sgmail.SGMailV3,
	) (*rest.Response, error)
}

type SendGridMailer struct {
	client sendClient
	from   *sgmail.Email
	logger *slog.Logger
}

func NewSendGridMailer(cfg config.MailConfig, logger *slog.Logger) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromAddress),
		logger: logger,
	}
}

func (m *SendGridMailer) Send(
	ctx context.Context,
	to, subject, body string,
) error {
	message := sgmail.NewSingleEmail(
		m.from,
		subject,
		sgmail.NewEmail("", to),
		body,
		"",
	)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send to %s: %w: %w", to, ErrDelivery, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf(
			"send to %s: sendgrid status %d: %w",
			to,
			resp.StatusCode,
			ErrDelivery,
		)
	}

	m.logger.Debug("mail sent",
		"to", to,
		"status", resp.StatusCode,
	)

	return nil
}

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info("mail (not delivered)",
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}

func New(cfg config.MailConfig, logger *slog.Logger) (Mailer, error) {
	switch cfg.Provider {
	case config.MailProviderSendGrid:
		return NewSendGridMailer(cfg, logger), nil
	case config.MailProviderLog:
		return NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}
