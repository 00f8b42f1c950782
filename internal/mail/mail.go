// Package mail sends transactional email. The API only sends password reset
// links, so the surface is a single Send method.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/redact"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTPMailer when cfg names a host and a LogMailer otherwise.
func New(cfg config.MailConfig, log *slog.Logger) Mailer {
	if cfg.SMTPHost == "" {
		return NewLogMailer(cfg.From, log)
	}
	return NewSMTPMailer(cfg, log)
}

// LogMailer writes messages to the log instead of delivering them. It is the
// default for local development. Reset links are redacted.
type LogMailer struct {
	from   string
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(from string, log *slog.Logger) *LogMailer {
	if log == nil {
		log = slog.Default()
	}
	return &LogMailer{from: from, logger: log.With("component", "log_mailer")}
}

// Send implements Mailer.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, m.logger).Info("email not delivered: no SMTP host configured",
		"from", m.from,
		"subject", msg.Subject,
		"body", redact.String(msg.Body))
	return nil
}

func validate(msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("mail: recipient is required")
	}
	if strings.ContainsAny(msg.To, "\r\n") || strings.ContainsAny(msg.Subject, "\r\n") {
		return fmt.Errorf("mail: header values must not contain line breaks")
	}
	return nil
}
