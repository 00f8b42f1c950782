package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/redact"
	gomail "github.com/wneessen/go-mail"
)

const defaultSMTPTimeout = 10 * time.Second

// SMTPMailer delivers messages through an SMTP relay. STARTTLS is used when
// the relay offers it, and PLAIN auth when a username is configured.
type SMTPMailer struct {
	host     string
	port     int
	from     string
	username string
	password string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewSMTPMailer creates an SMTPMailer from cfg.
func NewSMTPMailer(cfg config.MailConfig, log *slog.Logger) *SMTPMailer {
	if log == nil {
		log = slog.Default()
	}
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = defaultSMTPTimeout
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.From,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		timeout:  timeout,
		logger:   log.With("component", "smtp_mailer"),
	}
}

// Send implements Mailer. The whole session, from dial to QUIT, is bounded
// by the earlier of ctx's deadline and the configured timeout.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	gm, err := m.compose(msg)
	if err != nil {
		return err
	}
	client, err := m.client()
	if err != nil {
		return fmt.Errorf("mail: client setup failed: %w", err)
	}

	log := logger.FromContextOrDefault(ctx, m.logger)
	if err := client.DialAndSendWithContext(ctx, gm); err != nil {
		log.Error("failed to send email",
			"error", redact.Error(err),
			"subject", msg.Subject)
		return fmt.Errorf("mail: send failed: %w", err)
	}

	log.Info("email sent", "subject", msg.Subject)
	return nil
}

// compose builds the MIME message. go-mail encodes non-ASCII header values
// per RFC 2047.
func (m *SMTPMailer) compose(msg Message) (*gomail.Msg, error) {
	gm := gomail.NewMsg()
	if err := gm.From(m.from); err != nil {
		return nil, fmt.Errorf("mail: invalid sender: %w", err)
	}
	if err := gm.To(msg.To); err != nil {
		return nil, fmt.Errorf("mail: invalid recipient: %w", err)
	}
	gm.Subject(msg.Subject)
	gm.SetDate()
	gm.SetMessageID()
	gm.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return gm, nil
}

// client builds a fresh go-mail client per message; a Client holds a single
// connection and is not shared between goroutines.
func (m *SMTPMailer) client() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(m.port),
		gomail.WithTimeout(m.timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithDialContextFunc(m.dial),
	}
	if m.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.username),
			gomail.WithPassword(m.password))
	}
	return gomail.NewClient(m.host, opts...)
}

// dial puts the context deadline on the connection itself. The greeting is
// read before go-mail sets any deadline of its own.
func (m *SMTPMailer) dial(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(m.timeout)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}
