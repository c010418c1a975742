package workers

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/talentfit/talentfit/internal/config"
)

// Sender delivers a plain-text message
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewSender returns an SMTP sender, or a logging sender when SMTP is not configured
func NewSender(cfg config.MailConfig, logger zerolog.Logger) Sender {
	if cfg.Address == "" {
		logger.Warn().Msg("SMTP_ADDR not set - verification codes will be logged instead of e-mailed")
		return &LogSender{logger: logger}
	}
	return &SMTPSender{cfg: cfg}
}

// SMTPSender sends mail through an SMTP relay
type SMTPSender struct {
	cfg config.MailConfig
}

// Send delivers one message. net/smtp has no context support, so ctx is only
// checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.cfg.User != "" {
		host, _, err := net.SplitHostPort(s.cfg.Address)
		if err != nil {
			return fmt.Errorf("invalid SMTP address %q: %w", s.cfg.Address, err)
		}
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, host)
	}

	msg := buildMessage(s.cfg.From, to, subject, body)
	if err := smtp.SendMail(s.cfg.Address, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// LogSender writes messages to the log
type LogSender struct {
	logger zerolog.Logger
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("Mail delivery disabled, message logged")
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
