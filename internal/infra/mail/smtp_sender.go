// Package mail provides MailSender implementations for the confirmation flow.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"passport/config"
	"passport/internal/domain/service"

	"github.com/pkg/errors"
)

// smtpSender relays messages through a plain SMTP endpoint.
type smtpSender struct {
	cfg    *config.SMTPConfig
	logger *slog.Logger
}

// NewSender builds the MailSender for the current configuration. Without an
// SMTP section the log sender is returned, which writes outbound mail to the
// log instead of a relay. Handy for local runs and tests.
func NewSender(cfg *config.Config, logger *slog.Logger) service.MailSender {
	if cfg == nil || cfg.SMTP == nil {
		return &logSender{logger: logger}
	}

	return &smtpSender{cfg: cfg.SMTP, logger: logger}
}

// Send relays one message. Failures are reported to the caller; whether to
// retry or re-send is the caller's decision.
func (s *smtpSender) Send(_ context.Context, subject, body, toAddress string) error {
	msg := buildMessage(s.cfg.From, toAddress, subject, body)
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{toAddress}, msg); err != nil {
		return errors.Wrapf(err, "smtp send to %s failed", toAddress)
	}

	s.logger.Info("Confirmation mail sent", slog.String("to", toAddress))

	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)

	return []byte(sb.String())
}

// logSender writes outbound mail to the log. It stands in for a relay during
// development; the confirmation key therefore lands in the log only under
// this sender.
type logSender struct {
	logger *slog.Logger
}

func (s *logSender) Send(_ context.Context, subject, body, toAddress string) error {
	s.logger.Info("Outbound mail (no SMTP relay configured)",
		slog.String("to", toAddress),
		slog.String("subject", subject),
		slog.String("body", body),
	)

	return nil
}
