// Package mail sends outbound email over SMTP.
package mail

import (
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/krodas7/constructora-backend/internal/infrastructure/config"
)

// Sender delivers a plain-text message to one recipient
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender implements Sender with gomail over SMTP
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates an SMTP-backed sender from configuration
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send implements Sender
func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

// NoopSender implements Sender by logging instead of sending. Used when SMTP
// is disabled in configuration.
type NoopSender struct {
	logger *zap.Logger
}

// NewNoopSender creates a sender that only logs
func NewNoopSender(logger *zap.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

// Send implements Sender
func (s *NoopSender) Send(to, subject, body string) error {
	s.logger.Info("email delivery disabled, dropping message",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

// FromConfig returns an SMTP sender when enabled, a logging no-op otherwise
func FromConfig(cfg config.SMTPConfig, logger *zap.Logger) Sender {
	if cfg.Enabled && cfg.Host != "" {
		return NewSMTPSender(cfg)
	}
	return NewNoopSender(logger)
}
