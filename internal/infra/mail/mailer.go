// File: internal/infra/mail/mailer.go
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"opsdesk/internal/config"
	"opsdesk/internal/domain"
	"opsdesk/internal/domain/ports/adapter"
)

var _ adapter.Mailer = (*SMTPMailer)(nil)

// SMTPMailer sends transactional mail over SMTP. Missing configuration is
// detected at send time, not startup, so a deployment without mail
// credentials still serves everything except outbound email.
type SMTPMailer struct {
	cfg config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.cfg.Host == "" || m.cfg.From == "" {
		return fmt.Errorf("smtp host/from is not set: %w", domain.ErrNotConfigured)
	}
	if to == "" {
		return domain.ErrInvalidArgument
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	port := m.cfg.Port
	if port == 0 {
		port = 587
	}
	dialer := gomail.NewDialer(m.cfg.Host, port, m.cfg.Username, m.cfg.Password)

	done := make(chan error, 1)
	go func() { done <- dialer.DialAndSend(msg) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
