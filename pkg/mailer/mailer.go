package mailer

import (
	"fmt"

	"metalya/pkg/config"

	gomail "gopkg.in/gomail.v2"
)

// Email is a single send call to the transport. Bcc recipients never see
// each other's addresses; To is the visible primary recipient.
type Email struct {
	From    string
	To      string
	Bcc     []string
	Subject string
	HTML    string
}

// Mailer is the outbound email transport. The SMTP implementation below is
// injected at startup; callers never reach for a module-level client.
type Mailer interface {
	Send(email *Email) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

func (m *SMTPMailer) Send(email *Email) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", email.From)
	msg.SetHeader("To", email.To)
	if len(email.Bcc) > 0 {
		msg.SetHeader("Bcc", email.Bcc...)
	}
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/html", email.HTML)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
