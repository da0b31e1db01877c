package service

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
)

// Mailer отправляет письма. Интерфейс нужен для подмены в тестах.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPMailer создает mailer поверх SMTP relay.
// При пустом username письма уходят без аутентификации (локальный relay).
func NewSMTPMailer(addr, username, password, from string) Mailer {
	var auth smtp.Auth
	if username != "" {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &smtpMailer{
		addr: addr,
		auth: auth,
		from: from,
	}
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.from, to, subject, body))

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
