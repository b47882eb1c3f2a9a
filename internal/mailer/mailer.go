package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"os"

	"github.com/sirupsen/logrus"
)

// Mailer is the outbound email boundary. Callers treat it as
// fire-and-forget: failures are logged, never propagated.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New builds a Mailer from the environment. Without SMTP_ADDR it degrades
// to a logger-only mailer so the rest of the service keeps working in dev.
func New(log *logrus.Logger) Mailer {
	addr := os.Getenv("SMTP_ADDR")
	if addr == "" {
		return &logMailer{log: log}
	}
	m := &smtpMailer{
		addr: addr,
		from: os.Getenv("SMTP_FROM"),
	}
	if user := os.Getenv("SMTP_USER"); user != "" {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		m.auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASSWORD"), host)
	}
	return m
}

type smtpMailer struct {
	addr string
	from string
	auth smtp.Auth
}

func (m *smtpMailer) Send(_ context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)
	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg))
}

// logMailer records outbound mail instead of sending it.
type logMailer struct {
	log *logrus.Logger
}

func (m *logMailer) Send(_ context.Context, to, subject, _ string) error {
	m.log.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("mailer disabled, skipping email")
	return nil
}
