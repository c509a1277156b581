package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

const (
	emailName    = "email"
	emailSubject = "VC Sourcing Summary"
)

// Email sends run summaries through an SMTP relay. The connection is
// upgraded with STARTTLS when the server offers it.
type Email struct {
	Host string
	Port int
	User string
	Pass string
	From string
	To   []string
}

func (e *Email) Name() string {
	return emailName
}

// Notify sends the message as a plain-text email.
func (e *Email) Notify(_ context.Context, message string) error {
	if e.Host == "" || e.From == "" || len(e.To) == 0 {
		return errors.New("smtp host, from, and to are required")
	}

	var auth smtp.Auth
	if e.User != "" {
		auth = smtp.PlainAuth("", e.User, e.Pass, e.Host)
	}

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", e.From),
		fmt.Sprintf("To: %s", strings.Join(e.To, ", ")),
		fmt.Sprintf("Subject: %s", emailSubject),
		"",
		message,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", e.Host, e.Port)
	if err := smtp.SendMail(addr, auth, e.From, e.To, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
