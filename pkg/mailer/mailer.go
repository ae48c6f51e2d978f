package mailer

import (
	"fmt"

	"github.com/anonfeed/anonfeed/pkg/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends account verification emails
type Mailer interface {
	SendVerificationEmail(to, username, code string) error
}

// SMTPMailer implements Mailer over an SMTP relay
type SMTPMailer struct {
	cfg config.SMTP
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendVerificationEmail delivers the 6-digit verification code
func (m *SMTPMailer) SendVerificationEmail(to, username, code string) error {
	if m.cfg.Host == "" || m.cfg.Username == "" {
		return fmt.Errorf("SMTP relay is not configured")
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("AnonFeed <%s>", from))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Verify your account")
	msg.SetBody("text/html", fmt.Sprintf(
		"<strong>Hello %s,</strong><br/><br/>Thank you for registering with us. Please use the following verification code to verify your account: <strong>%s</strong><br/><br/>If you did not register with us, please ignore this email.",
		username, code))

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
