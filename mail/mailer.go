// Package mail sends transactional email (currently just password-reset
// OTPs) over SMTP.
package mail

import (
	"fmt"
	"os"
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailerFromEnv reads SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS and
// MAIL_FROM. It returns nil when credentials are absent so the caller can
// run without email configured.
func NewMailerFromEnv() *Mailer {
	host := os.Getenv("SMTP_HOST")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	if host == "" || user == "" || pass == "" {
		return nil
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "no-reply@stayfinder.app"
	}

	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

func (m *Mailer) SendOTP(to, otp string) error {
	if m == nil {
		return fmt.Errorf("mailer not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your OTP for Password Reset")
	msg.SetBody("text/plain", fmt.Sprintf("Your OTP for password reset is: %s", otp))

	return m.dialer.DialAndSend(msg)
}
