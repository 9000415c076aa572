package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	User        string
	Pass        string
	From        string
	FrontendURL string
}

// SMTPMailer sends the verification and reset templates through a single
// SMTP account.
type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
	}
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func (m *SMTPMailer) SendVerificationCode(_ context.Context, to, name, code string) error {
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>Please use the following verification code to verify your email address:</p>
<h1 style="letter-spacing:3px">%s</h1>
<p>This code will expire in 10 minutes.</p>
<p>If you didn't request this verification, please ignore this email.</p>`, name, code)
	return m.send(to, "Email Verification Code", body)
}

func (m *SMTPMailer) SendPasswordResetCode(_ context.Context, to, name, code string) error {
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>You requested to reset your password. Please use the following code to proceed:</p>
<h1 style="letter-spacing:3px">%s</h1>
<p>This code will expire in 10 minutes.</p>
<p>If you didn't request this password reset, please ignore this email.</p>`, name, code)
	return m.send(to, "Password Reset Code", body)
}

func (m *SMTPMailer) SendAccountVerification(_ context.Context, to, name, token string) error {
	url := fmt.Sprintf("%s/verify-account?token=%s", m.cfg.FrontendURL, token)
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>Thank you for registering. To activate your account, please verify your
email address by opening the link below:</p>
<p><a href="%s">Verify My Account</a></p>
<p>Or copy and paste this link into your browser:</p>
<p>%s</p>
<p>This verification link will expire in 24 hours.</p>
<p>If you didn't create this account, please ignore this email.</p>`, name, url, url)
	return m.send(to, "Welcome - Please Verify Your Account", body)
}

func (m *SMTPMailer) SendPasswordResetLink(_ context.Context, to, name, token string) error {
	url := fmt.Sprintf("%s/reset-password?token=%s", m.cfg.FrontendURL, token)
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>You requested to reset your password. Open the link below to choose a new one:</p>
<p><a href="%s">Reset My Password</a></p>
<p>This link will expire in 1 hour.</p>
<p>If you didn't request this password reset, please ignore this email.</p>`, name, url)
	return m.send(to, "Password Reset", body)
}
