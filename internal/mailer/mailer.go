// Package mailer delivers transactional email: OTP codes for account
// verification and password resets, and final result notifications.
package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"

	"github.com/veritest/veritest-backend/internal/config"
)

// ResultSummary carries the fields rendered into a result notification.
type ResultSummary struct {
	TestName       string
	TotalQuestions int
	TotalMarks     int
	MarksObtained  int
}

// Notifier sends transactional mail. Delivery failures are the caller's
// decision to escalate or swallow.
type Notifier interface {
	SendOTP(ctx context.Context, to, otp string) error
	SendResult(ctx context.Context, to string, summary ResultSummary) error
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	client *gomail.Client
	from   string
	log    zerolog.Logger
}

// NewSMTPMailer builds an SMTP-backed Notifier from configuration.
func NewSMTPMailer(cfg *config.Config, log zerolog.Logger) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.SMTPUser),
			gomail.WithPassword(cfg.SMTPPass),
		)
	}

	client, err := gomail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPMailer{
		client: client,
		from:   cfg.MailFrom,
		log:    log.With().Str("component", "mailer").Logger(),
	}, nil
}

func (m *SMTPMailer) SendOTP(ctx context.Context, to, otp string) error {
	body := fmt.Sprintf(
		"Your verification code is %s.\n\nIt expires in 5 minutes. If you did not request this code, ignore this email.\n",
		otp,
	)
	return m.send(ctx, to, "Your verification code", body)
}

func (m *SMTPMailer) SendResult(ctx context.Context, to string, summary ResultSummary) error {
	body := fmt.Sprintf(
		"Your result for %q has been finalized.\n\nQuestions: %d\nMarks obtained: %d / %d\n\nLog in to view the full evaluation.\n",
		summary.TestName, summary.TotalQuestions, summary.MarksObtained, summary.TotalMarks,
	)
	return m.send(ctx, to, fmt.Sprintf("Result published: %s", summary.TestName), body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		m.log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("Failed to send email")
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Debug().Str("to", to).Str("subject", subject).Msg("Email sent")
	return nil
}
