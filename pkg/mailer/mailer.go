// Package mailer delivers rendered email through SendGrid.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Payphone-Digital/jury/config"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

var ErrNoRecipient = errors.New("mailer: recipient email is empty")

// Message is a rendered email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns a SendGrid sender, or a logging no-op when email is
// disabled or has no API key.
func New(cfg config.EmailConfig) Sender {
	if !cfg.Enabled || cfg.SendGridAPIKey == "" {
		return disabledSender{}
	}
	return NewSendGridSender(cfg)
}

type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridSender(cfg config.EmailConfig) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.From),
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if msg.ToEmail == "" {
		return ErrNoRecipient
	}

	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	message := mail.NewSingleEmail(s.from, msg.Subject, to, msg.Text, msg.HTML)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", response.StatusCode, response.Body)
	}

	logger.GetLogger().Debug("Email sent",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject),
		zap.Int("status_code", response.StatusCode),
	)
	return nil
}

type disabledSender struct{}

func (disabledSender) Send(_ context.Context, msg Message) error {
	logger.GetLogger().Debug("Email disabled; skipping send",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject),
	)
	return nil
}
