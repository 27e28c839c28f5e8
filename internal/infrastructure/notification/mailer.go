package notification

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/pkg/config"
	"github.com/litovianka/bike-service/internal/pkg/logger"
)

// defaultSMTPPort is used when the settings leave the port unset.
const defaultSMTPPort = 587

// smtpMailer delivers emails through an SMTP relay using gomail.
type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	logger logger.Logger
}

// NewSMTPMailer creates a Mailer that sends through the configured SMTP relay
func NewSMTPMailer(settings *config.NotificationSettings, logger logger.Logger) (notifications.Mailer, error) {
	if settings.SMTPHost == "" {
		return nil, fmt.Errorf("smtp host must not be empty")
	}

	port := settings.SMTPPort
	if port == 0 {
		port = defaultSMTPPort
	}

	return &smtpMailer{
		dialer: gomail.NewDialer(settings.SMTPHost, port, settings.SMTPUsername, settings.SMTPPassword),
		from:   settings.FromAddress,
		logger: logger,
	}, nil
}

// Send delivers a single email
func (m *smtpMailer) Send(ctx context.Context, email *notifications.Email) error {
	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", email.To)
	message.SetHeader("Subject", email.Subject)
	message.SetBody("text/plain", email.Body)

	if email.AttachmentName != "" {
		content := email.Attachment
		message.Attach(email.AttachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	if err := m.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", email.To, err)
	}

	m.logger.Info("Sent email to ", email.To, ": ", email.Subject)
	return nil
}

// consoleMailer writes emails to the log instead of sending them, which is
// the development mode.
type consoleMailer struct {
	logger logger.Logger
}

// NewConsoleMailer creates a Mailer that logs emails instead of sending them
func NewConsoleMailer(logger logger.Logger) (notifications.Mailer, error) {
	return &consoleMailer{logger: logger}, nil
}

// Send logs a single email
func (m *consoleMailer) Send(ctx context.Context, email *notifications.Email) error {
	m.logger.Info("Email to ", email.To, ": ", email.Subject, "\n", email.Body)
	if email.AttachmentName != "" {
		m.logger.Info("Attachment ", email.AttachmentName, " (", len(email.Attachment), " bytes)")
	}
	return nil
}

// NewMailer creates the Mailer the settings call for: SMTP when a host is
// configured, the console otherwise.
func NewMailer(settings *config.NotificationSettings, logger logger.Logger) (notifications.Mailer, error) {
	if settings.SMTPHost != "" {
		return NewSMTPMailer(settings, logger)
	}

	logger.Warn("SMTP host not configured, emails are written to the log")
	return NewConsoleMailer(logger)
}
