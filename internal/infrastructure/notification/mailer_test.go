//go:build unit
// +build unit

package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/pkg/config"
	"github.com/litovianka/bike-service/internal/pkg/testutil"
)

func TestConsoleMailer(t *testing.T) {
	testLogger := testutil.SetupTestLogger(t)

	mailer, err := NewConsoleMailer(testLogger)
	require.NoError(t, err)

	email := &notifications.Email{
		To:             "jana@example.com",
		Subject:        "Servis protokol #2024-077",
		Body:           "Ahoj Jana\n",
		AttachmentName: "servis_protokol_2024-077.pdf",
		Attachment:     []byte("%PDF-1.4"),
	}

	assert.NoError(t, mailer.Send(context.Background(), email))
}

func TestNewSMTPMailerRequiresHost(t *testing.T) {
	testLogger := testutil.SetupTestLogger(t)

	_, err := NewSMTPMailer(&config.NotificationSettings{}, testLogger)

	require.Error(t, err)
}

func TestNewMailerPicksTransport(t *testing.T) {
	testLogger := testutil.SetupTestLogger(t)

	console, err := NewMailer(&config.NotificationSettings{FromAddress: "servis@mojbike.sk"}, testLogger)
	require.NoError(t, err)
	assert.IsType(t, &consoleMailer{}, console)

	smtp, err := NewMailer(&config.NotificationSettings{
		FromAddress: "servis@mojbike.sk",
		SMTPHost:    "smtp.example.com",
		SMTPPort:    2525,
	}, testLogger)
	require.NoError(t, err)
	assert.IsType(t, &smtpMailer{}, smtp)
}
