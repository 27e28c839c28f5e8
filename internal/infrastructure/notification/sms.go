package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/pkg/config"
	"github.com/litovianka/bike-service/internal/pkg/logger"
)

// smsGatewayTimeout bounds one delivery call to the HTTP gateway.
const smsGatewayTimeout = 10 * time.Second

// consoleSMSSender writes text messages to the log instead of sending them.
type consoleSMSSender struct {
	logger logger.Logger
}

// NewConsoleSMSSender creates an SMSSender that logs messages instead of
// sending them
func NewConsoleSMSSender(logger logger.Logger) (notifications.SMSSender, error) {
	return &consoleSMSSender{logger: logger}, nil
}

// Send logs one text message
func (s *consoleSMSSender) Send(ctx context.Context, phone, text string) error {
	s.logger.Info("SMS to ", phone, ": ", text)
	return nil
}

// httpSMSSender posts text messages to an SMS gateway.
type httpSMSSender struct {
	gatewayURL string
	client     *http.Client
	logger     logger.Logger
}

// smsPayload is the gateway request body.
type smsPayload struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// NewHTTPSMSSender creates an SMSSender that posts messages to a gateway URL
func NewHTTPSMSSender(gatewayURL string, logger logger.Logger) (notifications.SMSSender, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("sms gateway URL must not be empty")
	}

	return &httpSMSSender{
		gatewayURL: gatewayURL,
		client:     &http.Client{Timeout: smsGatewayTimeout},
		logger:     logger,
	}, nil
}

// Send posts one text message to the gateway
func (s *httpSMSSender) Send(ctx context.Context, phone, text string) error {
	body, err := json.Marshal(smsPayload{To: phone, Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode sms payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := s.client.Do(request)
	if err != nil {
		return fmt.Errorf("failed to reach sms gateway: %w", err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			s.logger.Warn("Failed to close sms gateway response: ", err)
		}
	}()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("sms gateway returned status %d", response.StatusCode)
	}

	s.logger.Info("Sent SMS to ", phone)
	return nil
}

// NewSMSSender creates the SMSSender the settings call for
func NewSMSSender(settings *config.NotificationSettings, logger logger.Logger) (notifications.SMSSender, error) {
	switch settings.SMSProvider {
	case config.SMSProviderConsole:
		return NewConsoleSMSSender(logger)
	case config.SMSProviderHTTP:
		return NewHTTPSMSSender(settings.SMSGatewayURL, logger)
	default:
		return nil, fmt.Errorf("unsupported sms provider: %s", settings.SMSProvider)
	}
}
