package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// SMS provider constants
const (
	SMSProviderConsole = "console"
	SMSProviderHTTP    = "http"
)

// NotificationSettings configures outbound customer messaging: the SMTP relay
// for emails, the SMS provider and the queue transport. With Eager set, jobs
// are delivered in-process instead of being published to the broker, which is
// the local development mode.
type NotificationSettings struct {
	FromAddress   string `mapstructure:"from_address" validate:"required,email"`
	PortalBaseURL string `mapstructure:"portal_base_url" validate:"required,url"`
	SMTPHost      string `mapstructure:"smtp_host"`
	SMTPPort      int    `mapstructure:"smtp_port"`
	SMTPUsername  string `mapstructure:"smtp_username"`
	SMTPPassword  string `mapstructure:"smtp_password"`
	SMSProvider   string `mapstructure:"sms_provider" validate:"required,oneof=console http"`
	SMSGatewayURL string `mapstructure:"sms_gateway_url"`
	BrokerURL     string `mapstructure:"broker_url"`
	Eager         bool   `mapstructure:"eager"`
}

// Validate checks that all fields in NotificationSettings are valid
func (s *NotificationSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for NotificationSettings: %w", err)
	}

	if s.SMSProvider == SMSProviderHTTP && s.SMSGatewayURL == "" {
		return fmt.Errorf("sms gateway URL is required for the http provider")
	}
	if !s.Eager && s.BrokerURL == "" {
		return fmt.Errorf("broker URL is required unless eager delivery is enabled")
	}

	return nil
}
