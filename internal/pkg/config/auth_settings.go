package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// AuthSettings holds token signing configuration. SecretKey signs both session
// tokens and one-time set-password tokens; the deployment injects it through
// the SECRET_KEY environment variable and startup fails hard without it.
type AuthSettings struct {
	SecretKey           string `mapstructure:"secret_key" validate:"required,min=32"`
	SessionTTLMinutes   int    `mapstructure:"session_ttl_minutes"`
	SetPasswordTTLHours int    `mapstructure:"set_password_ttl_hours"`
}

// Validate checks that all fields in AuthSettings are valid
func (s *AuthSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for AuthSettings: %w", err)
	}

	if s.SessionTTLMinutes < 1 || s.SessionTTLMinutes > 24*60 {
		return fmt.Errorf("session TTL must be between 1 minute and 24 hours")
	}
	if s.SetPasswordTTLHours < 1 || s.SetPasswordTTLHours > 7*24 {
		return fmt.Errorf("set-password TTL must be between 1 hour and 7 days")
	}

	return nil
}
