package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ServerSettings holds the HTTP server configuration for the REST API.
type ServerSettings struct {
	Port string `mapstructure:"port" validate:"required,numeric"`
	// DashboardCacheTTL is the staff dashboard statistics cache lifetime
	// in seconds.
	DashboardCacheTTL int `mapstructure:"dashboard_cache_ttl"`
}

// Validate checks that all fields in ServerSettings are valid
func (s *ServerSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for ServerSettings: %w", err)
	}

	if s.DashboardCacheTTL < 0 {
		return fmt.Errorf("dashboard cache TTL must not be negative")
	}

	return nil
}
