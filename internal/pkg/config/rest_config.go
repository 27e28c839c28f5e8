package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// RestConfig aggregates every settings section the REST API needs.
type RestConfig struct {
	Database     DatabaseSettings     `mapstructure:"database"`
	Logger       LoggerSettings       `mapstructure:"logger"`
	Server       ServerSettings       `mapstructure:"server"`
	Auth         AuthSettings         `mapstructure:"auth"`
	Notification NotificationSettings `mapstructure:"notification"`
	Storage      StorageSettings      `mapstructure:"storage"`
	// AutoMigrate runs the gorm schema sync on startup. Meant for sqlite
	// development databases; postgres deployments apply versioned
	// migrations through the CLI instead.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// InitializeRestConfig loads the REST API configuration from a YAML file and
// applies the environment overrides the deployment platform injects.
func InitializeRestConfig(configPath string) (*RestConfig, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	setRestDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg RestConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setRestDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.dashboard_cache_ttl", 60)
	v.SetDefault("auth.session_ttl_minutes", 720)
	v.SetDefault("auth.set_password_ttl_hours", 72)
	v.SetDefault("notification.from_address", "servis@mojbike.sk")
	v.SetDefault("notification.sms_provider", SMSProviderConsole)
	v.SetDefault("storage.media_root", "media")
	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
}

// applyEnvOverrides lets the deployment environment replace file values.
// DATABASE_URL, SECRET_KEY and PORT are the variables Render injects;
// BROKER_URL and SMTP_PASSWORD cover credentials kept out of the repo.
func applyEnvOverrides(cfg *RestConfig) error {
	if rawURL := os.Getenv("DATABASE_URL"); rawURL != "" {
		settings, err := ParseDatabaseURL(rawURL)
		if err != nil {
			return fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		cfg.Database = settings
	}
	if secretKey := os.Getenv("SECRET_KEY"); secretKey != "" {
		cfg.Auth.SecretKey = secretKey
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if brokerURL := os.Getenv("BROKER_URL"); brokerURL != "" {
		cfg.Notification.BrokerURL = brokerURL
		cfg.Notification.Eager = false
	}
	if smtpPassword := os.Getenv("SMTP_PASSWORD"); smtpPassword != "" {
		cfg.Notification.SMTPPassword = smtpPassword
	}
	return nil
}

// Validate checks every section of the REST configuration
func (c *RestConfig) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Notification.Validate(); err != nil {
		return err
	}
	return c.Storage.Validate()
}
