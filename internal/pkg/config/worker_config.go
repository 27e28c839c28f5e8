package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// WorkerConfig aggregates the settings sections the notification worker needs.
// The worker consumes queued jobs from the broker, so eager delivery is not a
// valid mode for it.
type WorkerConfig struct {
	Database DatabaseSettings `mapstructure:"database"`
	Logger   LoggerSettings   `mapstructure:"logger"`
	// Auth is needed because invite and welcome emails carry signed
	// set-password links; the worker must sign them with the same secret
	// as the API.
	Auth         AuthSettings         `mapstructure:"auth"`
	Notification NotificationSettings `mapstructure:"notification"`
}

// InitializeWorkerConfig loads the worker configuration from a YAML file and
// applies environment overrides.
func InitializeWorkerConfig(configPath string) (*WorkerConfig, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetDefault("notification.from_address", "servis@mojbike.sk")
	v.SetDefault("notification.sms_provider", SMSProviderConsole)
	v.SetDefault("auth.session_ttl_minutes", 720)
	v.SetDefault("auth.set_password_ttl_hours", 72)
	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg WorkerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if rawURL := os.Getenv("DATABASE_URL"); rawURL != "" {
		settings, err := ParseDatabaseURL(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		cfg.Database = settings
	}
	if secretKey := os.Getenv("SECRET_KEY"); secretKey != "" {
		cfg.Auth.SecretKey = secretKey
	}
	if brokerURL := os.Getenv("BROKER_URL"); brokerURL != "" {
		cfg.Notification.BrokerURL = brokerURL
	}
	if smtpPassword := os.Getenv("SMTP_PASSWORD"); smtpPassword != "" {
		cfg.Notification.SMTPPassword = smtpPassword
	}

	if cfg.Notification.Eager {
		return nil, fmt.Errorf("worker config must not enable eager delivery")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks every section of the worker configuration
func (c *WorkerConfig) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Notification.Validate()
}
