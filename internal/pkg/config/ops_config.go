package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// OpsConfig holds what the operational CLI commands need: a resolvable
// database plus the directories the backup command archives.
type OpsConfig struct {
	Database      DatabaseSettings `mapstructure:"database"`
	MigrationsDir string           `mapstructure:"migrations_dir"`
	BackupsDir    string           `mapstructure:"backups_dir"`
	ConfigsDir    string           `mapstructure:"configs_dir"`
}

// InitializeOpsConfig resolves CLI configuration. A config file named by
// configPath is optional as long as DATABASE_URL is set; with neither
// available the commands must refuse to run.
func InitializeOpsConfig(configPath string) (*OpsConfig, error) {
	cfg := &OpsConfig{
		MigrationsDir: "migrations",
		BackupsDir:    "backups",
		ConfigsDir:    "configs",
	}

	fileLoaded := false
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v := viper.New()
			v.SetConfigFile(configPath)
			v.SetDefault("migrations_dir", cfg.MigrationsDir)
			v.SetDefault("backups_dir", cfg.BackupsDir)
			v.SetDefault("configs_dir", cfg.ConfigsDir)

			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
			if err := v.Unmarshal(cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
			fileLoaded = true
		}
	}

	if rawURL := os.Getenv("DATABASE_URL"); rawURL != "" {
		settings, err := ParseDatabaseURL(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		cfg.Database = settings
	} else if !fileLoaded {
		return nil, fmt.Errorf("database configuration not resolvable: set DATABASE_URL or provide a config file")
	}

	if err := cfg.Database.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database settings: %w", err)
	}

	return cfg, nil
}
