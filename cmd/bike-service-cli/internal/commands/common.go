package commands

import (
	"fmt"
	"os"

	"github.com/litovianka/bike-service/internal/pkg/config"
	"github.com/litovianka/bike-service/internal/pkg/logger"
)

func setupLogger() (logger.Logger, error) {
	settings := config.DefaultLoggerSettings()

	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

// loadOpsConfig resolves the CLI configuration from CONFIG_PATH and
// DATABASE_URL.
func loadOpsConfig() (*config.OpsConfig, error) {
	return config.InitializeOpsConfig(os.Getenv("CONFIG_PATH"))
}
