// cmd/bike-service-worker/main.go
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/litovianka/bike-service/internal/infrastructure/notification"
	"github.com/litovianka/bike-service/internal/infrastructure/pdfgen"
	"github.com/litovianka/bike-service/internal/infrastructure/persistence"
	"github.com/litovianka/bike-service/internal/pkg/config"
	"github.com/litovianka/bike-service/internal/pkg/logger"
	"github.com/litovianka/bike-service/internal/pkg/token"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/worker.yaml"
	}

	workerConfig, err := config.InitializeWorkerConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&workerConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	consumer, err := initializeConsumer(workerConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize consumer: %w", err)
	}

	if err := consumer.Start(); err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	// Block until we receive an interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Received signal ", sig, ", draining in-flight deliveries")

	if err := consumer.Close(); err != nil {
		return fmt.Errorf("failed to close consumer: %w", err)
	}

	log.Info("Worker stopped gracefully")
	return nil
}

// initializeConsumer wires the dispatcher behind a broker subscription.
// Messages are composed from current data at delivery time, which is why the
// worker needs the full persistence layer.
func initializeConsumer(cfg *config.WorkerConfig, log logger.Logger) (*notification.NATSConsumer, error) {
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	orderRepo, err := persistence.NewGormOrderRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create order repository: %w", err)
	}

	bikeRepo, err := persistence.NewGormBikeRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create bike repository: %w", err)
	}

	customerRepo, err := persistence.NewGormCustomerRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer repository: %w", err)
	}

	userRepo, err := persistence.NewGormUserRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}

	ticketRepo, err := persistence.NewGormTicketRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket repository: %w", err)
	}

	messageRepo, err := persistence.NewGormTicketMessageRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket message repository: %w", err)
	}

	tokenManager, err := token.NewManager(
		cfg.Auth.SecretKey,
		time.Duration(cfg.Auth.SessionTTLMinutes)*time.Minute,
		time.Duration(cfg.Auth.SetPasswordTTLHours)*time.Hour,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token manager: %w", err)
	}

	mailer, err := notification.NewMailer(&cfg.Notification, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}

	smsSender, err := notification.NewSMSSender(&cfg.Notification, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMS sender: %w", err)
	}

	protocolRenderer, err := pdfgen.NewProtocolRenderer(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create protocol renderer: %w", err)
	}

	dispatcher, err := notification.NewDispatcher(
		orderRepo, bikeRepo, customerRepo, userRepo,
		ticketRepo, messageRepo,
		mailer, smsSender, protocolRenderer, tokenManager,
		&cfg.Notification, log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	return notification.NewNATSConsumer(cfg.Notification.BrokerURL, dispatcher, log)
}
