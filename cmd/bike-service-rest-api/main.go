// cmd/bike-service-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	v1 "github.com/litovianka/bike-service/internal/api/rest/v1"
	"github.com/litovianka/bike-service/internal/app"
	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/domain/users"
	"github.com/litovianka/bike-service/internal/infrastructure/notification"
	"github.com/litovianka/bike-service/internal/infrastructure/pdfgen"
	"github.com/litovianka/bike-service/internal/infrastructure/persistence"
	"github.com/litovianka/bike-service/internal/infrastructure/storage"
	"github.com/litovianka/bike-service/internal/pkg/config"
	"github.com/litovianka/bike-service/internal/pkg/logger"
	"github.com/litovianka/bike-service/internal/pkg/ratelimit"
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
		configPath = "configs/rest-app.yaml"
	}

	restConfig, err := config.InitializeRestConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	deps, err := initializeDependencies(restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if err := deps.queue.Close(); err != nil {
			log.Error("Failed to close notification queue: ", err)
		}
	}()

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(restConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	db       *gorm.DB
	tokens   *token.Manager
	limiter  *ratelimit.Limiter
	queue    notifications.Queue
	services *appServices
}

type appServices struct {
	user      users.UserService
	customer  customers.CustomerService
	order     orders.OrderService
	portal    orders.PortalService
	ticket    tickets.TicketService
	dashboard orders.DashboardService
}

type appRepositories struct {
	user          users.UserRepository
	customer      customers.CustomerRepository
	bike          customers.BikeRepository
	order         orders.OrderRepository
	photo         orders.PhotoRepository
	ticket        tickets.TicketRepository
	ticketMessage tickets.TicketMessageRepository
	orderLog      notifications.LogRepository
	stats         orders.StatsRepository
}

// initializeDependencies sets up all application components
func initializeDependencies(cfg *config.RestConfig, log logger.Logger) (*appDependencies, error) {
	// Initialize database
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	// Sync the schema on sqlite development databases; postgres deployments
	// run versioned migrations through the CLI before the server starts.
	if cfg.AutoMigrate {
		if err := persistence.AutoMigrateSchema(db); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		log.Info("Database schema synced")
	}

	repos, err := initializeRepositories(db, log)
	if err != nil {
		return nil, err
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

	protocolRenderer, err := pdfgen.NewProtocolRenderer(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create protocol renderer: %w", err)
	}

	queue, err := initializeQueue(cfg, repos, protocolRenderer, tokenManager, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize notification queue: %w", err)
	}

	services, err := initializeApplicationServices(cfg, repos, protocolRenderer, tokenManager, queue, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &appDependencies{
		db:       db,
		tokens:   tokenManager,
		limiter:  ratelimit.NewLimiter(),
		queue:    queue,
		services: services,
	}, nil
}

// initializeRepositories sets up the persistence layer
func initializeRepositories(db *gorm.DB, log logger.Logger) (*appRepositories, error) {
	userRepo, err := persistence.NewGormUserRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}

	customerRepo, err := persistence.NewGormCustomerRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer repository: %w", err)
	}

	bikeRepo, err := persistence.NewGormBikeRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create bike repository: %w", err)
	}

	orderRepo, err := persistence.NewGormOrderRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create order repository: %w", err)
	}

	photoRepo, err := persistence.NewGormPhotoRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create photo repository: %w", err)
	}

	ticketRepo, err := persistence.NewGormTicketRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket repository: %w", err)
	}

	ticketMessageRepo, err := persistence.NewGormTicketMessageRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket message repository: %w", err)
	}

	orderLogRepo, err := persistence.NewGormOrderLogRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create order log repository: %w", err)
	}

	statsRepo, err := persistence.NewGormStatsRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create stats repository: %w", err)
	}

	return &appRepositories{
		user:          userRepo,
		customer:      customerRepo,
		bike:          bikeRepo,
		order:         orderRepo,
		photo:         photoRepo,
		ticket:        ticketRepo,
		ticketMessage: ticketMessageRepo,
		orderLog:      orderLogRepo,
		stats:         statsRepo,
	}, nil
}

// initializeQueue creates the notification queue. Eager mode delivers inside
// this process; otherwise jobs are published to the broker for the worker
// binary.
func initializeQueue(
	cfg *config.RestConfig,
	repos *appRepositories,
	protocolRenderer orders.ProtocolRenderer,
	tokenManager *token.Manager,
	log logger.Logger,
) (notifications.Queue, error) {
	if !cfg.Notification.Eager {
		return notification.NewNATSQueue(cfg.Notification.BrokerURL, log)
	}

	mailer, err := notification.NewMailer(&cfg.Notification, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}

	smsSender, err := notification.NewSMSSender(&cfg.Notification, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMS sender: %w", err)
	}

	dispatcher, err := notification.NewDispatcher(
		repos.order, repos.bike, repos.customer, repos.user,
		repos.ticket, repos.ticketMessage,
		mailer, smsSender, protocolRenderer, tokenManager,
		&cfg.Notification, log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	return notification.NewChannelQueue(dispatcher, log)
}

// initializeApplicationServices sets up all application services
func initializeApplicationServices(
	cfg *config.RestConfig,
	repos *appRepositories,
	protocolRenderer orders.ProtocolRenderer,
	tokenManager *token.Manager,
	queue notifications.Queue,
	log logger.Logger,
) (*appServices, error) {
	photoStore, err := storage.NewDiskPhotoStore(&cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create photo store: %w", err)
	}

	dashboardService, err := app.NewDashboardService(
		repos.stats,
		time.Duration(cfg.Server.DashboardCacheTTL)*time.Second,
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard service: %w", err)
	}

	userService, err := app.NewUserService(repos.user, tokenManager, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	customerService, err := app.NewCustomerService(repos.customer, repos.bike, repos.user, queue, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer service: %w", err)
	}

	orderService, err := app.NewOrderService(
		repos.order, repos.photo, repos.bike, repos.customer, repos.user,
		repos.ticket, repos.orderLog,
		customerService, photoStore, protocolRenderer, queue, dashboardService, log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create order service: %w", err)
	}

	portalService, err := app.NewPortalService(customerService, repos.bike, repos.order, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create portal service: %w", err)
	}

	ticketService, err := app.NewTicketService(
		repos.ticket, repos.ticketMessage, repos.order, repos.bike, repos.customer,
		repos.orderLog,
		customerService, queue, dashboardService, log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket service: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appServices{
		user:      userService,
		customer:  customerService,
		order:     orderService,
		portal:    portalService,
		ticket:    ticketService,
		dashboard: dashboardService,
	}, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.RestConfig, deps *appDependencies, log logger.Logger) error {
	// Setup router
	r := gin.Default()

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup API routes
	v1.SetupRoutes(r,
		deps.services.user,
		deps.services.customer,
		deps.services.order,
		deps.services.portal,
		deps.services.ticket,
		deps.services.dashboard,
		deps.tokens,
		deps.limiter,
		deps.db,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting server on port ", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal ", sig, ", initiating graceful shutdown")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
