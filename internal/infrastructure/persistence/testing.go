//go:build integration
// +build integration

package persistence

import (
	"strings"
	"testing"
	"time"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/domain/users"
	"github.com/litovianka/bike-service/internal/pkg/config"
	"github.com/litovianka/bike-service/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Test fixture defaults
const (
	TestCustomerName  = "Jana Kováčová"
	TestCustomerEmail = "jana@example.com"
	TestCustomerPhone = "+421 903 123 456"

	TestBikeBrand = "Canyon"
	TestBikeModel = "Grand Canyon 7"
)

// TestContext holds test database and repositories
type TestContext struct {
	DB           *gorm.DB
	UserRepo     users.UserRepository
	CustomerRepo customers.CustomerRepository
	BikeRepo     customers.BikeRepository
	OrderRepo    orders.OrderRepository
	PhotoRepo    orders.PhotoRepository
	StatsRepo    orders.StatsRepository
	TicketRepo   tickets.TicketRepository
	MessageRepo  tickets.TicketMessageRepository
	LogRepo      notifications.LogRepository
}

// SetupTestDB initializes test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	var cleanupFunc func()

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  ":memory:",
		}
		cleanupFunc = func() {
			// SQLite in-memory cleanup is automatic
		}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type: config.PostgresDbType,
			DSN:  "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			Name: uniqueDBName,
		}
		cleanupFunc = func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	// Create connection
	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	// Register cleanup
	t.Cleanup(func() {
		CloseDB(db)
		cleanupFunc()
	})

	// Migrate schema
	err = AutoMigrateSchema(db)
	require.NoError(t, err, "Failed to migrate schema")

	// Create repositories
	logger := testutil.SetupTestLogger(t)

	userRepo, err := NewGormUserRepository(db, logger)
	require.NoError(t, err, "Failed to create user repository")

	customerRepo, err := NewGormCustomerRepository(db, logger)
	require.NoError(t, err, "Failed to create customer repository")

	bikeRepo, err := NewGormBikeRepository(db, logger)
	require.NoError(t, err, "Failed to create bike repository")

	orderRepo, err := NewGormOrderRepository(db, logger)
	require.NoError(t, err, "Failed to create order repository")

	photoRepo, err := NewGormPhotoRepository(db, logger)
	require.NoError(t, err, "Failed to create photo repository")

	statsRepo, err := NewGormStatsRepository(db, logger)
	require.NoError(t, err, "Failed to create stats repository")

	ticketRepo, err := NewGormTicketRepository(db, logger)
	require.NoError(t, err, "Failed to create ticket repository")

	messageRepo, err := NewGormTicketMessageRepository(db, logger)
	require.NoError(t, err, "Failed to create ticket message repository")

	logRepo, err := NewGormOrderLogRepository(db, logger)
	require.NoError(t, err, "Failed to create order log repository")

	return &TestContext{
		DB:           db,
		UserRepo:     userRepo,
		CustomerRepo: customerRepo,
		BikeRepo:     bikeRepo,
		OrderRepo:    orderRepo,
		PhotoRepo:    photoRepo,
		StatsRepo:    statsRepo,
		TicketRepo:   ticketRepo,
		MessageRepo:  messageRepo,
		LogRepo:      logRepo,
	}
}

// CreateTestCustomer creates a test customer with default values
func CreateTestCustomer(t *testing.T, fullName, email string) *customers.Customer {
	t.Helper()

	if fullName == "" {
		fullName = TestCustomerName
	}
	if email == "" {
		email = TestCustomerEmail
	}

	return &customers.Customer{
		FullName:    fullName,
		Email:       email,
		PhoneNumber: TestCustomerPhone,
	}
}

// CreateTestBike creates a test bike with default values
func CreateTestBike(t *testing.T, customerID int64, brand string) *customers.Bike {
	t.Helper()

	if brand == "" {
		brand = TestBikeBrand
	}

	return &customers.Bike{
		CustomerID:   customerID,
		Brand:        brand,
		Model:        TestBikeModel,
		SerialNumber: "SN-" + uuid.NewString()[:8],
	}
}

// CreateTestOrder creates a new test service order with default values
func CreateTestOrder(t *testing.T, bikeID int64) *orders.ServiceOrder {
	t.Helper()

	return &orders.ServiceOrder{
		BikeID:           bikeID,
		Status:           orders.StatusNew,
		IssueDescription: "Brzdy pískajú",
		Checklist:        map[string]bool{},
		CreatedAt:        time.Now().UTC(),
	}
}

// CreateTestTicket creates a test ticket with default values
func CreateTestTicket(t *testing.T, orderID int64, status tickets.Status) *tickets.Ticket {
	t.Helper()

	if status == "" {
		status = tickets.StatusOpen
	}

	return &tickets.Ticket{
		OrderID: orderID,
		Status:  status,
		Subject: "Otázka k servisu",
		Message: "Kedy bude bicykel hotový?",
	}
}
