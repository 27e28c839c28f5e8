//go:build integration
// +build integration

package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/domain/users"
	"github.com/litovianka/bike-service/internal/infrastructure/pdfgen"
	"github.com/litovianka/bike-service/internal/infrastructure/persistence"
	"github.com/litovianka/bike-service/internal/infrastructure/storage"
	"github.com/litovianka/bike-service/internal/pkg/config"
	"github.com/litovianka/bike-service/internal/pkg/testutil"
	"github.com/litovianka/bike-service/internal/pkg/token"
)

// TestSecretKey signs tokens in integration tests.
const TestSecretKey = "integration-test-secret-key-0123456789"

// RecordingQueue captures enqueued jobs instead of delivering them, so tests
// can assert what a flow would have sent.
type RecordingQueue struct {
	mu   sync.Mutex
	jobs []*notifications.Job
}

// Enqueue records the job.
func (q *RecordingQueue) Enqueue(ctx context.Context, job *notifications.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

// Close is a no-op.
func (q *RecordingQueue) Close() error { return nil }

// Jobs returns a snapshot of everything enqueued so far.
func (q *RecordingQueue) Jobs() []*notifications.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*notifications.Job(nil), q.jobs...)
}

// JobsOfKind filters the recorded jobs by kind.
func (q *RecordingQueue) JobsOfKind(kind notifications.JobKind) []*notifications.Job {
	var matched []*notifications.Job
	for _, job := range q.Jobs() {
		if job.Kind == kind {
			matched = append(matched, job)
		}
	}
	return matched
}

// TestServices holds all application services and dependencies for testing
type TestServices struct {
	UserService      users.UserService
	CustomerService  customers.CustomerService
	OrderService     orders.OrderService
	PortalService    orders.PortalService
	TicketService    tickets.TicketService
	DashboardService orders.DashboardService

	Queue     *RecordingQueue
	Tokens    *token.Manager
	DBContext *persistence.TestContext
	MediaRoot string
}

// SetupTestServices initializes all application services for integration tests
func SetupTestServices(t *testing.T, dbType string) *TestServices {
	t.Helper()

	logger := testutil.SetupTestLogger(t)
	dbContext := persistence.SetupTestDB(t, dbType)

	queue := &RecordingQueue{}

	tokenManager, err := token.NewManager(TestSecretKey, 12*time.Hour, 72*time.Hour, nil)
	require.NoError(t, err, "Failed to create token manager")

	mediaRoot := t.TempDir()
	photoStore, err := storage.NewDiskPhotoStore(&config.StorageSettings{MediaRoot: mediaRoot}, logger)
	require.NoError(t, err, "Failed to create photo store")

	protocolRenderer, err := pdfgen.NewProtocolRenderer(logger)
	require.NoError(t, err, "Failed to create protocol renderer")

	dashboardService, err := NewDashboardService(dbContext.StatsRepo, time.Minute, logger)
	require.NoError(t, err, "Failed to create dashboard service")

	userService, err := NewUserService(dbContext.UserRepo, tokenManager, logger)
	require.NoError(t, err, "Failed to create user service")

	customerService, err := NewCustomerService(dbContext.CustomerRepo, dbContext.BikeRepo, dbContext.UserRepo, queue, logger)
	require.NoError(t, err, "Failed to create customer service")

	orderService, err := NewOrderService(
		dbContext.OrderRepo, dbContext.PhotoRepo,
		dbContext.BikeRepo, dbContext.CustomerRepo, dbContext.UserRepo,
		dbContext.TicketRepo, dbContext.LogRepo,
		customerService, photoStore, protocolRenderer,
		queue, dashboardService, logger,
	)
	require.NoError(t, err, "Failed to create order service")

	portalService, err := NewPortalService(customerService, dbContext.BikeRepo, dbContext.OrderRepo, logger)
	require.NoError(t, err, "Failed to create portal service")

	ticketService, err := NewTicketService(
		dbContext.TicketRepo, dbContext.MessageRepo,
		dbContext.OrderRepo, dbContext.BikeRepo, dbContext.CustomerRepo,
		dbContext.LogRepo,
		customerService, queue, dashboardService, logger,
	)
	require.NoError(t, err, "Failed to create ticket service")

	return &TestServices{
		UserService:      userService,
		CustomerService:  customerService,
		OrderService:     orderService,
		PortalService:    portalService,
		TicketService:    ticketService,
		DashboardService: dashboardService,
		Queue:            queue,
		Tokens:           tokenManager,
		DBContext:        dbContext,
		MediaRoot:        mediaRoot,
	}
}

// CreatePersistedOrder stores a customer, their bike, and one order, and
// returns all three. The fixture most service tests start from.
func CreatePersistedOrder(t *testing.T, services *TestServices) (*customers.Customer, *customers.Bike, *orders.ServiceOrder) {
	t.Helper()

	ctx := context.Background()

	customer := persistence.CreateTestCustomer(t, "", "")
	require.NoError(t, services.DBContext.CustomerRepo.Create(ctx, customer))

	bike := persistence.CreateTestBike(t, customer.ID, "")
	require.NoError(t, services.DBContext.BikeRepo.Create(ctx, bike))

	order := persistence.CreateTestOrder(t, bike.ID)
	require.NoError(t, services.DBContext.OrderRepo.Create(ctx, order))

	return customer, bike, order
}
