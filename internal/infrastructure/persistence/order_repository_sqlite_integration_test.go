//go:build integration
// +build integration

package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/infrastructure/persistence/models"
	"github.com/litovianka/bike-service/internal/pkg/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createOrderChain persists a customer with one bike and one open order.
func createOrderChain(t *testing.T, tc *TestContext) (*customers.Customer, *customers.Bike, *orders.ServiceOrder) {
	t.Helper()

	customer := CreateTestCustomer(t, "", "")
	require.NoError(t, tc.CustomerRepo.Create(context.Background(), customer))

	bike := CreateTestBike(t, customer.ID, "")
	require.NoError(t, tc.BikeRepo.Create(context.Background(), bike))

	order := CreateTestOrder(t, bike.ID)
	require.NoError(t, tc.OrderRepo.Create(context.Background(), order))

	return customer, bike, order
}

func TestOrderSqliteRepository_Create(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, bike, _ := createOrderChain(t, ctx)

	order := CreateTestOrder(t, bike.ID)
	order.Checklist = map[string]bool{"brakes": true}
	err := ctx.OrderRepo.Create(context.Background(), order)
	require.NoError(t, err)
	assert.NotZero(t, order.ID)

	// Verify using GORM model (infrastructure concern)
	var createdOrderModel models.ServiceOrderModel
	err = ctx.DB.First(&createdOrderModel, "id = ?", order.ID).Error
	require.NoError(t, err)
	assert.Equal(t, "NEW", createdOrderModel.Status)
	assert.JSONEq(t, `{"brakes":true}`, createdOrderModel.Checklist)
}

func TestOrderRepository_Create_InvalidOrder(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	order := &orders.ServiceOrder{} // Invalid - missing required fields

	err := ctx.OrderRepo.Create(context.Background(), order)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestOrderSqliteRepository_GetByID(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, _, order := createOrderChain(t, ctx)

	fetchedOrder, err := ctx.OrderRepo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.NotNil(t, fetchedOrder)
	assert.Equal(t, order.ID, fetchedOrder.ID)
	assert.Equal(t, orders.StatusNew, fetchedOrder.Status)
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, err := ctx.OrderRepo.GetByID(context.Background(), 9999)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestOrderSqliteRepository_UpdateByID(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, _, order := createOrderChain(t, ctx)

	order.Status = orders.StatusDone
	order.Price = decimal.RequireFromString("39.50")
	order.Checklist = map[string]bool{"brakes": true, "wheels": false}
	completed := time.Now().UTC()
	order.CompletedAt = &completed
	require.NoError(t, ctx.OrderRepo.UpdateByID(context.Background(), order))

	// Verify update using GORM model
	var updatedOrderModel models.ServiceOrderModel
	require.NoError(t, ctx.DB.First(&updatedOrderModel, "id = ?", order.ID).Error)
	assert.Equal(t, "DONE", updatedOrderModel.Status)
	assert.True(t, updatedOrderModel.Price.Equal(decimal.RequireFromString("39.50")))
	assert.NotNil(t, updatedOrderModel.CompletedAt)
}

func TestOrderSqliteRepository_List_Tabs(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, bike, active := createOrderChain(t, ctx)

	completed := CreateTestOrder(t, bike.ID)
	completedAt := time.Now().UTC()
	completed.Status = orders.StatusDone
	completed.CompletedAt = &completedAt
	require.NoError(t, ctx.OrderRepo.Create(context.Background(), completed))

	query := orders.NewOrderQuery()
	page, err := ctx.OrderRepo.List(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, active.ID, page.Rows[0].Order.ID)
	require.NotNil(t, page.Rows[0].Bike)
	require.NotNil(t, page.Rows[0].Customer)
	assert.Equal(t, TestBikeBrand, page.Rows[0].Bike.Brand)
	assert.Equal(t, TestCustomerName, page.Rows[0].Customer.FullName)

	query = orders.NewOrderQuery()
	query.Tab = orders.TabCompleted
	page, err = ctx.OrderRepo.List(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, completed.ID, page.Rows[0].Order.ID)
}

func TestOrderSqliteRepository_List_StatusFilter(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, bike, _ := createOrderChain(t, ctx)

	inProgress := CreateTestOrder(t, bike.ID)
	inProgress.Status = orders.StatusInProgress
	require.NoError(t, ctx.OrderRepo.Create(context.Background(), inProgress))

	query := orders.NewOrderQuery()
	query.Status = string(orders.StatusInProgress)
	page, err := ctx.OrderRepo.List(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, inProgress.ID, page.Rows[0].Order.ID)
}

func TestOrderSqliteRepository_List_SearchByCode(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, bike, order := createOrderChain(t, ctx)

	coded := CreateTestOrder(t, bike.ID)
	coded.ServiceCode = "2024-077"
	require.NoError(t, ctx.OrderRepo.Create(context.Background(), coded))

	// A plain number addresses the order by ID
	query := orders.NewOrderQuery()
	query.Search = fmt.Sprintf("#%d", order.ID)
	page, err := ctx.OrderRepo.List(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, order.ID, page.Rows[0].Order.ID)

	// Digits also match inside the service code
	query = orders.NewOrderQuery()
	query.Search = "077"
	page, err = ctx.OrderRepo.List(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, coded.ID, page.Rows[0].Order.ID)
}

func TestOrderSqliteRepository_List_SearchTokens(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, _, order := createOrderChain(t, ctx)

	other := CreateTestCustomer(t, "Peter Novák", "peter@example.com")
	other.PhoneNumber = "0903123456"
	require.NoError(t, ctx.CustomerRepo.Create(context.Background(), other))
	otherBike := CreateTestBike(t, other.ID, "Trek")
	require.NoError(t, ctx.BikeRepo.Create(context.Background(), otherBike))
	otherOrder := CreateTestOrder(t, otherBike.ID)
	require.NoError(t, ctx.OrderRepo.Create(context.Background(), otherOrder))

	// All tokens have to match around the same order
	query := orders.NewOrderQuery()
	query.Search = "canyon jana"
	page, err := ctx.OrderRepo.List(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, order.ID, page.Rows[0].Order.ID)

	query = orders.NewOrderQuery()
	query.Search = "canyon peter"
	page, err = ctx.OrderRepo.List(context.Background(), query)
	require.NoError(t, err)
	assert.Empty(t, page.Rows)

	// A token's digits match the customer's phone number
	query = orders.NewOrderQuery()
	query.Search = "0903-123"
	page, err = ctx.OrderRepo.List(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, otherOrder.ID, page.Rows[0].Order.ID)
}

func TestOrderSqliteRepository_List_SearchTicketText(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, bike, order := createOrderChain(t, ctx)

	quiet := CreateTestOrder(t, bike.ID)
	require.NoError(t, ctx.OrderRepo.Create(context.Background(), quiet))

	ticket := CreateTestTicket(t, order.ID, tickets.StatusOpen)
	ticket.Subject = "Kolo vrzga pri brzdeni"
	require.NoError(t, ctx.TicketRepo.Create(context.Background(), ticket))
	message := &tickets.TicketMessage{
		TicketID: ticket.ID,
		Role:     tickets.RoleCustomer,
		Message:  "Stale to robi hluk",
	}
	require.NoError(t, ctx.MessageRepo.Create(context.Background(), message))

	query := orders.NewOrderQuery()
	query.Search = "vrzga"
	page, err := ctx.OrderRepo.List(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, order.ID, page.Rows[0].Order.ID)

	// Thread messages count as well
	query = orders.NewOrderQuery()
	query.Search = "hluk"
	page, err = ctx.OrderRepo.List(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, order.ID, page.Rows[0].Order.ID)
}

func TestOrderSqliteRepository_List_WaitingTickets(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, bike, waiting := createOrderChain(t, ctx)

	quiet := CreateTestOrder(t, bike.ID)
	require.NoError(t, ctx.OrderRepo.Create(context.Background(), quiet))

	ticket := CreateTestTicket(t, waiting.ID, tickets.StatusWaitingAdmin)
	require.NoError(t, ctx.TicketRepo.Create(context.Background(), ticket))

	query := orders.NewOrderQuery()
	query.WaitingTickets = true
	page, err := ctx.OrderRepo.List(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, waiting.ID, page.Rows[0].Order.ID)
}

func TestOrderSqliteRepository_List_Pagination(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, bike, _ := createOrderChain(t, ctx)

	base := time.Now().UTC()
	var ids []int64
	for i := 1; i <= 2; i++ {
		order := CreateTestOrder(t, bike.ID)
		order.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, ctx.OrderRepo.Create(context.Background(), order))
		ids = append(ids, order.ID)
	}

	query := orders.NewOrderQuery()
	query.PageSize = 2
	page, err := ctx.OrderRepo.List(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, 2, page.PageCount)
	require.Len(t, page.Rows, 2)
	// Newest first
	assert.Equal(t, ids[1], page.Rows[0].Order.ID)
	assert.Equal(t, ids[0], page.Rows[1].Order.ID)

	// An out-of-range page falls back to the last one
	query.Page = 9
	page, err = ctx.OrderRepo.List(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Rows, 1)
}

func TestOrderRepository_List_InvalidQuery(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	query := &orders.OrderQuery{Tab: "everything"}
	_, err := ctx.OrderRepo.List(context.Background(), query)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid query parameters")
}

func TestOrderSqliteRepository_GetLatestByBikeID(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, bike, first := createOrderChain(t, ctx)
	first.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, ctx.OrderRepo.UpdateByID(context.Background(), first))

	latest := CreateTestOrder(t, bike.ID)
	require.NoError(t, ctx.OrderRepo.Create(context.Background(), latest))

	fetchedOrder, err := ctx.OrderRepo.GetLatestByBikeID(context.Background(), bike.ID)
	require.NoError(t, err)
	require.NotNil(t, fetchedOrder)
	assert.Equal(t, latest.ID, fetchedOrder.ID)
}

func TestOrderSqliteRepository_GetLatestByBikeID_NoOrders(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	customer := CreateTestCustomer(t, "", "")
	require.NoError(t, ctx.CustomerRepo.Create(context.Background(), customer))
	bike := CreateTestBike(t, customer.ID, "")
	require.NoError(t, ctx.BikeRepo.Create(context.Background(), bike))

	fetchedOrder, err := ctx.OrderRepo.GetLatestByBikeID(context.Background(), bike.ID)
	require.NoError(t, err)
	assert.Nil(t, fetchedOrder)
}

func TestOrderSqliteRepository_ListByBikeID(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, bike, first := createOrderChain(t, ctx)
	first.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, ctx.OrderRepo.UpdateByID(context.Background(), first))

	second := CreateTestOrder(t, bike.ID)
	require.NoError(t, ctx.OrderRepo.Create(context.Background(), second))

	list, err := ctx.OrderRepo.ListByBikeID(context.Background(), bike.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestOrderSqliteRepository_ListRecentByCustomerID(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	customer, bike, current := createOrderChain(t, ctx)

	base := time.Now().UTC()
	var ids []int64
	for i := 1; i <= 3; i++ {
		order := CreateTestOrder(t, bike.ID)
		order.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, ctx.OrderRepo.Create(context.Background(), order))
		ids = append(ids, order.ID)
	}

	rows, err := ctx.OrderRepo.ListRecentByCustomerID(context.Background(), customer.ID, current.ID, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ids[2], rows[0].Order.ID)
	assert.Equal(t, ids[1], rows[1].Order.ID)
	require.NotNil(t, rows[0].Bike)
	assert.Equal(t, TestBikeBrand, rows[0].Bike.Brand)
}

func TestOrderSqliteRepository_CustomerTotals(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	customer, bike, open := createOrderChain(t, ctx)
	open.Price = decimal.RequireFromString("99.00")
	require.NoError(t, ctx.OrderRepo.UpdateByID(context.Background(), open))

	completedAt := time.Now().UTC()
	for _, price := range []string{"10.50", "20.00"} {
		order := CreateTestOrder(t, bike.ID)
		order.Status = orders.StatusDone
		order.Price = decimal.RequireFromString(price)
		order.CompletedAt = &completedAt
		require.NoError(t, ctx.OrderRepo.Create(context.Background(), order))
	}

	count, err := ctx.OrderRepo.CountByCustomerID(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// Only completed orders count toward the paid total
	total, err := ctx.OrderRepo.TotalPaidByCustomerID(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("30.50")), "got %s", total)
}
