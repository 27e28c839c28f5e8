//go:build integration
// +build integration

package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/infrastructure/persistence/models"
	"github.com/litovianka/bike-service/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketSqliteRepository_Create(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, _, order := createOrderChain(t, ctx)

	ticket := CreateTestTicket(t, order.ID, tickets.StatusWaitingAdmin)
	err := ctx.TicketRepo.Create(context.Background(), ticket)
	require.NoError(t, err)
	assert.NotZero(t, ticket.ID)
	assert.False(t, ticket.UpdatedAt.IsZero())

	// Verify using GORM model (infrastructure concern)
	var createdTicketModel models.TicketModel
	err = ctx.DB.First(&createdTicketModel, "id = ?", ticket.ID).Error
	require.NoError(t, err)
	assert.Equal(t, "WAITING_ADMIN", createdTicketModel.Status)
}

func TestTicketRepository_Create_InvalidTicket(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	ticket := &tickets.Ticket{} // Invalid - missing required fields

	err := ctx.TicketRepo.Create(context.Background(), ticket)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestTicketSqliteRepository_GetByIDForCustomer(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	customer, _, order := createOrderChain(t, ctx)

	ticket := CreateTestTicket(t, order.ID, tickets.StatusOpen)
	require.NoError(t, ctx.TicketRepo.Create(context.Background(), ticket))

	fetchedTicket, err := ctx.TicketRepo.GetByIDForCustomer(context.Background(), ticket.ID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, fetchedTicket.ID)

	// Someone else's ticket stays invisible
	stranger := CreateTestCustomer(t, "Peter Novák", "peter@example.com")
	require.NoError(t, ctx.CustomerRepo.Create(context.Background(), stranger))

	_, err = ctx.TicketRepo.GetByIDForCustomer(context.Background(), ticket.ID, stranger.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestTicketSqliteRepository_UpdateByID(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, _, order := createOrderChain(t, ctx)

	ticket := CreateTestTicket(t, order.ID, tickets.StatusOpen)
	require.NoError(t, ctx.TicketRepo.Create(context.Background(), ticket))

	ticket.Status = tickets.StatusClosed
	require.NoError(t, ctx.TicketRepo.UpdateByID(context.Background(), ticket))

	// Verify update using GORM model
	var updatedTicketModel models.TicketModel
	require.NoError(t, ctx.DB.First(&updatedTicketModel, "id = ?", ticket.ID).Error)
	assert.Equal(t, "CLOSED", updatedTicketModel.Status)
}

func TestTicketSqliteRepository_List(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, _, order := createOrderChain(t, ctx)

	open := CreateTestTicket(t, order.ID, tickets.StatusOpen)
	require.NoError(t, ctx.TicketRepo.Create(context.Background(), open))

	closed := CreateTestTicket(t, order.ID, tickets.StatusClosed)
	closed.Subject = "Vyzdvihnutie bicykla"
	require.NoError(t, ctx.TicketRepo.Create(context.Background(), closed))

	page, err := ctx.TicketRepo.List(context.Background(), tickets.NewTicketQuery())
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, TestCustomerName, page.Items[0].CustomerName)
	assert.Equal(t, TestBikeBrand+" "+TestBikeModel, page.Items[0].BikeLabel)
	assert.Equal(t, fmt.Sprintf("%d", order.ID), page.Items[0].OrderCode)

	// Status filter
	query := tickets.NewTicketQuery()
	query.Status = string(tickets.StatusClosed)
	page, err = ctx.TicketRepo.List(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, closed.ID, page.Items[0].Ticket.ID)
}

func TestTicketSqliteRepository_List_Search(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, _, order := createOrderChain(t, ctx)

	ticket := CreateTestTicket(t, order.ID, tickets.StatusOpen)
	ticket.Subject = "Prehadzovacka preskakuje"
	require.NoError(t, ctx.TicketRepo.Create(context.Background(), ticket))

	other := CreateTestTicket(t, order.ID, tickets.StatusOpen)
	require.NoError(t, ctx.TicketRepo.Create(context.Background(), other))

	// Subject match
	query := tickets.NewTicketQuery()
	query.Search = "preskakuje"
	page, err := ctx.TicketRepo.List(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ticket.ID, page.Items[0].Ticket.ID)

	// The numeric ticket ID matches as text
	query = tickets.NewTicketQuery()
	query.Search = fmt.Sprintf("%d", ticket.ID)
	page, err = ctx.TicketRepo.List(context.Background(), query)
	require.NoError(t, err)
	assert.NotEmpty(t, page.Items)

	// Customer name match reaches across the joins
	query = tickets.NewTicketQuery()
	query.Search = "jana"
	page, err = ctx.TicketRepo.List(context.Background(), query)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestTicketSqliteRepository_ListByCustomerID(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	customer, _, order := createOrderChain(t, ctx)

	mine := CreateTestTicket(t, order.ID, tickets.StatusOpen)
	require.NoError(t, ctx.TicketRepo.Create(context.Background(), mine))

	// Another customer's ticket must not show up
	stranger := CreateTestCustomer(t, "Peter Novák", "peter@example.com")
	require.NoError(t, ctx.CustomerRepo.Create(context.Background(), stranger))
	strangerBike := CreateTestBike(t, stranger.ID, "Trek")
	require.NoError(t, ctx.BikeRepo.Create(context.Background(), strangerBike))
	strangerOrder := CreateTestOrder(t, strangerBike.ID)
	require.NoError(t, ctx.OrderRepo.Create(context.Background(), strangerOrder))
	strangerTicket := CreateTestTicket(t, strangerOrder.ID, tickets.StatusOpen)
	require.NoError(t, ctx.TicketRepo.Create(context.Background(), strangerTicket))

	page, err := ctx.TicketRepo.ListByCustomerID(context.Background(), customer.ID, 1, tickets.CustomerPageSize)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, mine.ID, page.Items[0].Ticket.ID)
}

func TestTicketSqliteRepository_ListByOrderID(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, _, order := createOrderChain(t, ctx)

	older := CreateTestTicket(t, order.ID, tickets.StatusClosed)
	require.NoError(t, ctx.TicketRepo.Create(context.Background(), older))

	// The later updated_at sorts first
	time.Sleep(10 * time.Millisecond)
	newer := CreateTestTicket(t, order.ID, tickets.StatusOpen)
	require.NoError(t, ctx.TicketRepo.Create(context.Background(), newer))

	list, err := ctx.TicketRepo.ListByOrderID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
}

func TestTicketSqliteRepository_WaitingByOrderIDs(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, bike, waiting := createOrderChain(t, ctx)

	quiet := CreateTestOrder(t, bike.ID)
	require.NoError(t, ctx.OrderRepo.Create(context.Background(), quiet))

	closedOnly := CreateTestOrder(t, bike.ID)
	require.NoError(t, ctx.OrderRepo.Create(context.Background(), closedOnly))

	require.NoError(t, ctx.TicketRepo.Create(context.Background(), CreateTestTicket(t, waiting.ID, tickets.StatusOpen)))
	require.NoError(t, ctx.TicketRepo.Create(context.Background(), CreateTestTicket(t, closedOnly.ID, tickets.StatusClosed)))

	marks, err := ctx.TicketRepo.WaitingByOrderIDs(context.Background(), []int64{waiting.ID, quiet.ID, closedOnly.ID})
	require.NoError(t, err)
	assert.True(t, marks[waiting.ID])
	assert.False(t, marks[quiet.ID])
	assert.False(t, marks[closedOnly.ID])

	marks, err = ctx.TicketRepo.WaitingByOrderIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, marks)
}

func TestTicketMessageSqliteRepository_CreateAndList(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, _, order := createOrderChain(t, ctx)

	ticket := CreateTestTicket(t, order.ID, tickets.StatusOpen)
	require.NoError(t, ctx.TicketRepo.Create(context.Background(), ticket))

	first := &tickets.TicketMessage{
		TicketID: ticket.ID,
		Role:     tickets.RoleCustomer,
		Message:  "Kedy bude hotovy?",
	}
	require.NoError(t, ctx.MessageRepo.Create(context.Background(), first))

	second := &tickets.TicketMessage{
		TicketID: ticket.ID,
		Role:     tickets.RoleAdmin,
		Message:  "Zajtra poobede.",
	}
	require.NoError(t, ctx.MessageRepo.Create(context.Background(), second))

	// Oldest first, so the thread reads top down
	list, err := ctx.MessageRepo.ListByTicketID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, tickets.RoleCustomer, list[0].Role)
	assert.Equal(t, second.ID, list[1].ID)
}
