//go:build integration
// +build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsSqliteRepository_DashboardStats(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	_, bike, open := createOrderChain(t, ctx)

	now := time.Now().UTC()

	inProgress := CreateTestOrder(t, bike.ID)
	inProgress.Status = orders.StatusInProgress
	require.NoError(t, ctx.OrderRepo.Create(context.Background(), inProgress))

	// Completed today after three days in the shop
	doneToday := CreateTestOrder(t, bike.ID)
	doneToday.Status = orders.StatusDone
	doneToday.CreatedAt = now.Add(-72 * time.Hour)
	completedNow := now
	doneToday.CompletedAt = &completedNow
	require.NoError(t, ctx.OrderRepo.Create(context.Background(), doneToday))

	// Completed ten days ago after one day in the shop
	doneEarlier := CreateTestOrder(t, bike.ID)
	doneEarlier.Status = orders.StatusDone
	doneEarlier.CreatedAt = now.Add(-264 * time.Hour)
	completedEarlier := now.Add(-240 * time.Hour)
	doneEarlier.CompletedAt = &completedEarlier
	require.NoError(t, ctx.OrderRepo.Create(context.Background(), doneEarlier))

	require.NoError(t, ctx.TicketRepo.Create(context.Background(), CreateTestTicket(t, open.ID, tickets.StatusWaitingAdmin)))
	require.NoError(t, ctx.TicketRepo.Create(context.Background(), CreateTestTicket(t, open.ID, tickets.StatusWaitingCustomer)))
	require.NoError(t, ctx.TicketRepo.Create(context.Background(), CreateTestTicket(t, open.ID, tickets.StatusClosed)))

	stats, err := ctx.StatsRepo.DashboardStats(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.WaitingTicketsCount)
	assert.Equal(t, int64(1), stats.OrdersNew)
	assert.Equal(t, int64(1), stats.OrdersInProgress)
	assert.Equal(t, int64(1), stats.OrdersDoneToday)
	assert.Equal(t, int64(2), stats.UnfinishedCount)
	assert.Equal(t, int64(2), stats.OpenTicketsCount)
	assert.Equal(t, int64(1), stats.CompletedLast7Days)

	// Mean of 3 and 1 days, rounded to one decimal place
	assert.InDelta(t, 2.0, stats.AvgRepairDays, 0.001)
}

func TestStatsSqliteRepository_DashboardStats_Empty(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	stats, err := ctx.StatsRepo.DashboardStats(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	assert.Zero(t, stats.WaitingTicketsCount)
	assert.Zero(t, stats.UnfinishedCount)
	assert.Zero(t, stats.CompletedLast7Days)
	assert.Zero(t, stats.AvgRepairDays)
}
