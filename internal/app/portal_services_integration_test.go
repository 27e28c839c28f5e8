//go:build integration
// +build integration

package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/infrastructure/persistence"
	"github.com/litovianka/bike-service/internal/pkg/config"
)

func TestPortalService_Overview(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	customer, bike, order := CreatePersistedOrder(t, services)
	user := createPortalUser(t, services, customer)

	// A second bike with no orders yet.
	spare := persistence.CreateTestBike(t, customer.ID, "Trek")
	require.NoError(t, services.DBContext.BikeRepo.Create(ctx, spare))

	overview, err := services.PortalService.Overview(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, overview.Customer.ID)
	require.Len(t, overview.Bikes, 2)

	byBikeID := map[int64]*orders.BikeWithLastOrder{}
	for _, entry := range overview.Bikes {
		byBikeID[entry.Bike.ID] = entry
	}
	require.NotNil(t, byBikeID[bike.ID].LastOrder)
	assert.Equal(t, order.ID, byBikeID[bike.ID].LastOrder.ID)
	assert.Nil(t, byBikeID[spare.ID].LastOrder)
}

func TestPortalService_BikeDetail(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	customer, bike, order := CreatePersistedOrder(t, services)
	user := createPortalUser(t, services, customer)

	detail, err := services.PortalService.BikeDetail(ctx, user.ID, bike.ID)
	require.NoError(t, err)
	assert.Equal(t, bike.ID, detail.Bike.ID)
	require.Len(t, detail.Orders, 1)
	assert.Equal(t, order.ID, detail.Orders[0].ID)
}

func TestPortalService_BikeDetail_ForeignBike(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	_, bike, _ := CreatePersistedOrder(t, services)

	other, _, err := services.CustomerService.FindOrCreateByContact(ctx, "Marek Horák", "marek@example.com", "")
	require.NoError(t, err)
	otherUser := createPortalUser(t, services, other)

	_, err = services.PortalService.BikeDetail(ctx, otherUser.ID, bike.ID)
	require.Error(t, err)
}

func TestPortalService_Loyalty(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	customer, _, order := CreatePersistedOrder(t, services)
	user := createPortalUser(t, services, customer)

	// Nothing completed yet.
	summary, err := services.PortalService.Loyalty(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, summary.TotalSpent.IsZero())
	assert.EqualValues(t, 0, summary.Points)

	_, err = services.OrderService.Update(ctx, order.ID, &orders.UpdateOrderInput{
		Status: string(orders.StatusDone),
		Price:  "120,00",
	}, 1)
	require.NoError(t, err)

	summary, err = services.PortalService.Loyalty(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, summary.TotalSpent.Equal(decimal.RequireFromString("120")))
	assert.EqualValues(t, 60, summary.Points)
	assert.EqualValues(t, 6, summary.DiscountEUR)
}
