//go:build integration
// +build integration

package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/pkg/config"
)

func TestCustomerService_RegisterCustomer(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	result, err := services.CustomerService.RegisterCustomer(ctx, &customers.RegisterCustomerInput{
		FullName:    "Jana Kováčová",
		Email:       "Jana@Example.com",
		PhoneNumber: "+421 903 123 456",
		BikeBrand:   "Canyon",
		BikeModel:   "Grand Canyon 7",
	})
	require.NoError(t, err)

	assert.True(t, result.UserCreated)
	assert.Equal(t, "jana@example.com", result.User.Username)
	assert.Equal(t, "Jana", result.User.FirstName)
	assert.Equal(t, "Kováčová", result.User.LastName)
	assert.True(t, result.User.IsActive)
	assert.False(t, result.User.HasUsablePassword())
	require.NotNil(t, result.Customer.UserID)
	assert.Equal(t, result.User.ID, *result.Customer.UserID)

	welcome := services.Queue.JobsOfKind(notifications.JobWelcomeEmail)
	require.Len(t, welcome, 1)
	assert.Equal(t, result.Customer.ID, welcome[0].CustomerID)
}

func TestCustomerService_RegisterCustomer_ExistingAccount(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	first, err := services.CustomerService.RegisterCustomer(ctx, &customers.RegisterCustomerInput{
		FullName:  "Jana Kováčová",
		Email:     "jana@example.com",
		BikeBrand: "Canyon",
	})
	require.NoError(t, err)

	second, err := services.CustomerService.RegisterCustomer(ctx, &customers.RegisterCustomerInput{
		FullName:  "Jana Kováčová",
		Email:     "jana@example.com",
		BikeBrand: "Specialized",
	})
	require.NoError(t, err)

	assert.Equal(t, first.Customer.ID, second.Customer.ID)
	assert.False(t, second.UserCreated)
	assert.Len(t, services.Queue.JobsOfKind(notifications.JobWelcomeEmail), 1)
}

func TestCustomerService_RegisterCustomer_MissingFields(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	_, err := services.CustomerService.RegisterCustomer(context.Background(), &customers.RegisterCustomerInput{
		FullName: "Jana Kováčová",
		Email:    "jana@example.com",
	})
	require.ErrorIs(t, err, customers.ErrMissingCustomerFields)
}

func TestCustomerService_FindOrCreateByContact_PhoneFallback(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	created, isNew, err := services.CustomerService.FindOrCreateByContact(ctx, "Marek Horák", "", "+421 905 999 888")
	require.NoError(t, err)
	assert.True(t, isNew)

	// Same phone, now with an email: matched and backfilled.
	matched, isNew, err := services.CustomerService.FindOrCreateByContact(ctx, "", "marek@example.com", "+421 905 999 888")
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, matched.ID)
	assert.Equal(t, "marek@example.com", matched.Email)
	assert.Equal(t, "Marek Horák", matched.FullName)
}

func TestCustomerService_GetProfile_AdoptsByEmail(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	customer, _, _ := CreatePersistedOrder(t, services)

	user, created, err := ensurePortalAccount(ctx, services.DBContext.UserRepo, services.DBContext.CustomerRepo, customer)
	require.NoError(t, err)
	require.True(t, created)

	// Drop the link; GetProfile must re-adopt by the account email.
	customer.UserID = nil
	require.NoError(t, services.DBContext.CustomerRepo.UpdateByID(ctx, customer))

	profile, err := services.CustomerService.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, profile.ID)
	require.NotNil(t, profile.UserID)
	assert.Equal(t, user.ID, *profile.UserID)
}

func TestCustomerService_GetProfile_Missing(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	created, err := services.UserService.EnsureAdmin(ctx, "admin", "admin@example.com", "super-secret-1")
	require.NoError(t, err)
	require.True(t, created)

	admin, err := services.DBContext.UserRepo.GetByUsername(ctx, "admin")
	require.NoError(t, err)

	_, err = services.CustomerService.GetProfile(ctx, admin.ID)
	require.ErrorIs(t, err, customers.ErrMissingProfile)
}

func TestCustomerService_UpdateProfile(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	customer, _, _ := CreatePersistedOrder(t, services)

	user, _, err := ensurePortalAccount(ctx, services.DBContext.UserRepo, services.DBContext.CustomerRepo, customer)
	require.NoError(t, err)

	updated, err := services.CustomerService.UpdateProfile(ctx, user.ID, "Jana Nováková", "+421 911 000 111")
	require.NoError(t, err)
	assert.Equal(t, "Jana Nováková", updated.FullName)
	assert.Equal(t, "+421 911 000 111", updated.PhoneNumber)
}
