//go:build integration
// +build integration

package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/infrastructure/persistence"
	"github.com/litovianka/bike-service/internal/pkg/config"
	"github.com/litovianka/bike-service/internal/pkg/testutil"
)

func TestOrderService_Create_NewCustomer(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	result, err := services.OrderService.Create(ctx, &orders.CreateOrderInput{
		FullName:         "Peter Novák",
		Email:            "peter@example.com",
		PhoneNumber:      "+421 905 111 222",
		BikeBrand:        "Trek",
		BikeModel:        "Marlin 7",
		IssueDescription: "Preskakuje radenie",
	})
	require.NoError(t, err)

	assert.Equal(t, orders.StatusNew, result.Order.Status)
	assert.Equal(t, "Preskakuje radenie", result.Order.IssueDescription)
	assert.Equal(t, result.Bike.ID, result.Order.BikeID)
	assert.Equal(t, "peter@example.com", result.Customer.Email)
	assert.Nil(t, result.Order.CompletedAt)
}

func TestOrderService_Create_ReusesCustomerByEmail(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	first, err := services.OrderService.Create(ctx, &orders.CreateOrderInput{
		FullName:  "Peter Novák",
		Email:     "peter@example.com",
		BikeBrand: "Trek",
	})
	require.NoError(t, err)

	second, err := services.OrderService.Create(ctx, &orders.CreateOrderInput{
		FullName:  "Peter Novak",
		Email:     "PETER@example.com",
		BikeBrand: "Canyon",
	})
	require.NoError(t, err)

	assert.Equal(t, first.Customer.ID, second.Customer.ID)
	assert.NotEqual(t, first.Bike.ID, second.Bike.ID)
}

func TestOrderService_Create_MissingFields(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	_, err := services.OrderService.Create(context.Background(), &orders.CreateOrderInput{
		FullName: "Peter Novák",
	})
	require.Error(t, err)
	assert.Equal(t, "Vyplň meno, email a bicykel.", err.Error())
}

func TestOrderService_Update_CompletionQueuesDoneEmail(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	_, _, order := CreatePersistedOrder(t, services)

	updated, err := services.OrderService.Update(ctx, order.ID, &orders.UpdateOrderInput{
		Status:   string(orders.StatusDone),
		WorkDone: "Vymenené brzdové platničky",
		Price:    "49,90",
	}, 1)
	require.NoError(t, err)

	require.NotNil(t, updated.CompletedAt)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("49.90")))

	doneJobs := services.Queue.JobsOfKind(notifications.JobDoneEmail)
	require.Len(t, doneJobs, 1)
	assert.Equal(t, order.ID, doneJobs[0].OrderID)

	logs, err := services.DBContext.LogRepo.ListByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, notifications.KindEmailDone, logs[0].Kind)

	// A second save in DONE must not send again.
	_, err = services.OrderService.Update(ctx, order.ID, &orders.UpdateOrderInput{
		Status:   string(orders.StatusDone),
		WorkDone: "Vymenené brzdové platničky",
	}, 1)
	require.NoError(t, err)
	assert.Len(t, services.Queue.JobsOfKind(notifications.JobDoneEmail), 1)
}

func TestOrderService_Update_LeavingDoneClearsCompletion(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	_, _, order := CreatePersistedOrder(t, services)

	_, err := services.OrderService.SetStatus(ctx, order.ID, string(orders.StatusDone), 1)
	require.NoError(t, err)

	reopened, err := services.OrderService.SetStatus(ctx, order.ID, string(orders.StatusInProgress), 1)
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)
}

func TestOrderService_Update_InvalidPrice(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	_, _, order := CreatePersistedOrder(t, services)

	_, err := services.OrderService.Update(context.Background(), order.ID, &orders.UpdateOrderInput{
		Price: "abc",
	}, 1)
	require.ErrorIs(t, err, orders.ErrInvalidPrice)
}

func TestOrderService_ApplyPackage(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	_, _, order := CreatePersistedOrder(t, services)

	updated, pkg, err := services.OrderService.ApplyPackage(context.Background(), order.ID, "full")
	require.NoError(t, err)

	assert.Equal(t, "Full servis", pkg.Label)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("69.00")))
	assert.NotEmpty(t, updated.WorkDone)
	assert.True(t, updated.Checklist["brakes"])
	assert.True(t, updated.Checklist["cleaning"])
}

func TestOrderService_ApplyPackage_UnknownKey(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	_, _, order := CreatePersistedOrder(t, services)

	_, _, err := services.OrderService.ApplyPackage(context.Background(), order.ID, "deluxe")
	require.Error(t, err)
}

func TestOrderService_Photos_AttachDownloadDelete(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	_, _, order := CreatePersistedOrder(t, services)

	form := testutil.CreatePhotoUploadForm(t, map[string][]byte{
		"front.jpg": []byte("front-bytes"),
		"rear.jpg":  []byte("rear-bytes"),
	})

	photos, err := services.OrderService.AttachPhotos(ctx, order.ID, form)
	require.NoError(t, err)
	require.Len(t, photos, 2)

	listed, err := services.OrderService.Photos(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	name, content, err := services.OrderService.DownloadPhoto(ctx, order.ID, listed[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, name)
	assert.NotEmpty(t, content)

	require.NoError(t, services.OrderService.DeletePhoto(ctx, order.ID, listed[0].ID))

	remaining, err := services.OrderService.Photos(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	// A record whose file was wiped out of the media dir still deletes
	require.NoError(t, os.Remove(filepath.Join(services.MediaRoot, filepath.FromSlash(remaining[0].Path))))
	require.NoError(t, services.OrderService.DeletePhoto(ctx, order.ID, remaining[0].ID))

	remaining, err = services.OrderService.Photos(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestOrderService_DownloadPhoto_WrongOrder(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	_, bike, order := CreatePersistedOrder(t, services)

	other := persistence.CreateTestOrder(t, bike.ID)
	require.NoError(t, services.DBContext.OrderRepo.Create(ctx, other))

	form := testutil.CreatePhotoUploadForm(t, map[string][]byte{"a.jpg": []byte("x")})
	photos, err := services.OrderService.AttachPhotos(ctx, order.ID, form)
	require.NoError(t, err)

	_, _, err = services.OrderService.DownloadPhoto(ctx, other.ID, photos[0].ID)
	require.Error(t, err)
}

func TestOrderService_SendSMS(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	customer, _, order := CreatePersistedOrder(t, services)

	err := services.OrderService.SendSMS(ctx, order.ID, "", "Bicykel je pripravený", 7)
	require.NoError(t, err)

	smsJobs := services.Queue.JobsOfKind(notifications.JobSMS)
	require.Len(t, smsJobs, 1)
	assert.Equal(t, customer.PhoneNumber, smsJobs[0].Phone)
	assert.Equal(t, "Bicykel je pripravený", smsJobs[0].Text)

	logs, err := services.DBContext.LogRepo.ListByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, notifications.KindSMS, logs[0].Kind)
	assert.Contains(t, logs[0].Body, customer.PhoneNumber)
	require.NotNil(t, logs[0].CreatedByID)
	assert.EqualValues(t, 7, *logs[0].CreatedByID)
}

func TestOrderService_InviteToPortal_CreatesAccount(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	customer, _, order := CreatePersistedOrder(t, services)

	require.NoError(t, services.OrderService.InviteToPortal(ctx, order.ID, 1))

	inviteJobs := services.Queue.JobsOfKind(notifications.JobInviteEmail)
	require.Len(t, inviteJobs, 1)
	assert.True(t, inviteJobs[0].UserCreated)

	linked, err := services.DBContext.CustomerRepo.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	require.NotNil(t, linked.UserID)

	user, err := services.DBContext.UserRepo.GetByID(ctx, *linked.UserID)
	require.NoError(t, err)
	assert.Equal(t, "jana@example.com", user.Username)
	assert.False(t, user.HasUsablePassword())

	// A second invite reuses the account.
	require.NoError(t, services.OrderService.InviteToPortal(ctx, order.ID, 1))
	inviteJobs = services.Queue.JobsOfKind(notifications.JobInviteEmail)
	require.Len(t, inviteJobs, 2)
	assert.False(t, inviteJobs[1].UserCreated)
}

func TestOrderService_ProtocolPDF(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	_, _, order := CreatePersistedOrder(t, services)

	name, pdf, err := services.OrderService.ProtocolPDF(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Contains(t, name, "servis_protokol_")
	assert.True(t, len(pdf) > 0)
}

func TestOrderService_List_MarksWaitingTickets(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	_, _, order := CreatePersistedOrder(t, services)

	ticket := persistence.CreateTestTicket(t, order.ID, tickets.StatusWaitingAdmin)
	require.NoError(t, services.DBContext.TicketRepo.Create(ctx, ticket))

	page, err := services.OrderService.List(ctx, orders.NewOrderQuery())
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.True(t, page.Rows[0].HasWaitingTicket)
	assert.Equal(t, "Bez termínu", page.Rows[0].ETA.Label)
}
