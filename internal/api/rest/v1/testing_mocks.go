//go:build unit
// +build unit

package v1

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/domain/users"
)

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Authenticate(ctx context.Context, identifier, password string) (*users.User, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id int64) (*users.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword, confirmPassword string) error {
	args := m.Called(ctx, userID, currentPassword, newPassword, confirmPassword)
	return args.Error(0)
}

func (m *MockUserService) CheckSetPasswordToken(ctx context.Context, uid, token string) error {
	args := m.Called(ctx, uid, token)
	return args.Error(0)
}

func (m *MockUserService) SetPasswordWithToken(ctx context.Context, uid, token, newPassword, confirmPassword string) (*users.User, error) {
	args := m.Called(ctx, uid, token, newPassword, confirmPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUserService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	args := m.Called(ctx, username, email, password)
	return args.Bool(0), args.Error(1)
}

// MockCustomerService is a mock implementation of CustomerService
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) RegisterCustomer(ctx context.Context, input *customers.RegisterCustomerInput) (*customers.RegistrationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customers.RegistrationResult), args.Error(1)
}

func (m *MockCustomerService) FindOrCreateByContact(ctx context.Context, fullName, email, phone string) (*customers.Customer, bool, error) {
	args := m.Called(ctx, fullName, email, phone)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*customers.Customer), args.Bool(1), args.Error(2)
}

func (m *MockCustomerService) GetByID(ctx context.Context, id int64) (*customers.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customers.Customer), args.Error(1)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, id int64, fullName, email, phoneNumber string) (*customers.Customer, error) {
	args := m.Called(ctx, id, fullName, email, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customers.Customer), args.Error(1)
}

func (m *MockCustomerService) GetProfile(ctx context.Context, userID int64) (*customers.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customers.Customer), args.Error(1)
}

func (m *MockCustomerService) UpdateProfile(ctx context.Context, userID int64, fullName, phoneNumber string) (*customers.Customer, error) {
	args := m.Called(ctx, userID, fullName, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customers.Customer), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, input *orders.CreateOrderInput) (*orders.CreateOrderResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orders.CreateOrderResult), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, query *orders.OrderQuery) (*orders.OrderPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orders.OrderPage), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, id int64) (*orders.OrderDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orders.OrderDetail), args.Error(1)
}

func (m *MockOrderService) Update(ctx context.Context, id int64, input *orders.UpdateOrderInput, byUserID int64) (*orders.ServiceOrder, error) {
	args := m.Called(ctx, id, input, byUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orders.ServiceOrder), args.Error(1)
}

func (m *MockOrderService) SetStatus(ctx context.Context, id int64, status string, byUserID int64) (*orders.ServiceOrder, error) {
	args := m.Called(ctx, id, status, byUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orders.ServiceOrder), args.Error(1)
}

func (m *MockOrderService) SetPromisedDate(ctx context.Context, id int64, promisedDate string) (*orders.ServiceOrder, error) {
	args := m.Called(ctx, id, promisedDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orders.ServiceOrder), args.Error(1)
}

func (m *MockOrderService) ApplyPackage(ctx context.Context, id int64, packageKey string) (*orders.ServiceOrder, *orders.ServicePackage, error) {
	args := m.Called(ctx, id, packageKey)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*orders.ServiceOrder), args.Get(1).(*orders.ServicePackage), args.Error(2)
}

func (m *MockOrderService) AttachPhotos(ctx context.Context, orderID int64, form *multipart.Form) ([]*orders.ServiceOrderPhoto, error) {
	args := m.Called(ctx, orderID, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*orders.ServiceOrderPhoto), args.Error(1)
}

func (m *MockOrderService) Photos(ctx context.Context, orderID int64) ([]*orders.ServiceOrderPhoto, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*orders.ServiceOrderPhoto), args.Error(1)
}

func (m *MockOrderService) DownloadPhoto(ctx context.Context, orderID, photoID int64) (string, []byte, error) {
	args := m.Called(ctx, orderID, photoID)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).([]byte), args.Error(2)
}

func (m *MockOrderService) DeletePhoto(ctx context.Context, orderID, photoID int64) error {
	args := m.Called(ctx, orderID, photoID)
	return args.Error(0)
}

func (m *MockOrderService) SendSMS(ctx context.Context, orderID int64, phone, text string, byUserID int64) error {
	args := m.Called(ctx, orderID, phone, text, byUserID)
	return args.Error(0)
}

func (m *MockOrderService) SendProtocolEmail(ctx context.Context, orderID int64, byUserID int64) error {
	args := m.Called(ctx, orderID, byUserID)
	return args.Error(0)
}

func (m *MockOrderService) InviteToPortal(ctx context.Context, orderID int64, byUserID int64) error {
	args := m.Called(ctx, orderID, byUserID)
	return args.Error(0)
}

func (m *MockOrderService) ProtocolPDF(ctx context.Context, orderID int64) (string, []byte, error) {
	args := m.Called(ctx, orderID)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).([]byte), args.Error(2)
}

// MockPortalService is a mock implementation of PortalService
type MockPortalService struct {
	mock.Mock
}

func (m *MockPortalService) Overview(ctx context.Context, userID int64) (*orders.PortalOverview, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orders.PortalOverview), args.Error(1)
}

func (m *MockPortalService) BikeDetail(ctx context.Context, userID, bikeID int64) (*orders.BikeDetail, error) {
	args := m.Called(ctx, userID, bikeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orders.BikeDetail), args.Error(1)
}

func (m *MockPortalService) Loyalty(ctx context.Context, userID int64) (*orders.LoyaltySummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orders.LoyaltySummary), args.Error(1)
}

// MockTicketService is a mock implementation of TicketService
type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) CreateForOrder(ctx context.Context, userID, orderID int64, subject, message string) (*tickets.Ticket, error) {
	args := m.Called(ctx, userID, orderID, subject, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickets.Ticket), args.Error(1)
}

func (m *MockTicketService) CustomerList(ctx context.Context, userID int64, page int) (*tickets.TicketPage, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickets.TicketPage), args.Error(1)
}

func (m *MockTicketService) CustomerDetail(ctx context.Context, userID, ticketID int64) (*tickets.TicketDetail, error) {
	args := m.Called(ctx, userID, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickets.TicketDetail), args.Error(1)
}

func (m *MockTicketService) CustomerReply(ctx context.Context, userID, ticketID int64, message string) (*tickets.Ticket, error) {
	args := m.Called(ctx, userID, ticketID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickets.Ticket), args.Error(1)
}

func (m *MockTicketService) StaffList(ctx context.Context, query *tickets.TicketQuery) (*tickets.TicketPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickets.TicketPage), args.Error(1)
}

func (m *MockTicketService) StaffDetail(ctx context.Context, ticketID int64) (*tickets.TicketDetail, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickets.TicketDetail), args.Error(1)
}

func (m *MockTicketService) StaffReply(ctx context.Context, ticketID, byUserID int64, message string) (*tickets.Ticket, error) {
	args := m.Called(ctx, ticketID, byUserID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickets.Ticket), args.Error(1)
}

func (m *MockTicketService) SetStatus(ctx context.Context, ticketID int64, status string) (*tickets.Ticket, error) {
	args := m.Called(ctx, ticketID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickets.Ticket), args.Error(1)
}

func (m *MockTicketService) Close(ctx context.Context, ticketID int64) (*tickets.Ticket, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tickets.Ticket), args.Error(1)
}

// MockDashboardService is a mock implementation of DashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Stats(ctx context.Context, today time.Time) (*orders.DashboardStats, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orders.DashboardStats), args.Error(1)
}

func (m *MockDashboardService) Invalidate() {
	m.Called()
}
