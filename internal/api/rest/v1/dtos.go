package v1

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/domain/users"
)

// ErrorResponse carries the message shown to the user when a request fails.
type ErrorResponse struct {
	Message string `json:"message"`
}

// InfoResponse carries a confirmation message.
type InfoResponse struct {
	Message string `json:"message"`
}

// LoginRequest is the login form.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// ChangePasswordRequest is the password form of a logged-in user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// SetPasswordRequest is the form behind an emailed set-password link.
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// CreateOrderRequest is the staff intake form. With BikeID set the order goes
// onto that existing bike; CustomerID pins the customer to update instead of
// matching by email or phone.
type CreateOrderRequest struct {
	BikeID           int64  `json:"bike_id"`
	CustomerID       int64  `json:"customer_id"`
	FullName         string `json:"full_name" validate:"omitempty,max=200"`
	Email            string `json:"email" validate:"omitempty,email,max=254"`
	PhoneNumber      string `json:"phone_number" validate:"omitempty,max=40"`
	BikeBrand        string `json:"bike_brand" validate:"omitempty,max=120"`
	BikeModel        string `json:"bike_model" validate:"omitempty,max=160"`
	BikeSerial       string `json:"bike_serial" validate:"omitempty,max=160"`
	IssueDescription string `json:"issue_description"`
}

// UpdateOrderRequest is the staff detail form. A nil Checklist keeps the
// stored one.
type UpdateOrderRequest struct {
	Status           string          `json:"status" validate:"omitempty,oneof=NEW IN_PROGRESS WAITING_PART READY DONE"`
	IssueDescription string          `json:"issue_description"`
	WorkDone         string          `json:"work_done"`
	PromisedDate     string          `json:"promised_date"`
	Price            string          `json:"price"`
	Checklist        map[string]bool `json:"checklist"`
}

// RowStatusRequest is a panel row quick status change.
type RowStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=NEW IN_PROGRESS WAITING_PART READY DONE"`
}

// RowPromisedDateRequest is a panel row promised-date change. Empty clears.
type RowPromisedDateRequest struct {
	PromisedDate string `json:"promised_date"`
}

// ApplyPackageRequest selects a predefined service package.
type ApplyPackageRequest struct {
	Package string `json:"package" validate:"required"`
}

// SendSMSRequest is the manual SMS form. Blank phone falls back to the
// customer's number.
type SendSMSRequest struct {
	Phone string `json:"phone" validate:"omitempty,max=40"`
	Text  string `json:"text" validate:"required"`
}

// RegisterCustomerRequest is the staff "new customer" form: the customer with
// their first bike.
type RegisterCustomerRequest struct {
	FullName    string `json:"full_name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email,max=254"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=40"`
	BikeBrand   string `json:"bike_brand" validate:"required,max=120"`
	BikeModel   string `json:"bike_model" validate:"omitempty,max=160"`
	BikeSerial  string `json:"bike_serial" validate:"omitempty,max=160"`
}

// UpdateCustomerRequest is the staff customer edit form.
type UpdateCustomerRequest struct {
	FullName    string `json:"full_name" validate:"required,max=200"`
	Email       string `json:"email" validate:"omitempty,email,max=254"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=40"`
}

// UpdateProfileRequest is the customer's own profile form.
type UpdateProfileRequest struct {
	FullName    string `json:"full_name" validate:"max=200"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=40"`
}

// CreateTicketRequest opens a support ticket on one of the customer's orders.
type CreateTicketRequest struct {
	OrderID int64  `json:"order_id" validate:"required"`
	Subject string `json:"subject" validate:"omitempty,max=200"`
	Message string `json:"message"`
}

// TicketReplyRequest appends one message to a ticket thread.
type TicketReplyRequest struct {
	Message string `json:"message" validate:"required"`
}

// TicketStatusRequest sets a ticket status from the staff panel.
type TicketStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=OPEN WAITING_ADMIN WAITING_CUSTOMER CLOSED"`
}

// Validate for validating LoginRequest struct
func (r *LoginRequest) Validate() error { return validateStruct(r) }

// Validate for validating ChangePasswordRequest struct
func (r *ChangePasswordRequest) Validate() error { return validateStruct(r) }

// Validate for validating SetPasswordRequest struct
func (r *SetPasswordRequest) Validate() error { return validateStruct(r) }

// Validate for validating CreateOrderRequest struct
func (r *CreateOrderRequest) Validate() error { return validateStruct(r) }

// Validate for validating UpdateOrderRequest struct
func (r *UpdateOrderRequest) Validate() error { return validateStruct(r) }

// Validate for validating RowStatusRequest struct
func (r *RowStatusRequest) Validate() error { return validateStruct(r) }

// Validate for validating ApplyPackageRequest struct
func (r *ApplyPackageRequest) Validate() error { return validateStruct(r) }

// Validate for validating SendSMSRequest struct
func (r *SendSMSRequest) Validate() error { return validateStruct(r) }

// Validate for validating RegisterCustomerRequest struct
func (r *RegisterCustomerRequest) Validate() error { return validateStruct(r) }

// Validate for validating UpdateCustomerRequest struct
func (r *UpdateCustomerRequest) Validate() error { return validateStruct(r) }

// Validate for validating UpdateProfileRequest struct
func (r *UpdateProfileRequest) Validate() error { return validateStruct(r) }

// Validate for validating CreateTicketRequest struct
func (r *CreateTicketRequest) Validate() error { return validateStruct(r) }

// Validate for validating TicketReplyRequest struct
func (r *TicketReplyRequest) Validate() error { return validateStruct(r) }

// Validate for validating TicketStatusRequest struct
func (r *TicketStatusRequest) Validate() error { return validateStruct(r) }

func validateStruct(s interface{}) error {
	validate := validator.New()

	err := validate.Struct(s)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// UserResponse is the account payload of login and profile endpoints.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	IsStaff  bool   `json:"is_staff"`
}

// LoginResponse carries the bearer token and the authenticated account.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CustomerResponse is the customer payload.
type CustomerResponse struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	GravatarURL string    `json:"gravatar_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// BikeResponse is the bike payload.
type BikeResponse struct {
	ID           int64  `json:"id"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	SerialNumber string `json:"serial_number"`
	Label        string `json:"label"`
}

// ETAResponse is the promised-date chip of a panel row.
type ETAResponse struct {
	Label string `json:"label"`
	Class string `json:"class"`
	Warn  bool   `json:"warn"`
}

// OrderResponse is the service order payload.
type OrderResponse struct {
	ID               int64           `json:"id"`
	Code             string          `json:"code"`
	Status           string          `json:"status"`
	StatusLabel      string          `json:"status_label"`
	IssueDescription string          `json:"issue_description"`
	WorkDone         string          `json:"work_done"`
	Price            string          `json:"price"`
	PromisedDate     *string         `json:"promised_date"`
	Checklist        map[string]bool `json:"checklist"`
	CreatedAt        time.Time       `json:"created_at"`
	CompletedAt      *time.Time      `json:"completed_at"`
}

// OrderRowResponse is one panel listing row.
type OrderRowResponse struct {
	Order            OrderResponse    `json:"order"`
	Bike             BikeResponse     `json:"bike"`
	Customer         CustomerResponse `json:"customer"`
	ETA              ETAResponse      `json:"eta"`
	HasWaitingTicket bool             `json:"has_waiting_ticket"`
}

// OrderPageResponse is one page of panel rows.
type OrderPageResponse struct {
	Rows       []OrderRowResponse `json:"rows"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	PageCount  int                `json:"page_count"`
}

// PhotoResponse is one stored order photo.
type PhotoResponse struct {
	ID        int64     `json:"id"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// LogResponse is one notification log row of an order.
type LogResponse struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	KindLabel string    `json:"kind_label"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderDetailResponse is the staff order detail payload.
type OrderDetailResponse struct {
	Order                OrderResponse      `json:"order"`
	Bike                 BikeResponse       `json:"bike"`
	Customer             CustomerResponse   `json:"customer"`
	ETA                  ETAResponse        `json:"eta"`
	Photos               []PhotoResponse    `json:"photos"`
	Logs                 []LogResponse      `json:"logs"`
	Tickets              []TicketResponse   `json:"tickets"`
	CustomerRecentOrders []OrderRowResponse `json:"customer_recent_orders"`
	CustomerTotalOrders  int64              `json:"customer_total_orders"`
	CustomerPaidTotal    string             `json:"customer_paid_total"`
}

// TicketResponse is the ticket payload.
type TicketResponse struct {
	ID          int64     `json:"id"`
	OrderID     int64     `json:"order_id"`
	Status      string    `json:"status"`
	StatusLabel string    `json:"status_label"`
	Subject     string    `json:"subject"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TicketListItemResponse is one ticket list row.
type TicketListItemResponse struct {
	Ticket       TicketResponse `json:"ticket"`
	OrderCode    string         `json:"order_code"`
	BikeLabel    string         `json:"bike_label"`
	CustomerName string         `json:"customer_name"`
}

// TicketPageResponse is one page of ticket list rows.
type TicketPageResponse struct {
	Items      []TicketListItemResponse `json:"items"`
	TotalCount int64                    `json:"total_count"`
	Page       int                      `json:"page"`
	PageCount  int                      `json:"page_count"`
}

// TicketMessageResponse is one thread entry.
type TicketMessageResponse struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	RoleLabel string    `json:"role_label"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketDetailResponse is a ticket with its thread.
type TicketDetailResponse struct {
	Ticket       TicketResponse          `json:"ticket"`
	Messages     []TicketMessageResponse `json:"messages"`
	OrderCode    string                  `json:"order_code"`
	BikeLabel    string                  `json:"bike_label"`
	CustomerName string                  `json:"customer_name"`
}

// BikeWithLastOrderResponse is one portal home row.
type BikeWithLastOrderResponse struct {
	Bike      BikeResponse   `json:"bike"`
	LastOrder *OrderResponse `json:"last_order"`
}

// PortalOverviewResponse is the customer portal landing payload.
type PortalOverviewResponse struct {
	Customer CustomerResponse            `json:"customer"`
	Bikes    []BikeWithLastOrderResponse `json:"bikes"`
}

// BikeDetailResponse is one portal bike with its service history.
type BikeDetailResponse struct {
	Bike   BikeResponse    `json:"bike"`
	Orders []OrderResponse `json:"orders"`
}

// LoyaltyResponse is the customer's reward standing.
type LoyaltyResponse struct {
	TotalSpent   string `json:"total_spent"`
	Points       int64  `json:"points"`
	DiscountEUR  int64  `json:"discount_eur"`
	PointsToNext int64  `json:"points_to_next"`
}

// HealthResponse is the health probe payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	DB        string    `json:"db"`
	Cache     string    `json:"cache"`
	Timestamp time.Time `json:"timestamp"`
}

const promisedDateFormat = "2006-01-02"

func toUserResponse(user *users.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName(),
		IsStaff:  user.IsStaff,
	}
}

func toCustomerResponse(customer *customers.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          customer.ID,
		FullName:    customer.FullName,
		Email:       customer.Email,
		PhoneNumber: customer.PhoneNumber,
		GravatarURL: customers.GravatarURL(customer.Email, 96),
		CreatedAt:   customer.CreatedAt,
	}
}

func toBikeResponse(bike *customers.Bike) BikeResponse {
	return BikeResponse{
		ID:           bike.ID,
		Brand:        bike.Brand,
		Model:        bike.Model,
		SerialNumber: bike.SerialNumber,
		Label:        bike.Label(),
	}
}

func toOrderResponse(order *orders.ServiceOrder) OrderResponse {
	var promised *string
	if order.PromisedDate != nil {
		formatted := order.PromisedDate.Format(promisedDateFormat)
		promised = &formatted
	}

	return OrderResponse{
		ID:               order.ID,
		Code:             order.Code(),
		Status:           string(order.Status),
		StatusLabel:      order.Status.Label(),
		IssueDescription: order.IssueDescription,
		WorkDone:         order.WorkDone,
		Price:            order.PriceString(),
		PromisedDate:     promised,
		Checklist:        order.Checklist,
		CreatedAt:        order.CreatedAt,
		CompletedAt:      order.CompletedAt,
	}
}

func toETAResponse(eta orders.ETAChip) ETAResponse {
	return ETAResponse{Label: eta.Label, Class: eta.Class, Warn: eta.Warn}
}

func toOrderRowResponse(row *orders.OrderRow) OrderRowResponse {
	return OrderRowResponse{
		Order:            toOrderResponse(row.Order),
		Bike:             toBikeResponse(row.Bike),
		Customer:         toCustomerResponse(row.Customer),
		ETA:              toETAResponse(row.ETA),
		HasWaitingTicket: row.HasWaitingTicket,
	}
}

func toOrderPageResponse(page *orders.OrderPage) OrderPageResponse {
	rows := make([]OrderRowResponse, 0, len(page.Rows))
	for _, row := range page.Rows {
		rows = append(rows, toOrderRowResponse(row))
	}
	return OrderPageResponse{
		Rows:       rows,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageCount:  page.PageCount,
	}
}

func toPhotoResponse(photo *orders.ServiceOrderPhoto) PhotoResponse {
	return PhotoResponse{ID: photo.ID, Path: photo.Path, CreatedAt: photo.CreatedAt}
}

func toLogResponse(log *notifications.ServiceOrderLog) LogResponse {
	return LogResponse{
		ID:        log.ID,
		Kind:      string(log.Kind),
		KindLabel: log.Kind.Label(),
		Body:      log.Body,
		CreatedAt: log.CreatedAt,
	}
}

func toOrderDetailResponse(detail *orders.OrderDetail) OrderDetailResponse {
	photos := make([]PhotoResponse, 0, len(detail.Photos))
	for _, photo := range detail.Photos {
		photos = append(photos, toPhotoResponse(photo))
	}

	logs := make([]LogResponse, 0, len(detail.Logs))
	for _, log := range detail.Logs {
		logs = append(logs, toLogResponse(log))
	}

	ticketResponses := make([]TicketResponse, 0, len(detail.Tickets))
	for _, ticket := range detail.Tickets {
		ticketResponses = append(ticketResponses, toTicketResponse(ticket))
	}

	recent := make([]OrderRowResponse, 0, len(detail.CustomerRecentOrders))
	for _, row := range detail.CustomerRecentOrders {
		recent = append(recent, toOrderRowResponse(row))
	}

	return OrderDetailResponse{
		Order:                toOrderResponse(detail.Order),
		Bike:                 toBikeResponse(detail.Bike),
		Customer:             toCustomerResponse(detail.Customer),
		ETA:                  toETAResponse(detail.ETA),
		Photos:               photos,
		Logs:                 logs,
		Tickets:              ticketResponses,
		CustomerRecentOrders: recent,
		CustomerTotalOrders:  detail.CustomerTotalOrders,
		CustomerPaidTotal:    detail.CustomerPaidTotal.StringFixed(2),
	}
}

func toTicketResponse(ticket *tickets.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID,
		OrderID:     ticket.OrderID,
		Status:      string(ticket.Status),
		StatusLabel: ticket.Status.Label(),
		Subject:     ticket.Subject,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

func toTicketPageResponse(page *tickets.TicketPage) TicketPageResponse {
	items := make([]TicketListItemResponse, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, TicketListItemResponse{
			Ticket:       toTicketResponse(item.Ticket),
			OrderCode:    item.OrderCode,
			BikeLabel:    item.BikeLabel,
			CustomerName: item.CustomerName,
		})
	}
	return TicketPageResponse{
		Items:      items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageCount:  page.PageCount,
	}
}

func toTicketDetailResponse(detail *tickets.TicketDetail) TicketDetailResponse {
	messages := make([]TicketMessageResponse, 0, len(detail.Messages))
	for _, message := range detail.Messages {
		messages = append(messages, TicketMessageResponse{
			ID:        message.ID,
			Role:      string(message.Role),
			RoleLabel: message.Role.Label(),
			Message:   message.Message,
			CreatedAt: message.CreatedAt,
		})
	}
	return TicketDetailResponse{
		Ticket:       toTicketResponse(detail.Ticket),
		Messages:     messages,
		OrderCode:    detail.OrderCode,
		BikeLabel:    detail.BikeLabel,
		CustomerName: detail.CustomerName,
	}
}

func toLoyaltyResponse(summary *orders.LoyaltySummary) LoyaltyResponse {
	return LoyaltyResponse{
		TotalSpent:   summary.TotalSpent.StringFixed(2),
		Points:       summary.Points,
		DiscountEUR:  summary.DiscountEUR,
		PointsToNext: summary.PointsToNext,
	}
}
