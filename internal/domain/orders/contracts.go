package orders

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/shopspring/decimal"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/domain/tickets"
)

// ErrCustomerWithoutEmail is returned by actions that need the customer's
// email address (portal invite, protocol email) when none is on file.
var ErrCustomerWithoutEmail = errors.New("customer has no email address")

// OrderRepository defines methods for managing service orders in a repository
type OrderRepository interface {
	// Create creates a new service order
	Create(ctx context.Context, order *ServiceOrder) error
	// GetByID retrieves a service order by ID
	GetByID(ctx context.Context, id int64) (*ServiceOrder, error)
	// UpdateByID updates an existing service order
	UpdateByID(ctx context.Context, order *ServiceOrder) error
	// List returns one page of panel rows matching the query, newest first,
	// with bike and customer preloaded
	List(ctx context.Context, query *OrderQuery) (*OrderPage, error)
	// ListByBikeID lists a bike's orders, newest first
	ListByBikeID(ctx context.Context, bikeID int64) ([]*ServiceOrder, error)
	// GetLatestByBikeID returns the bike's most recent order, nil when the
	// bike has none yet
	GetLatestByBikeID(ctx context.Context, bikeID int64) (*ServiceOrder, error)
	// ListRecentByCustomerID lists the customer's other orders with their
	// bikes, newest first, excluding one order
	ListRecentByCustomerID(ctx context.Context, customerID, excludeOrderID int64, limit int) ([]*OrderRow, error)
	// CountByCustomerID counts all orders of a customer
	CountByCustomerID(ctx context.Context, customerID int64) (int64, error)
	// TotalPaidByCustomerID sums the prices of the customer's completed orders
	TotalPaidByCustomerID(ctx context.Context, customerID int64) (decimal.Decimal, error)
}

// PhotoRepository defines methods for managing service order photos in a
// repository
type PhotoRepository interface {
	// Create creates a new photo record
	Create(ctx context.Context, photo *ServiceOrderPhoto) error
	// GetByID retrieves a photo by ID
	GetByID(ctx context.Context, id int64) (*ServiceOrderPhoto, error)
	// ListByOrderID lists an order's photos, newest first
	ListByOrderID(ctx context.Context, orderID int64) ([]*ServiceOrderPhoto, error)
	// DeleteByID deletes a photo record by ID
	DeleteByID(ctx context.Context, id int64) error
}

// PhotoStore is an interface for storing order photo files
type PhotoStore interface {
	// Upload stores every file of the form's "photos" field under the given
	// order and returns an unsaved photo record per stored file.
	Upload(ctx context.Context, form *multipart.Form, orderID int64) ([]*ServiceOrderPhoto, error)

	// Download retrieves a stored photo's content by its path.
	Download(ctx context.Context, path string) ([]byte, error)

	// Delete removes a stored photo file by its path. Deleting a missing
	// file is an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether a stored photo file is present.
	Exists(ctx context.Context, path string) (bool, error)
}

// ProtocolRenderer renders the printable service protocol for an order
type ProtocolRenderer interface {
	// Render produces the protocol PDF bytes for the order and its owner
	Render(order *ServiceOrder, bike *customers.Bike, customer *customers.Customer) ([]byte, error)
}

// DashboardStats are the staff panel counters.
type DashboardStats struct {
	WaitingTicketsCount int64   `json:"waiting_tickets_count"`
	OrdersNew           int64   `json:"stat_orders_new"`
	OrdersInProgress    int64   `json:"stat_orders_in_progress"`
	OrdersDoneToday     int64   `json:"stat_orders_done_today"`
	UnfinishedCount     int64   `json:"unfinished_count"`
	OpenTicketsCount    int64   `json:"open_tickets_count"`
	CompletedLast7Days  int64   `json:"completed_last_7_days"`
	AvgRepairDays       float64 `json:"avg_repair_days"`
}

// StatsRepository computes the dashboard counters from current data
type StatsRepository interface {
	// DashboardStats counts orders and tickets as of the given day. The
	// average repair duration covers the 200 most recently completed orders,
	// rounded to one decimal place.
	DashboardStats(ctx context.Context, today time.Time) (*DashboardStats, error)
}

// OrderRow is one panel row: the order with its bike and customer preloaded.
type OrderRow struct {
	Order            *ServiceOrder
	Bike             *customers.Bike
	Customer         *customers.Customer
	ETA              ETAChip
	HasWaitingTicket bool
}

// OrderPage is one page of panel rows.
type OrderPage struct {
	Rows       []*OrderRow
	TotalCount int64
	Page       int
	PageCount  int
}

// OrderDetail is the staff detail payload: the order with everything the
// panel shows around it.
type OrderDetail struct {
	Order                *ServiceOrder
	Bike                 *customers.Bike
	Customer             *customers.Customer
	ETA                  ETAChip
	Photos               []*ServiceOrderPhoto
	Logs                 []*notifications.ServiceOrderLog
	Tickets              []*tickets.Ticket
	CustomerRecentOrders []*OrderRow
	CustomerTotalOrders  int64
	CustomerPaidTotal    decimal.Decimal
}

// CreateOrderInput is the walk-in intake form. With BikeID set the order goes
// onto that existing bike; otherwise customer and bike are matched or created
// from the contact fields. CustomerID pins the customer to update instead of
// matching by email or phone.
type CreateOrderInput struct {
	BikeID           int64
	CustomerID       int64
	FullName         string
	Email            string
	PhoneNumber      string
	BikeBrand        string
	BikeModel        string
	BikeSerial       string
	IssueDescription string
}

// CreateOrderResult reports what the intake created.
type CreateOrderResult struct {
	Order    *ServiceOrder
	Bike     *customers.Bike
	Customer *customers.Customer
}

// UpdateOrderInput is the staff detail form. IssueDescription and WorkDone
// are always applied; Status only when it is a known status; PromisedDate is
// parsed as an ISO date and cleared when empty or malformed; Price is applied
// only when non-empty; a nil Checklist keeps the stored one.
type UpdateOrderInput struct {
	Status           string
	IssueDescription string
	WorkDone         string
	PromisedDate     string
	Price            string
	Checklist        map[string]bool
}

// BikeWithLastOrder pairs a bike with its most recent order, if any.
type BikeWithLastOrder struct {
	Bike      *customers.Bike
	LastOrder *ServiceOrder
}

// PortalOverview is the landing payload of the customer portal.
type PortalOverview struct {
	Customer *customers.Customer
	Bikes    []*BikeWithLastOrder
}

// BikeDetail is one of the customer's bikes with its service history.
type BikeDetail struct {
	Bike   *customers.Bike
	Orders []*ServiceOrder
}

// OrderService defines methods for the staff service panel
type OrderService interface {
	// Create books a new repair per the intake form
	Create(ctx context.Context, input *CreateOrderInput) (*CreateOrderResult, error)
	// List returns one panel page with ETA chips and waiting-ticket marks
	List(ctx context.Context, query *OrderQuery) (*OrderPage, error)
	// Get returns the staff detail payload
	Get(ctx context.Context, id int64) (*OrderDetail, error)
	// Update applies the staff detail form, stamping or clearing the
	// completion time and queueing the "repair done" email when the order
	// just became DONE
	Update(ctx context.Context, id int64, input *UpdateOrderInput, byUserID int64) (*ServiceOrder, error)
	// SetStatus applies a panel row status change
	SetStatus(ctx context.Context, id int64, status string, byUserID int64) (*ServiceOrder, error)
	// SetPromisedDate applies a panel row promised-date change; empty clears
	SetPromisedDate(ctx context.Context, id int64, promisedDate string) (*ServiceOrder, error)
	// ApplyPackage overwrites price, work summary, and checklist with a
	// predefined package and returns it for the confirmation message
	ApplyPackage(ctx context.Context, id int64, packageKey string) (*ServiceOrder, *ServicePackage, error)
	// AttachPhotos stores every file of the form's "photos" field
	AttachPhotos(ctx context.Context, orderID int64, form *multipart.Form) ([]*ServiceOrderPhoto, error)
	// Photos lists an order's photos, newest first
	Photos(ctx context.Context, orderID int64) ([]*ServiceOrderPhoto, error)
	// DownloadPhoto returns a photo's file name and content
	DownloadPhoto(ctx context.Context, orderID, photoID int64) (string, []byte, error)
	// DeletePhoto removes the photo record and its stored file
	DeletePhoto(ctx context.Context, orderID, photoID int64) error
	// SendSMS queues a manual SMS to the customer and logs it on the order
	SendSMS(ctx context.Context, orderID int64, phone, text string, byUserID int64) error
	// SendProtocolEmail queues the protocol email with the PDF attached and
	// logs it on the order
	SendProtocolEmail(ctx context.Context, orderID int64, byUserID int64) error
	// InviteToPortal queues a portal invitation for the order's customer,
	// creating and linking the portal account when missing
	InviteToPortal(ctx context.Context, orderID int64, byUserID int64) error
	// ProtocolPDF renders the service protocol and returns its file name and
	// content
	ProtocolPDF(ctx context.Context, orderID int64) (string, []byte, error)
}

// PortalService defines the customer-facing read operations
type PortalService interface {
	// Overview lists the customer's bikes with their latest orders
	Overview(ctx context.Context, userID int64) (*PortalOverview, error)
	// BikeDetail returns one of the customer's bikes with its order history
	BikeDetail(ctx context.Context, userID, bikeID int64) (*BikeDetail, error)
	// Loyalty computes the customer's reward standing
	Loyalty(ctx context.Context, userID int64) (*LoyaltySummary, error)
}

// DashboardService caches and serves the staff panel statistics
type DashboardService interface {
	// Stats returns the counters for the given day, recomputing at most once
	// per TTL per cache version
	Stats(ctx context.Context, today time.Time) (*DashboardStats, error)
	// Invalidate bumps the cache version so the next read recomputes
	Invalidate()
}
