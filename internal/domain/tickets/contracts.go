package tickets

import "context"

// TicketListItem is one ticket list row: the ticket plus the display fields
// of its order, bike, and customer.
type TicketListItem struct {
	Ticket       *Ticket
	OrderCode    string
	BikeLabel    string
	CustomerName string
}

// TicketPage is one page of ticket list rows.
type TicketPage struct {
	Items      []*TicketListItem
	TotalCount int64
	Page       int
	PageCount  int
}

// TicketDetail is a ticket with its full thread.
type TicketDetail struct {
	Ticket       *Ticket
	Messages     []*TicketMessage
	OrderCode    string
	BikeLabel    string
	CustomerName string
}

// TicketRepository defines methods for managing tickets in a repository
type TicketRepository interface {
	// Create creates a new ticket
	Create(ctx context.Context, ticket *Ticket) error
	// GetByID retrieves a ticket by ID
	GetByID(ctx context.Context, id int64) (*Ticket, error)
	// GetByIDForCustomer retrieves a ticket only when it belongs to one of
	// the customer's orders
	GetByIDForCustomer(ctx context.Context, id, customerID int64) (*Ticket, error)
	// UpdateByID updates an existing ticket
	UpdateByID(ctx context.Context, ticket *Ticket) error
	// List returns one page of tickets matching the query, most recently
	// updated first
	List(ctx context.Context, query *TicketQuery) (*TicketPage, error)
	// ListByCustomerID returns one page of the customer's tickets, most
	// recently updated first
	ListByCustomerID(ctx context.Context, customerID int64, page, pageSize int) (*TicketPage, error)
	// ListByOrderID lists all tickets of an order, most recently updated
	// first
	ListByOrderID(ctx context.Context, orderID int64) ([]*Ticket, error)
	// WaitingByOrderIDs reports which of the given orders have a ticket
	// waiting for the staff
	WaitingByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64]bool, error)
}

// TicketMessageRepository defines methods for managing ticket messages in a
// repository
type TicketMessageRepository interface {
	// Create creates a new ticket message
	Create(ctx context.Context, message *TicketMessage) error
	// ListByTicketID lists a ticket's messages, oldest first
	ListByTicketID(ctx context.Context, ticketID int64) ([]*TicketMessage, error)
}

// TicketService defines methods for the support ticket system
type TicketService interface {
	// CreateForOrder opens a ticket on one of the customer's own orders. A
	// blank subject becomes "Otázka k servisu #<code>"; a non-empty message
	// starts the thread.
	CreateForOrder(ctx context.Context, userID, orderID int64, subject, message string) (*Ticket, error)
	// CustomerList pages the customer's own tickets
	CustomerList(ctx context.Context, userID int64, page int) (*TicketPage, error)
	// CustomerDetail returns one of the customer's tickets with its thread
	CustomerDetail(ctx context.Context, userID, ticketID int64) (*TicketDetail, error)
	// CustomerReply appends a customer message and hands the ticket to the
	// staff. Closed tickets and empty messages are rejected.
	CustomerReply(ctx context.Context, userID, ticketID int64, message string) (*Ticket, error)
	// StaffList pages all tickets per the query
	StaffList(ctx context.Context, query *TicketQuery) (*TicketPage, error)
	// StaffDetail returns any ticket with its thread
	StaffDetail(ctx context.Context, ticketID int64) (*TicketDetail, error)
	// StaffReply appends a staff message and hands the ticket to the
	// customer. Closed tickets are rejected.
	StaffReply(ctx context.Context, ticketID, byUserID int64, message string) (*Ticket, error)
	// SetStatus sets any valid ticket status
	SetStatus(ctx context.Context, ticketID int64, status string) (*Ticket, error)
	// Close closes the ticket
	Close(ctx context.Context, ticketID int64) (*Ticket, error)
}
