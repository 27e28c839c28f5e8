package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/pkg/logger"
)

// ticketService implements the TicketService interface for the support
// ticket system
type ticketService struct {
	ticketRepo   tickets.TicketRepository
	messageRepo  tickets.TicketMessageRepository
	orderRepo    orders.OrderRepository
	bikeRepo     customers.BikeRepository
	customerRepo customers.CustomerRepository
	logRepo      notifications.LogRepository
	customerSvc  customers.CustomerService
	queue        notifications.Queue
	dashboard    orders.DashboardService
	logger       logger.Logger
}

// NewTicketService creates a new instance of TicketService
func NewTicketService(
	ticketRepo tickets.TicketRepository,
	messageRepo tickets.TicketMessageRepository,
	orderRepo orders.OrderRepository,
	bikeRepo customers.BikeRepository,
	customerRepo customers.CustomerRepository,
	logRepo notifications.LogRepository,
	customerSvc customers.CustomerService,
	queue notifications.Queue,
	dashboard orders.DashboardService,
	logger logger.Logger,
) (tickets.TicketService, error) {
	return &ticketService{
		ticketRepo:   ticketRepo,
		messageRepo:  messageRepo,
		orderRepo:    orderRepo,
		bikeRepo:     bikeRepo,
		customerRepo: customerRepo,
		logRepo:      logRepo,
		customerSvc:  customerSvc,
		queue:        queue,
		dashboard:    dashboard,
		logger:       logger,
	}, nil
}

// CreateForOrder opens a ticket on one of the customer's own orders. A blank
// subject becomes "Otázka k servisu #<code>"; a non-empty message starts the
// thread.
func (s *ticketService) CreateForOrder(ctx context.Context, userID, orderID int64, subject, message string) (*tickets.Ticket, error) {
	customer, err := s.customerSvc.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	bike, err := s.bikeRepo.GetByID(ctx, order.BikeID)
	if err != nil {
		return nil, err
	}
	if bike.CustomerID != customer.ID {
		return nil, fmt.Errorf("order %d does not belong to customer %d", orderID, customer.ID)
	}

	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = tickets.DefaultSubject(order.Code())
	}
	message = strings.TrimSpace(message)

	ticket := &tickets.Ticket{
		OrderID: order.ID,
		Status:  tickets.StatusWaitingAdmin,
		Subject: subject,
		Message: message,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	if message != "" {
		firstMessage := &tickets.TicketMessage{
			TicketID:     ticket.ID,
			Role:         tickets.RoleCustomer,
			AuthorUserID: &userID,
			Message:      message,
		}
		if err := s.messageRepo.Create(ctx, firstMessage); err != nil {
			return nil, err
		}
	}

	s.dashboard.Invalidate()
	s.logger.Info("Customer ", customer.ID, " opened ticket ", ticket.ID, " on order #", order.Code())
	return ticket, nil
}

// CustomerList pages the customer's own tickets
func (s *ticketService) CustomerList(ctx context.Context, userID int64, page int) (*tickets.TicketPage, error) {
	customer, err := s.customerSvc.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	return s.ticketRepo.ListByCustomerID(ctx, customer.ID, page, tickets.CustomerPageSize)
}

// CustomerDetail returns one of the customer's tickets with its thread
func (s *ticketService) CustomerDetail(ctx context.Context, userID, ticketID int64) (*tickets.TicketDetail, error) {
	customer, err := s.customerSvc.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.GetByIDForCustomer(ctx, ticketID, customer.ID)
	if err != nil {
		return nil, err
	}

	return s.detail(ctx, ticket)
}

// CustomerReply appends a customer message and hands the ticket to the staff
func (s *ticketService) CustomerReply(ctx context.Context, userID, ticketID int64, message string) (*tickets.Ticket, error) {
	customer, err := s.customerSvc.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.GetByIDForCustomer(ctx, ticketID, customer.ID)
	if err != nil {
		return nil, err
	}

	return s.reply(ctx, ticket, tickets.RoleCustomer, userID, message, tickets.StatusWaitingAdmin)
}

// StaffList pages all tickets per the query
func (s *ticketService) StaffList(ctx context.Context, query *tickets.TicketQuery) (*tickets.TicketPage, error) {
	return s.ticketRepo.List(ctx, query)
}

// StaffDetail returns any ticket with its thread
func (s *ticketService) StaffDetail(ctx context.Context, ticketID int64) (*tickets.TicketDetail, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, ticket)
}

// StaffReply appends a staff message and hands the ticket to the customer
func (s *ticketService) StaffReply(ctx context.Context, ticketID, byUserID int64, message string) (*tickets.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	return s.reply(ctx, ticket, tickets.RoleAdmin, byUserID, message, tickets.StatusWaitingCustomer)
}

// SetStatus sets any valid ticket status
func (s *ticketService) SetStatus(ctx context.Context, ticketID int64, status string) (*tickets.Ticket, error) {
	if !tickets.ValidStatus(status) {
		return nil, fmt.Errorf("unknown ticket status %q", status)
	}

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	ticket.Status = tickets.Status(status)
	if err := s.ticketRepo.UpdateByID(ctx, ticket); err != nil {
		return nil, err
	}

	s.dashboard.Invalidate()
	return ticket, nil
}

// Close closes the ticket
func (s *ticketService) Close(ctx context.Context, ticketID int64) (*tickets.Ticket, error) {
	return s.SetStatus(ctx, ticketID, string(tickets.StatusClosed))
}

// reply appends one message to an open ticket and moves it to the other
// party's queue. Closed tickets and empty messages are rejected.
func (s *ticketService) reply(ctx context.Context, ticket *tickets.Ticket, role tickets.Role, authorID int64, message string, nextStatus tickets.Status) (*tickets.Ticket, error) {
	if ticket.IsClosed() {
		return nil, tickets.ErrTicketClosed
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, tickets.ErrEmptyMessage
	}

	entry := &tickets.TicketMessage{
		TicketID: ticket.ID,
		Role:     role,
		Message:  message,
	}
	if authorID != 0 {
		entry.AuthorUserID = &authorID
	}
	if err := s.messageRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	ticket.Status = nextStatus
	if err := s.ticketRepo.UpdateByID(ctx, ticket); err != nil {
		return nil, err
	}

	if role == tickets.RoleAdmin {
		if err := s.queueReplyEmail(ctx, ticket, authorID); err != nil {
			return nil, err
		}
	}

	s.dashboard.Invalidate()
	return ticket, nil
}

// queueReplyEmail enqueues the "staff replied" notice and records it on the
// order. A customer without an email gets no notice, which is not an error.
func (s *ticketService) queueReplyEmail(ctx context.Context, ticket *tickets.Ticket, byUserID int64) error {
	order, err := s.orderRepo.GetByID(ctx, ticket.OrderID)
	if err != nil {
		return err
	}
	bike, err := s.bikeRepo.GetByID(ctx, order.BikeID)
	if err != nil {
		return err
	}
	customer, err := s.customerRepo.GetByID(ctx, bike.CustomerID)
	if err != nil {
		return err
	}
	if customer.Email == "" {
		s.logger.Warn("Staff replied on ticket ", ticket.ID, " but customer ", customer.ID, " has no email")
		return nil
	}

	job := notifications.NewJob(notifications.JobTicketReplyEmail)
	job.TicketID = ticket.ID
	job.OrderID = order.ID
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to queue ticket reply email: %w", err)
	}

	entry := &notifications.ServiceOrderLog{
		OrderID: order.ID,
		Kind:    notifications.KindEmailTicket,
		Body:    fmt.Sprintf("To %s: odpoveď na tiket #%d", customer.Email, ticket.ID),
	}
	if byUserID != 0 {
		entry.CreatedByID = &byUserID
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to record notification log: %w", err)
	}
	return nil
}

// detail assembles a ticket with its thread and the display labels of the
// order it hangs on.
func (s *ticketService) detail(ctx context.Context, ticket *tickets.Ticket) (*tickets.TicketDetail, error) {
	messages, err := s.messageRepo.ListByTicketID(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, ticket.OrderID)
	if err != nil {
		return nil, err
	}
	bike, err := s.bikeRepo.GetByID(ctx, order.BikeID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.GetByID(ctx, bike.CustomerID)
	if err != nil {
		return nil, err
	}

	return &tickets.TicketDetail{
		Ticket:       ticket,
		Messages:     messages,
		OrderCode:    order.Code(),
		BikeLabel:    bike.Label(),
		CustomerName: customer.FullName,
	}, nil
}
