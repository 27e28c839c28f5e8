// Package notification delivers queued customer messages. Jobs carry
// identifiers only, so every message is composed from current data right
// before the mailer or SMS provider is called.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/domain/users"
	"github.com/litovianka/bike-service/internal/pkg/config"
	"github.com/litovianka/bike-service/internal/pkg/logger"
	"github.com/litovianka/bike-service/internal/pkg/token"
)

const (
	deliveryAttempts = 3
	deliveryDelay    = 2 * time.Second
)

// dispatcher composes and delivers one job at a time. Composition failures
// are final; transport failures are retried.
type dispatcher struct {
	orderRepo     orders.OrderRepository
	bikeRepo      customers.BikeRepository
	customerRepo  customers.CustomerRepository
	userRepo      users.UserRepository
	ticketRepo    tickets.TicketRepository
	messageRepo   tickets.TicketMessageRepository
	mailer        notifications.Mailer
	smsSender     notifications.SMSSender
	protocol      orders.ProtocolRenderer
	tokens        *token.Manager
	portalBaseURL string
	logger        logger.Logger

	attempts int
	delay    time.Duration
	clock    clock.Clock
}

// NewDispatcher creates a Dispatcher delivering through the given mailer and
// SMS sender
func NewDispatcher(
	orderRepo orders.OrderRepository,
	bikeRepo customers.BikeRepository,
	customerRepo customers.CustomerRepository,
	userRepo users.UserRepository,
	ticketRepo tickets.TicketRepository,
	messageRepo tickets.TicketMessageRepository,
	mailer notifications.Mailer,
	smsSender notifications.SMSSender,
	protocolRenderer orders.ProtocolRenderer,
	tokenManager *token.Manager,
	settings *config.NotificationSettings,
	logger logger.Logger,
) (notifications.Dispatcher, error) {
	if tokenManager == nil {
		return nil, fmt.Errorf("token manager must not be nil")
	}
	if settings.PortalBaseURL == "" {
		return nil, fmt.Errorf("portal base URL must not be empty")
	}

	return &dispatcher{
		orderRepo:     orderRepo,
		bikeRepo:      bikeRepo,
		customerRepo:  customerRepo,
		userRepo:      userRepo,
		ticketRepo:    ticketRepo,
		messageRepo:   messageRepo,
		mailer:        mailer,
		smsSender:     smsSender,
		protocol:      protocolRenderer,
		tokens:        tokenManager,
		portalBaseURL: settings.PortalBaseURL,
		logger:        logger,
		attempts:      deliveryAttempts,
		delay:         deliveryDelay,
		clock:         clock.WallClock,
	}, nil
}

// Dispatch composes and delivers one job
func (d *dispatcher) Dispatch(ctx context.Context, job *notifications.Job) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	switch job.Kind {
	case notifications.JobSMS:
		if job.Phone == "" {
			return fmt.Errorf("sms job %s has no phone number", job.ID)
		}
		return d.deliver(ctx, job, func() error {
			return d.smsSender.Send(ctx, job.Phone, job.Text)
		})

	case notifications.JobInviteEmail, notifications.JobWelcomeEmail,
		notifications.JobDoneEmail, notifications.JobProtocolEmail,
		notifications.JobTicketReplyEmail:
		email, err := d.compose(ctx, job)
		if err != nil {
			return fmt.Errorf("failed to compose %s notification %s: %w", job.Kind, job.ID, err)
		}
		return d.deliver(ctx, job, func() error {
			return d.mailer.Send(ctx, email)
		})

	default:
		return fmt.Errorf("unknown notification kind %q", job.Kind)
	}
}

// deliver runs one send through the retry policy. Composition happens before
// this point, so only transport failures get retried.
func (d *dispatcher) deliver(ctx context.Context, job *notifications.Job, send func() error) error {
	err := retry.Call(retry.CallArgs{
		Func:     send,
		Attempts: d.attempts,
		Delay:    d.delay,
		Clock:    d.clock,
		Stop:     ctx.Done(),
		NotifyFunc: func(lastError error, attempt int) {
			d.logger.Warn("Delivery attempt ", attempt, " for notification ", job.ID, " failed: ", lastError)
		},
	})
	if err != nil {
		if retry.IsAttemptsExceeded(err) {
			err = retry.LastError(err)
		}
		return fmt.Errorf("failed to deliver %s notification %s: %w", job.Kind, job.ID, err)
	}

	d.logger.Info("Delivered ", job.Kind, " notification ", job.ID)
	return nil
}

func (d *dispatcher) compose(ctx context.Context, job *notifications.Job) (*notifications.Email, error) {
	switch job.Kind {
	case notifications.JobInviteEmail:
		return d.composeInvite(ctx, job)
	case notifications.JobWelcomeEmail:
		return d.composeWelcome(ctx, job)
	case notifications.JobDoneEmail:
		return d.composeDone(ctx, job)
	case notifications.JobTicketReplyEmail:
		return d.composeTicketReply(ctx, job)
	default:
		return d.composeProtocol(ctx, job)
	}
}

func (d *dispatcher) composeInvite(ctx context.Context, job *notifications.Job) (*notifications.Email, error) {
	customer, err := d.customerRepo.GetByID(ctx, job.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.Email == "" {
		return nil, fmt.Errorf("customer %d has no email", customer.ID)
	}

	user, err := d.userRepo.GetByID(ctx, job.UserID)
	if err != nil {
		return nil, err
	}

	links, err := d.portalLinks(user)
	if err != nil {
		return nil, err
	}

	return inviteEmail(customer.Email, greetingName(customer.FullName, customer.Email), job.UserCreated, links), nil
}

func (d *dispatcher) composeWelcome(ctx context.Context, job *notifications.Job) (*notifications.Email, error) {
	customer, err := d.customerRepo.GetByID(ctx, job.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.Email == "" {
		return nil, fmt.Errorf("customer %d has no email", customer.ID)
	}

	user, err := d.userRepo.GetByID(ctx, job.UserID)
	if err != nil {
		return nil, err
	}

	links, err := d.portalLinks(user)
	if err != nil {
		return nil, err
	}

	return welcomeEmail(customer.Email, greetingName(customer.FullName, customer.Email), user.Username, links), nil
}

func (d *dispatcher) composeDone(ctx context.Context, job *notifications.Job) (*notifications.Email, error) {
	order, _, customer, err := d.orderParties(ctx, job.OrderID)
	if err != nil {
		return nil, err
	}

	return doneEmail(customer.Email, greetingName(customer.FullName, customer.Email), order), nil
}

// composeTicketReply picks the newest staff message off the thread at
// delivery time, so a late delivery carries the reply that is actually there.
func (d *dispatcher) composeTicketReply(ctx context.Context, job *notifications.Job) (*notifications.Email, error) {
	ticket, err := d.ticketRepo.GetByID(ctx, job.TicketID)
	if err != nil {
		return nil, err
	}

	messages, err := d.messageRepo.ListByTicketID(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	var reply *tickets.TicketMessage
	for _, message := range messages {
		if message.Role == tickets.RoleAdmin {
			reply = message
		}
	}
	if reply == nil {
		return nil, fmt.Errorf("ticket %d has no staff reply", ticket.ID)
	}

	order, _, customer, err := d.orderParties(ctx, ticket.OrderID)
	if err != nil {
		return nil, err
	}

	ticketURL := fmt.Sprintf("%s/tickets/%d", strings.TrimRight(d.portalBaseURL, "/"), ticket.ID)
	return ticketReplyEmail(customer.Email, greetingName(customer.FullName, customer.Email),
		order.Code(), reply.Message, ticketURL), nil
}

func (d *dispatcher) composeProtocol(ctx context.Context, job *notifications.Job) (*notifications.Email, error) {
	order, bike, customer, err := d.orderParties(ctx, job.OrderID)
	if err != nil {
		return nil, err
	}

	pdf, err := d.protocol.Render(order, bike, customer)
	if err != nil {
		return nil, fmt.Errorf("failed to render protocol: %w", err)
	}

	return protocolEmail(customer.Email, greetingName(customer.FullName, customer.Email), order, pdf), nil
}

// orderParties resolves the order with the bike it is for and the customer
// who owns that bike. The customer must have an email on file.
func (d *dispatcher) orderParties(ctx context.Context, orderID int64) (*orders.ServiceOrder, *customers.Bike, *customers.Customer, error) {
	order, err := d.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}

	bike, err := d.bikeRepo.GetByID(ctx, order.BikeID)
	if err != nil {
		return nil, nil, nil, err
	}

	customer, err := d.customerRepo.GetByID(ctx, bike.CustomerID)
	if err != nil {
		return nil, nil, nil, err
	}
	if customer.Email == "" {
		return nil, nil, nil, fmt.Errorf("customer %d has no email", customer.ID)
	}

	return order, bike, customer, nil
}

// portalLinks mints a fresh set-password link for the user. Tokens are issued
// at delivery time so the emailed link gets its full lifetime.
func (d *dispatcher) portalLinks(user *users.User) (portalLinks, error) {
	uid, setToken, err := d.tokens.IssueSetPassword(user.ID, user.PasswordHash)
	if err != nil {
		return portalLinks{}, fmt.Errorf("failed to issue set-password token: %w", err)
	}

	base := strings.TrimRight(d.portalBaseURL, "/")
	return portalLinks{
		SetPassword: fmt.Sprintf("%s/set-password/%s/%s", base, uid, setToken),
		Login:       base + "/login",
	}, nil
}
