package tickets

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Status of a support ticket.
type Status string

const (
	StatusOpen            Status = "OPEN"
	StatusWaitingAdmin    Status = "WAITING_ADMIN"
	StatusWaitingCustomer Status = "WAITING_CUSTOMER"
	StatusClosed          Status = "CLOSED"
)

// Reply failures customers can run into. The texts are the exact messages
// the clients display.
var (
	ErrTicketClosed = errors.New("Ticket je zatvorený.")
	ErrEmptyMessage = errors.New("Správa nemôže byť prázdna.")
)

var statusLabels = map[Status]string{
	StatusOpen:            "Otvorený",
	StatusWaitingAdmin:    "Čaká na servis",
	StatusWaitingCustomer: "Čaká na zákazníka",
	StatusClosed:          "Zatvorený",
}

// Statuses lists all ticket statuses in display order.
func Statuses() []Status {
	return []Status{StatusOpen, StatusWaitingAdmin, StatusWaitingCustomer, StatusClosed}
}

// ValidStatus reports whether the given value is a known ticket status.
func ValidStatus(value string) bool {
	_, ok := statusLabels[Status(value)]
	return ok
}

// Label returns the Slovak display label of the status.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// WaitingStatuses are the states in which the staff owes a response.
func WaitingStatuses() []Status {
	return []Status{StatusOpen, StatusWaitingAdmin}
}

// Ticket is a support thread attached to one service order. Ownership follows
// the order: the customer of the order's bike may read and reply.
type Ticket struct {
	ID        int64
	OrderID   int64  `validate:"required"`
	Status    Status `validate:"required,oneof=OPEN WAITING_ADMIN WAITING_CUSTOMER CLOSED"`
	Subject   string `validate:"omitempty,max=200"`
	Message   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate for validating Ticket struct
func (t *Ticket) Validate() error {
	validate := validator.New()

	err := validate.Struct(t)
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

// IsClosed reports whether the ticket no longer accepts customer replies.
func (t *Ticket) IsClosed() bool {
	return t.Status == StatusClosed
}

// DefaultSubject is the subject used when the customer leaves it blank.
func DefaultSubject(orderCode string) string {
	return fmt.Sprintf("Otázka k servisu #%s", orderCode)
}
