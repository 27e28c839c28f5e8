package notifications

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// JobKind selects what the dispatcher delivers.
type JobKind string

const (
	JobInviteEmail      JobKind = "invite_email"
	JobWelcomeEmail     JobKind = "welcome_email"
	JobDoneEmail        JobKind = "done_email"
	JobProtocolEmail    JobKind = "protocol_email"
	JobTicketReplyEmail JobKind = "ticket_reply_email"
	JobSMS              JobKind = "sms"
)

// Job is one queued notification. The payload carries identifiers, not
// rendered content: the dispatcher re-reads the entities and renders the
// message at delivery time, so a job sent over a broker never goes out with
// stale data.
type Job struct {
	ID          string  `json:"id" validate:"required"`
	Kind        JobKind `json:"kind" validate:"required,oneof=invite_email welcome_email done_email protocol_email ticket_reply_email sms"`
	OrderID     int64   `json:"order_id,omitempty"`
	TicketID    int64   `json:"ticket_id,omitempty"`
	CustomerID  int64   `json:"customer_id,omitempty"`
	UserID      int64   `json:"user_id,omitempty"`
	UserCreated bool    `json:"user_created,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Text        string  `json:"text,omitempty"`
}

// NewJob creates a Job of the given kind with a fresh ID.
func NewJob(kind JobKind) *Job {
	return &Job{
		ID:   uuid.New().String(),
		Kind: kind,
	}
}

// Validate for validating Job struct
func (j *Job) Validate() error {
	validate := validator.New()

	err := validate.Struct(j)
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
