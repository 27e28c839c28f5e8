package tickets

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Page sizes of the two ticket lists.
const (
	StaffPageSize    = 40
	CustomerPageSize = 30
)

// TicketQuery narrows and pages the staff ticket list. Search matches the
// ticket ID, subject, and messages as well as the order's code, bike, and
// customer.
type TicketQuery struct {
	Status   string `validate:"omitempty,oneof=OPEN WAITING_ADMIN WAITING_CUSTOMER CLOSED"`
	Search   string
	Page     int `validate:"omitempty,min=1"`
	PageSize int `validate:"omitempty,min=1,max=100"`
}

// NewTicketQuery creates a TicketQuery with default values
func NewTicketQuery() *TicketQuery {
	return &TicketQuery{
		Page:     1,
		PageSize: StaffPageSize,
	}
}

// Validate for validating TicketQuery struct
func (q *TicketQuery) Validate() error {
	validate := validator.New()

	err := validate.Struct(q)
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
