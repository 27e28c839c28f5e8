package tickets

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Role of a ticket message author.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

var roleLabels = map[Role]string{
	RoleCustomer: "Zákazník",
	RoleAdmin:    "Servis",
}

// Label returns the Slovak display label of the role.
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// TicketMessage is one entry of a ticket thread.
type TicketMessage struct {
	ID           int64
	TicketID     int64 `validate:"required"`
	Role         Role  `validate:"required,oneof=CUSTOMER ADMIN"`
	AuthorUserID *int64
	Message      string
	CreatedAt    time.Time
}

// Validate for validating TicketMessage struct
func (m *TicketMessage) Validate() error {
	validate := validator.New()

	err := validate.Struct(m)
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
