package customers

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/litovianka/bike-service/internal/pkg/validators"
)

// ErrMissingCustomerFields is returned when a walk-in form arrives without
// the minimum identifying data. The text is the exact message the clients
// display.
var ErrMissingCustomerFields = errors.New("Vyplň meno, email a bicykel.")

// Customer is the workshop's record of a person bringing bikes in. It exists
// independently of a login: UserID stays nil until the customer accepts a
// portal invite. The name may be blank; the intake forms require it, the
// portal profile form does not.
type Customer struct {
	ID          int64
	UserID      *int64
	FullName    string `validate:"max=200"`
	Email       string `validate:"omitempty,email,max=254"`
	PhoneNumber string `validate:"omitempty,phone,max=40"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate for validating Customer struct
func (c *Customer) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("phone", validators.PhoneNumberValidation); err != nil {
		return fmt.Errorf("failed to register phone validation: %w", err)
	}

	err := validate.Struct(c)
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
