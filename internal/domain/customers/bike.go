package customers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Bike belongs to exactly one customer and is deleted with them.
type Bike struct {
	ID           int64
	CustomerID   int64  `validate:"required"`
	Brand        string `validate:"required,max=120"`
	Model        string `validate:"omitempty,max=160"`
	SerialNumber string `validate:"omitempty,max=160"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate for validating Bike struct
func (b *Bike) Validate() error {
	validate := validator.New()

	err := validate.Struct(b)
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

// Label renders the bike the way lists and emails show it, e.g. "Canyon Spectral".
func (b *Bike) Label() string {
	return strings.TrimSpace(strings.TrimSpace(b.Brand) + " " + strings.TrimSpace(b.Model))
}
