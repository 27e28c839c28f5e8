package orders

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ServiceOrderPhoto is a stored photo of the bike or the repair, addressed
// by its path inside the photo store.
type ServiceOrderPhoto struct {
	ID        int64
	OrderID   int64  `validate:"required"`
	Path      string `validate:"required,max=500"`
	CreatedAt time.Time
}

// Validate for validating ServiceOrderPhoto struct
func (p *ServiceOrderPhoto) Validate() error {
	validate := validator.New()

	err := validate.Struct(p)
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
