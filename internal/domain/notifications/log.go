package notifications

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// LogKind classifies what was sent about an order.
type LogKind string

const (
	KindSMS           LogKind = "SMS"
	KindEmailInvite   LogKind = "EMAIL_INVITE"
	KindEmailProtocol LogKind = "EMAIL_PROTOCOL"
	KindEmailDone     LogKind = "EMAIL_DONE"
	KindEmailTicket   LogKind = "EMAIL_TICKET"
)

var kindLabels = map[LogKind]string{
	KindSMS:           "SMS",
	KindEmailInvite:   "Email pozvánka",
	KindEmailProtocol: "Email protokol",
	KindEmailDone:     "Email hotová",
	KindEmailTicket:   "Email tiket",
}

// Label returns the Slovak display label of the kind.
func (k LogKind) Label() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return string(k)
}

// ServiceOrderLog records one outbound notification on an order. Rows are
// written when the message is queued, not when it is delivered.
type ServiceOrderLog struct {
	ID          int64
	OrderID     int64   `validate:"required"`
	Kind        LogKind `validate:"required,oneof=SMS EMAIL_INVITE EMAIL_PROTOCOL EMAIL_DONE EMAIL_TICKET"`
	Body        string
	CreatedByID *int64
	CreatedAt   time.Time
}

// Validate for validating ServiceOrderLog struct
func (l *ServiceOrderLog) Validate() error {
	validate := validator.New()

	err := validate.Struct(l)
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
