package orders

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Status of a service order. Stored as the bare code, displayed through
// StatusLabel.
type Status string

const (
	StatusNew         Status = "NEW"
	StatusInProgress  Status = "IN_PROGRESS"
	StatusWaitingPart Status = "WAITING_PART"
	StatusReady       Status = "READY"
	StatusDone        Status = "DONE"
)

// ErrInvalidPrice is returned when a submitted price cannot be parsed. The
// text is the exact message the clients display.
var ErrInvalidPrice = errors.New("Cena nie je v správnom formáte.")

var statusLabels = map[Status]string{
	StatusNew:         "Nová",
	StatusInProgress:  "V procese",
	StatusWaitingPart: "Čakáme na diel",
	StatusReady:       "Pripravené",
	StatusDone:        "Hotová",
}

// Statuses lists all order statuses in display order.
func Statuses() []Status {
	return []Status{StatusNew, StatusInProgress, StatusWaitingPart, StatusReady, StatusDone}
}

// ValidStatus reports whether the given value is a known order status.
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

// ServiceOrder is one repair job on one bike.
type ServiceOrder struct {
	ID               int64
	BikeID           int64  `validate:"required"`
	ServiceCode      string `validate:"omitempty,max=40"`
	IssueDescription string
	WorkDone         string
	Status           Status `validate:"required,oneof=NEW IN_PROGRESS WAITING_PART READY DONE"`
	Price            decimal.Decimal
	PromisedDate     *time.Time
	Checklist        map[string]bool
	CreatedAt        time.Time
	CompletedAt      *time.Time
}

// Validate for validating ServiceOrder struct
func (o *ServiceOrder) Validate() error {
	validate := validator.New()

	err := validate.Struct(o)
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

// Code returns the human-facing order code: the assigned service code when
// present, the numeric ID otherwise.
func (o *ServiceOrder) Code() string {
	if o.ServiceCode != "" {
		return o.ServiceCode
	}
	return strconv.FormatInt(o.ID, 10)
}

// IsCompleted reports whether the order has a completion timestamp.
func (o *ServiceOrder) IsCompleted() bool {
	return o.CompletedAt != nil
}

// ApplyStatus sets the status and keeps CompletedAt consistent with it:
// entering DONE stamps the completion time once, leaving DONE clears it.
// It reports whether the order was completed by this call, which is the
// trigger for the "repair done" email.
func (o *ServiceOrder) ApplyStatus(status Status, now time.Time) bool {
	o.Status = status

	if status == StatusDone {
		if o.CompletedAt == nil {
			completed := now
			o.CompletedAt = &completed
			return true
		}
		return false
	}

	o.CompletedAt = nil
	return false
}

// PriceString formats the price the way emails and the protocol show it,
// always with two decimal places.
func (o *ServiceOrder) PriceString() string {
	return o.Price.StringFixed(2)
}

// ParsePrice parses a submitted price, tolerating a comma as the decimal
// separator. Empty input is zero.
func ParsePrice(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, nil
	}

	normalized := strings.ReplaceAll(trimmed, ",", ".")
	price, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, ErrInvalidPrice
	}
	if price.IsNegative() {
		return decimal.Zero, ErrInvalidPrice
	}
	return price.Round(2), nil
}

// ParsePromisedDate parses an ISO date (2006-01-02). Empty or malformed input
// clears the promised date.
func ParsePromisedDate(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	parsed, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil
	}
	return &parsed
}
