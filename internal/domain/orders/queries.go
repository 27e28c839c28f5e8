package orders

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/litovianka/bike-service/internal/pkg/strutil"
)

// DefaultPageSize is the panel page size.
const DefaultPageSize = 50

// Panel tabs.
const (
	TabActive    = "active"
	TabCompleted = "completed"
)

// OrderQuery narrows and pages the staff panel listing.
type OrderQuery struct {
	Tab            string `validate:"required,oneof=active completed"`
	Status         string `validate:"omitempty,oneof=NEW IN_PROGRESS WAITING_PART READY DONE"`
	DoneToday      bool
	WaitingTickets bool
	Search         string
	Page           int `validate:"omitempty,min=1"`
	PageSize       int `validate:"omitempty,min=1,max=100"`
}

// NewOrderQuery creates an OrderQuery with default values
func NewOrderQuery() *OrderQuery {
	return &OrderQuery{
		Tab:      TabActive,
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// Validate for validating OrderQuery struct
func (q *OrderQuery) Validate() error {
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

var codeQueryPattern = regexp.MustCompile(`^#?\s*(\d+)$`)

// SearchToken is one whitespace-separated word of a smart search. Phone holds
// the token's digits so phone numbers match regardless of separators.
type SearchToken struct {
	Text  string
	Phone string
}

// SearchSpec is the parsed form of a smart-search query. A query consisting
// of digits (optionally prefixed with '#') addresses an order directly by ID
// or service code; anything else is matched token by token across orders,
// bikes, customers, and tickets.
type SearchSpec struct {
	ByCode  bool
	OrderID int64
	Code    string
	Tokens  []SearchToken
}

// IsEmpty reports whether the spec matches everything.
func (s *SearchSpec) IsEmpty() bool {
	return !s.ByCode && len(s.Tokens) == 0
}

// ParseSearch parses a raw panel search query.
func ParseSearch(query string) *SearchSpec {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return &SearchSpec{}
	}

	if match := codeQueryPattern.FindStringSubmatch(trimmed); match != nil {
		id, _ := strconv.ParseInt(match[1], 10, 64)
		return &SearchSpec{ByCode: true, OrderID: id, Code: match[1]}
	}

	spec := &SearchSpec{}
	for _, token := range strings.Fields(trimmed) {
		spec.Tokens = append(spec.Tokens, SearchToken{
			Text:  token,
			Phone: strutil.Digits(token),
		})
	}
	return spec
}
