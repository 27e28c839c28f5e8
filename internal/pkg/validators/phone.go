package validators

import (
	"github.com/go-playground/validator/v10"
)

// PhoneNumberValidation accepts the loosely formatted phone numbers customers
// provide: an optional leading +, then digits, spaces, dots, dashes and
// parentheses, with at least six digits overall.
func PhoneNumberValidation(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if phone == "" {
		return false
	}

	digits := 0
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '.' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}

	return digits >= 6
}
