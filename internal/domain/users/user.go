package users

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// Authentication failures customers and staff can run into. The texts are the
// exact messages the clients display.
var (
	ErrInvalidCredentials   = errors.New("Nesprávny e mail alebo heslo.")
	ErrCurrentPasswordWrong = errors.New("Aktuálne heslo nesedí.")
	ErrPasswordMismatch     = errors.New("Nové heslá sa nezhodujú.")
	ErrInvalidLink          = errors.New("Neplatný odkaz.")
	ErrLinkExpired          = errors.New("Link na nastavenie hesla je neplatný alebo expiroval.")
)

// User entity. Customer accounts are created with an empty password hash and
// stay unusable for login until the owner follows a set-password link.
type User struct {
	ID           int64
	Username     string `validate:"required,min=1,max=150"`
	Email        string `validate:"omitempty,email,max=254"`
	FirstName    string `validate:"max=150"`
	LastName     string `validate:"max=150"`
	PasswordHash string
	IsStaff      bool
	IsSuperuser  bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate for validating User struct
func (u *User) Validate() error {
	validate := validator.New()

	err := validate.Struct(u)
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

// FullName joins the first and last name, falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Username
	}
	return name
}

// HasUsablePassword reports whether the account can log in with a password.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != ""
}

// SetPassword hashes and stores the given plaintext password.
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the given plaintext matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	if !u.HasUsablePassword() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SplitFullName derives the first and last name columns from a customer's
// full name: the first word becomes the first name, the rest the last name.
func SplitFullName(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
