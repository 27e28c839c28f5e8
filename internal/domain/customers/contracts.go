package customers

import (
	"context"
	"errors"

	"github.com/litovianka/bike-service/internal/domain/users"
)

// ErrMissingProfile is returned on portal operations when the user has no
// customer profile. The text is the exact message the clients display.
var ErrMissingProfile = errors.New("Chýba zákaznícky profil.")

// CustomerRepository defines methods for managing customers in a repository
type CustomerRepository interface {
	// Create creates a new customer
	Create(ctx context.Context, customer *Customer) error
	// GetByID retrieves a customer by ID
	GetByID(ctx context.Context, id int64) (*Customer, error)
	// GetByEmail retrieves the most recently created customer with the given
	// email, matched case-insensitively. Returns nil when none matches.
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	// GetByPhone retrieves the most recently created customer with the given
	// phone number. Returns nil when none matches.
	GetByPhone(ctx context.Context, phone string) (*Customer, error)
	// GetByUserID retrieves the customer linked to the given user account.
	// Returns nil when the user has no profile.
	GetByUserID(ctx context.Context, userID int64) (*Customer, error)
	// UpdateByID updates an existing customer
	UpdateByID(ctx context.Context, customer *Customer) error
}

// BikeRepository defines methods for managing bikes in a repository
type BikeRepository interface {
	// Create creates a new bike
	Create(ctx context.Context, bike *Bike) error
	// GetByID retrieves a bike by ID
	GetByID(ctx context.Context, id int64) (*Bike, error)
	// ListByCustomerID retrieves all bikes of a customer, ordered by brand
	// then model
	ListByCustomerID(ctx context.Context, customerID int64) ([]*Bike, error)
}

// RegisterCustomerInput carries the staff form for creating a customer with
// their first bike.
type RegisterCustomerInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	BikeBrand   string
	BikeModel   string
	BikeSerial  string
}

// RegistrationResult reports what RegisterCustomer created. UserCreated is
// false when the customer already had a portal account.
type RegistrationResult struct {
	Customer    *Customer
	Bike        *Bike
	User        *users.User
	UserCreated bool
}

// CustomerService defines methods for managing customers and their portal
// profiles
type CustomerService interface {
	// RegisterCustomer creates a customer together with their first bike,
	// reusing an existing customer matched by email. The portal account is
	// created when missing, and the welcome email is queued only for a fresh
	// account.
	RegisterCustomer(ctx context.Context, input *RegisterCustomerInput) (*RegistrationResult, error)
	// FindOrCreateByContact returns the customer matched by email first and
	// phone second, creating an unlinked customer when neither matches. On a
	// match, blank fields are backfilled from the given contact data. It
	// reports whether a new customer was created.
	FindOrCreateByContact(ctx context.Context, fullName, email, phone string) (*Customer, bool, error)
	// GetByID retrieves a customer by ID
	GetByID(ctx context.Context, id int64) (*Customer, error)
	// UpdateCustomer updates a customer's contact data from the staff panel.
	// Blank email keeps the stored one.
	UpdateCustomer(ctx context.Context, id int64, fullName, email, phoneNumber string) (*Customer, error)
	// GetProfile retrieves the customer profile linked to a user account,
	// adopting an unlinked profile with the user's email when needed
	GetProfile(ctx context.Context, userID int64) (*Customer, error)
	// UpdateProfile updates the customer's own name and phone number
	UpdateProfile(ctx context.Context, userID int64, fullName, phoneNumber string) (*Customer, error)
}
