// Package app wires the domain contracts together into the services the API
// handlers and CLI commands call. One service per aggregate; repositories and
// the notification queue come in through the constructors.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/domain/users"
	"github.com/litovianka/bike-service/internal/pkg/logger"
)

// customerService implements the CustomerService interface for managing
// customers and their portal profiles
type customerService struct {
	customerRepo customers.CustomerRepository
	bikeRepo     customers.BikeRepository
	userRepo     users.UserRepository
	queue        notifications.Queue
	logger       logger.Logger
}

// NewCustomerService creates a new instance of CustomerService
func NewCustomerService(
	customerRepo customers.CustomerRepository,
	bikeRepo customers.BikeRepository,
	userRepo users.UserRepository,
	queue notifications.Queue,
	logger logger.Logger,
) (customers.CustomerService, error) {
	return &customerService{
		customerRepo: customerRepo,
		bikeRepo:     bikeRepo,
		userRepo:     userRepo,
		queue:        queue,
		logger:       logger,
	}, nil
}

// RegisterCustomer creates a customer together with their first bike, reusing
// an existing customer matched by email. The portal account is created when
// missing, and the welcome email is queued only for a fresh account.
func (s *customerService) RegisterCustomer(ctx context.Context, input *customers.RegisterCustomerInput) (*customers.RegistrationResult, error) {
	if strings.TrimSpace(input.FullName) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.BikeBrand) == "" {
		return nil, customers.ErrMissingCustomerFields
	}

	customer, _, err := s.FindOrCreateByContact(ctx, input.FullName, input.Email, input.PhoneNumber)
	if err != nil {
		return nil, err
	}

	bike := &customers.Bike{
		CustomerID:   customer.ID,
		Brand:        strings.TrimSpace(input.BikeBrand),
		Model:        strings.TrimSpace(input.BikeModel),
		SerialNumber: strings.TrimSpace(input.BikeSerial),
	}
	if err := s.bikeRepo.Create(ctx, bike); err != nil {
		return nil, fmt.Errorf("failed to create bike: %w", err)
	}

	user, userCreated, err := ensurePortalAccount(ctx, s.userRepo, s.customerRepo, customer)
	if err != nil {
		return nil, err
	}

	if userCreated {
		job := notifications.NewJob(notifications.JobWelcomeEmail)
		job.CustomerID = customer.ID
		job.UserID = user.ID
		job.UserCreated = true
		if err := s.queue.Enqueue(ctx, job); err != nil {
			return nil, fmt.Errorf("failed to queue welcome email: %w", err)
		}
	}

	s.logger.Info("Registered customer ", customer.ID, " with bike ", bike.ID)

	return &customers.RegistrationResult{
		Customer:    customer,
		Bike:        bike,
		User:        user,
		UserCreated: userCreated,
	}, nil
}

// FindOrCreateByContact returns the customer matched by email first and phone
// second, creating an unlinked customer when neither matches. On a match,
// blank fields are backfilled from the given contact data.
func (s *customerService) FindOrCreateByContact(ctx context.Context, fullName, email, phone string) (*customers.Customer, bool, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)

	var customer *customers.Customer
	var err error

	if email != "" {
		customer, err = s.customerRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, false, err
		}
	}
	if customer == nil && phone != "" {
		customer, err = s.customerRepo.GetByPhone(ctx, phone)
		if err != nil {
			return nil, false, err
		}
	}

	if customer == nil {
		customer = &customers.Customer{
			FullName:    fullName,
			Email:       email,
			PhoneNumber: phone,
		}
		if err := s.customerRepo.Create(ctx, customer); err != nil {
			return nil, false, fmt.Errorf("failed to create customer: %w", err)
		}
		return customer, true, nil
	}

	changed := false
	if customer.FullName == "" && fullName != "" {
		customer.FullName = fullName
		changed = true
	}
	if customer.Email == "" && email != "" {
		customer.Email = email
		changed = true
	}
	if customer.PhoneNumber == "" && phone != "" {
		customer.PhoneNumber = phone
		changed = true
	}
	if changed {
		if err := s.customerRepo.UpdateByID(ctx, customer); err != nil {
			return nil, false, fmt.Errorf("failed to update customer: %w", err)
		}
	}

	return customer, false, nil
}

// GetByID retrieves a customer by ID
func (s *customerService) GetByID(ctx context.Context, id int64) (*customers.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return customer, nil
}

// UpdateCustomer updates a customer's contact data from the staff panel.
// Blank email keeps the stored one so a counter edit cannot detach a portal
// account by accident.
func (s *customerService) UpdateCustomer(ctx context.Context, id int64, fullName, email, phoneNumber string) (*customers.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.FullName = strings.TrimSpace(fullName)
	customer.PhoneNumber = strings.TrimSpace(phoneNumber)
	if email = strings.TrimSpace(email); email != "" {
		customer.Email = email
	}

	if err := s.customerRepo.UpdateByID(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

// GetProfile retrieves the customer profile linked to a user account. A
// profile that was created at the counter before the account existed is
// adopted by matching the user's email.
func (s *customerService) GetProfile(ctx context.Context, userID int64) (*customers.Customer, error) {
	customer, err := s.customerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		return customer, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Email == "" {
		return nil, customers.ErrMissingProfile
	}

	customer, err = s.customerRepo.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.UserID != nil {
		return nil, customers.ErrMissingProfile
	}

	customer.UserID = &user.ID
	if err := s.customerRepo.UpdateByID(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to adopt customer profile: %w", err)
	}

	s.logger.Info("Adopted customer profile ", customer.ID, " for user ", userID)
	return customer, nil
}

// UpdateProfile updates the customer's own name and phone number
func (s *customerService) UpdateProfile(ctx context.Context, userID int64, fullName, phoneNumber string) (*customers.Customer, error) {
	customer, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	customer.FullName = strings.TrimSpace(fullName)
	customer.PhoneNumber = strings.TrimSpace(phoneNumber)

	if err := s.customerRepo.UpdateByID(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

// ensurePortalAccount finds or creates the portal user for a customer and
// links the profile to it. Fresh accounts get the lowercased email as
// username, the name split from the profile, and no usable password; the
// owner sets one through the emailed link.
func ensurePortalAccount(
	ctx context.Context,
	userRepo users.UserRepository,
	customerRepo customers.CustomerRepository,
	customer *customers.Customer,
) (*users.User, bool, error) {
	if customer.Email == "" {
		return nil, false, fmt.Errorf("customer %d has no email address", customer.ID)
	}

	username := strings.ToLower(strings.TrimSpace(customer.Email))

	user, err := userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, false, err
	}

	created := false
	if user == nil {
		firstName, lastName := users.SplitFullName(customer.FullName)
		user = &users.User{
			Username:  username,
			Email:     username,
			FirstName: firstName,
			LastName:  lastName,
			IsActive:  true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return nil, false, fmt.Errorf("failed to create portal account: %w", err)
		}
		created = true
	}

	if customer.UserID == nil || *customer.UserID != user.ID {
		customer.UserID = &user.ID
		if err := customerRepo.UpdateByID(ctx, customer); err != nil {
			return nil, false, fmt.Errorf("failed to link portal account: %w", err)
		}
	}

	return user, created, nil
}
