package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/infrastructure/persistence/models"
	"github.com/litovianka/bike-service/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormCustomerRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormCustomerRepository creates a new GORM-based CustomerRepository implementation
func NewGormCustomerRepository(db *gorm.DB, logger logger.Logger) (customers.CustomerRepository, error) {
	return &gormCustomerRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormCustomerRepository) Create(ctx context.Context, customer *customers.Customer) error {
	// Validate domain entity (business rules)
	if err := customer.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	// Convert to GORM model
	model := &models.CustomerModel{}
	model.FromDomain(customer)

	// Persist to database
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	customer.ID = model.ID
	customer.CreatedAt = model.CreatedAt
	customer.UpdatedAt = model.UpdatedAt

	r.logger.Info("Created customer with id ", customer.ID)
	return nil
}

func (r *gormCustomerRepository) GetByID(ctx context.Context, id int64) (*customers.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormCustomerRepository) GetByEmail(ctx context.Context, email string) (*customers.Customer, error) {
	var model models.CustomerModel
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		Order("id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch customer by email: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormCustomerRepository) GetByPhone(ctx context.Context, phone string) (*customers.Customer, error) {
	var model models.CustomerModel
	err := r.db.WithContext(ctx).
		Where("phone_number = ?", phone).
		Order("id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch customer by phone: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormCustomerRepository) GetByUserID(ctx context.Context, userID int64) (*customers.Customer, error) {
	var model models.CustomerModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch customer by user: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormCustomerRepository) UpdateByID(ctx context.Context, customer *customers.Customer) error {
	if err := customer.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.CustomerModel{}
	model.FromDomain(customer)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	customer.UpdatedAt = model.UpdatedAt

	r.logger.Info("Updated customer with id ", customer.ID)
	return nil
}
