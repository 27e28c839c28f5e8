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

type gormBikeRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormBikeRepository creates a new GORM-based BikeRepository implementation
func NewGormBikeRepository(db *gorm.DB, logger logger.Logger) (customers.BikeRepository, error) {
	return &gormBikeRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormBikeRepository) Create(ctx context.Context, bike *customers.Bike) error {
	// Validate domain entity (business rules)
	if err := bike.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	// Convert to GORM model
	model := &models.BikeModel{}
	model.FromDomain(bike)

	// Persist to database
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create bike: %w", err)
	}

	bike.ID = model.ID
	bike.CreatedAt = model.CreatedAt
	bike.UpdatedAt = model.UpdatedAt

	r.logger.Info("Created bike with id ", bike.ID)
	return nil
}

func (r *gormBikeRepository) GetByID(ctx context.Context, id int64) (*customers.Bike, error) {
	var model models.BikeModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("bike with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to fetch bike: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormBikeRepository) ListByCustomerID(ctx context.Context, customerID int64) ([]*customers.Bike, error) {
	var modelList []*models.BikeModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("brand, model").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bikes: %w", err)
	}

	// Convert to domain models
	domainList := make([]*customers.Bike, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}
