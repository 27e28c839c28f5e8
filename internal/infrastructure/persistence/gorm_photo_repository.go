package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/infrastructure/persistence/models"
	"github.com/litovianka/bike-service/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormPhotoRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormPhotoRepository creates a new GORM-based PhotoRepository implementation
func NewGormPhotoRepository(db *gorm.DB, logger logger.Logger) (orders.PhotoRepository, error) {
	return &gormPhotoRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormPhotoRepository) Create(ctx context.Context, photo *orders.ServiceOrderPhoto) error {
	// Validate domain entity (business rules)
	if err := photo.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	// Convert to GORM model
	model := &models.ServiceOrderPhotoModel{}
	model.FromDomain(photo)

	// Persist to database
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}

	photo.ID = model.ID
	photo.CreatedAt = model.CreatedAt

	r.logger.Info("Created photo with id ", photo.ID)
	return nil
}

func (r *gormPhotoRepository) GetByID(ctx context.Context, id int64) (*orders.ServiceOrderPhoto, error) {
	var model models.ServiceOrderPhotoModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("photo with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to fetch photo: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormPhotoRepository) ListByOrderID(ctx context.Context, orderID int64) ([]*orders.ServiceOrderPhoto, error) {
	var modelList []*models.ServiceOrderPhotoModel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC, id DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch photos: %w", err)
	}

	// Convert to domain models
	domainList := make([]*orders.ServiceOrderPhoto, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}

func (r *gormPhotoRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ServiceOrderPhotoModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	r.logger.Info("Deleted photo with id ", id)
	return nil
}
