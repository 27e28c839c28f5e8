package persistence

import (
	"context"
	"fmt"

	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/infrastructure/persistence/models"
	"github.com/litovianka/bike-service/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormOrderLogRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormOrderLogRepository creates a new GORM-based LogRepository implementation
func NewGormOrderLogRepository(db *gorm.DB, logger logger.Logger) (notifications.LogRepository, error) {
	return &gormOrderLogRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormOrderLogRepository) Create(ctx context.Context, log *notifications.ServiceOrderLog) error {
	// Validate domain entity (business rules)
	if err := log.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	// Convert to GORM model
	model := &models.ServiceOrderLogModel{}
	model.FromDomain(log)

	// Persist to database
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create order log: %w", err)
	}

	log.ID = model.ID
	log.CreatedAt = model.CreatedAt

	r.logger.Info("Created order log with id ", log.ID)
	return nil
}

func (r *gormOrderLogRepository) ListByOrderID(ctx context.Context, orderID int64) ([]*notifications.ServiceOrderLog, error) {
	var modelList []*models.ServiceOrderLogModel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC, id DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order logs: %w", err)
	}

	// Convert to domain models
	domainList := make([]*notifications.ServiceOrderLog, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}
