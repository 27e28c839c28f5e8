package persistence

import (
	"context"
	"fmt"

	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/infrastructure/persistence/models"
	"github.com/litovianka/bike-service/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormTicketMessageRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormTicketMessageRepository creates a new GORM-based TicketMessageRepository implementation
func NewGormTicketMessageRepository(db *gorm.DB, logger logger.Logger) (tickets.TicketMessageRepository, error) {
	return &gormTicketMessageRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormTicketMessageRepository) Create(ctx context.Context, message *tickets.TicketMessage) error {
	// Validate domain entity (business rules)
	if err := message.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	// Convert to GORM model
	model := &models.TicketMessageModel{}
	model.FromDomain(message)

	// Persist to database
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket message: %w", err)
	}

	message.ID = model.ID
	message.CreatedAt = model.CreatedAt

	r.logger.Info("Created ticket message with id ", message.ID)
	return nil
}

func (r *gormTicketMessageRepository) ListByTicketID(ctx context.Context, ticketID int64) ([]*tickets.TicketMessage, error) {
	var modelList []*models.TicketMessageModel
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at, id").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket messages: %w", err)
	}

	// Convert to domain models
	domainList := make([]*tickets.TicketMessage, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}
