package persistence

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/infrastructure/persistence/models"
	"github.com/litovianka/bike-service/internal/pkg/logger"

	"gorm.io/gorm"
)

// avgRepairSampleSize bounds the average repair duration to the most recently
// completed orders so the dashboard stays cheap on a long history.
const avgRepairSampleSize = 200

type gormStatsRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormStatsRepository creates a new GORM-based StatsRepository implementation
func NewGormStatsRepository(db *gorm.DB, logger logger.Logger) (orders.StatsRepository, error) {
	return &gormStatsRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormStatsRepository) DashboardStats(ctx context.Context, today time.Time) (*orders.DashboardStats, error) {
	stats := &orders.DashboardStats{}
	day := today.Format("2006-01-02")
	weekAgo := today.AddDate(0, 0, -6).Format("2006-01-02")

	err := r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Where("status IN ?", waitingTicketStatuses()).
		Count(&stats.WaitingTicketsCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count waiting tickets: %w", err)
	}

	err = r.db.WithContext(ctx).
		Model(&models.ServiceOrderModel{}).
		Where("completed_at IS NULL AND status = ?", string(orders.StatusNew)).
		Count(&stats.OrdersNew).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count new orders: %w", err)
	}

	err = r.db.WithContext(ctx).
		Model(&models.ServiceOrderModel{}).
		Where("completed_at IS NULL AND status = ?", string(orders.StatusInProgress)).
		Count(&stats.OrdersInProgress).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count orders in progress: %w", err)
	}

	err = r.db.WithContext(ctx).
		Model(&models.ServiceOrderModel{}).
		Where("DATE(completed_at) = ?", day).
		Count(&stats.OrdersDoneToday).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count orders done today: %w", err)
	}

	err = r.db.WithContext(ctx).
		Model(&models.ServiceOrderModel{}).
		Where("status <> ?", string(orders.StatusDone)).
		Count(&stats.UnfinishedCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count unfinished orders: %w", err)
	}

	err = r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Where("status <> ?", string(tickets.StatusClosed)).
		Count(&stats.OpenTicketsCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count open tickets: %w", err)
	}

	err = r.db.WithContext(ctx).
		Model(&models.ServiceOrderModel{}).
		Where("completed_at IS NOT NULL AND DATE(completed_at) >= ?", weekAgo).
		Count(&stats.CompletedLast7Days).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count recently completed orders: %w", err)
	}

	avg, err := r.averageRepairDays(ctx)
	if err != nil {
		return nil, err
	}
	stats.AvgRepairDays = avg

	return stats, nil
}

// averageRepairDays computes the mean repair duration in days over the most
// recently completed orders, rounded to one decimal place.
func (r *gormStatsRepository) averageRepairDays(ctx context.Context) (float64, error) {
	var modelList []*models.ServiceOrderModel
	err := r.db.WithContext(ctx).
		Model(&models.ServiceOrderModel{}).
		Select("created_at", "completed_at").
		Where("completed_at IS NOT NULL").
		Order("completed_at DESC").
		Limit(avgRepairSampleSize).
		Find(&modelList).Error
	if err != nil {
		return 0, fmt.Errorf("failed to fetch completed orders: %w", err)
	}

	var sum float64
	var count int
	for _, model := range modelList {
		if model.CompletedAt == nil || model.CompletedAt.Before(model.CreatedAt) {
			continue
		}
		sum += model.CompletedAt.Sub(model.CreatedAt).Seconds() / 86400
		count++
	}
	if count == 0 {
		return 0, nil
	}

	return math.Round(sum/float64(count)*10) / 10, nil
}
