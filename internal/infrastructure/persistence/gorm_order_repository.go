package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/infrastructure/persistence/models"
	"github.com/litovianka/bike-service/internal/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type gormOrderRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormOrderRepository creates a new GORM-based OrderRepository implementation
func NewGormOrderRepository(db *gorm.DB, logger logger.Logger) (orders.OrderRepository, error) {
	return &gormOrderRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormOrderRepository) Create(ctx context.Context, order *orders.ServiceOrder) error {
	// Validate domain entity (business rules)
	if err := order.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	// Convert to GORM model
	model := &models.ServiceOrderModel{}
	model.FromDomain(order)

	// Persist to database
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create service order: %w", err)
	}

	order.ID = model.ID
	order.CreatedAt = model.CreatedAt

	r.logger.Info("Created service order with id ", order.ID)
	return nil
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id int64) (*orders.ServiceOrder, error) {
	var model models.ServiceOrderModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("service order with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to fetch service order: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormOrderRepository) UpdateByID(ctx context.Context, order *orders.ServiceOrder) error {
	if err := order.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.ServiceOrderModel{}
	model.FromDomain(order)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update service order: %w", err)
	}

	r.logger.Info("Updated service order with id ", order.ID)
	return nil
}

func (r *gormOrderRepository) List(ctx context.Context, query *orders.OrderQuery) (*orders.OrderPage, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = orders.DefaultPageSize
	}

	spec := orders.ParseSearch(query.Search)

	var total int64
	if err := r.panelQuery(ctx, query, spec).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count service orders: %w", err)
	}

	page, pageCount := clampPage(page, pageSize, total)

	var modelList []*models.ServiceOrderModel
	err := r.panelQuery(ctx, query, spec).
		Order("service_orders.created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Preload("Bike").
		Preload("Bike.Customer").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service orders: %w", err)
	}

	rows := make([]*orders.OrderRow, len(modelList))
	for i, model := range modelList {
		rows[i] = orderRowFromModel(model)
	}

	return &orders.OrderPage{
		Rows:       rows,
		TotalCount: total,
		Page:       page,
		PageCount:  pageCount,
	}, nil
}

// panelQuery builds the filtered panel listing without ordering or paging so
// the same conditions serve both the count and the page fetch.
func (r *gormOrderRepository) panelQuery(ctx context.Context, query *orders.OrderQuery, spec *orders.SearchSpec) *gorm.DB {
	dbQuery := r.db.WithContext(ctx).
		Model(&models.ServiceOrderModel{}).
		Select("service_orders.*").
		Joins("JOIN bikes ON bikes.id = service_orders.bike_id").
		Joins("JOIN customers ON customers.id = bikes.customer_id")

	if query.Tab == orders.TabCompleted {
		dbQuery = dbQuery.Where("service_orders.completed_at IS NOT NULL")
	} else {
		dbQuery = dbQuery.Where("service_orders.completed_at IS NULL")
	}

	if query.Status != "" {
		dbQuery = dbQuery.Where("service_orders.status = ?", query.Status)
	}
	if query.DoneToday {
		today := time.Now().UTC().Format("2006-01-02")
		dbQuery = dbQuery.Where("DATE(service_orders.completed_at) = ?", today)
	}
	if query.WaitingTickets {
		dbQuery = dbQuery.Where(
			"EXISTS (SELECT 1 FROM tickets WHERE tickets.order_id = service_orders.id AND tickets.status IN ?)",
			waitingTicketStatuses(),
		)
	}

	return applyOrderSearch(dbQuery, spec)
}

// applyOrderSearch narrows the listing per the parsed smart search. A plain
// number addresses one order directly; otherwise every token has to match
// somewhere around the order.
func applyOrderSearch(dbQuery *gorm.DB, spec *orders.SearchSpec) *gorm.DB {
	if spec.IsEmpty() {
		return dbQuery
	}

	if spec.ByCode {
		return dbQuery.Where(
			"service_orders.id = ? OR service_orders.service_code LIKE ?",
			spec.OrderID, "%"+spec.Code+"%",
		)
	}

	for _, token := range spec.Tokens {
		pattern := "%" + token.Text + "%"
		conditions := []string{
			"LOWER(customers.full_name) LIKE LOWER(?)",
			"LOWER(customers.email) LIKE LOWER(?)",
			"LOWER(bikes.brand) LIKE LOWER(?)",
			"LOWER(bikes.model) LIKE LOWER(?)",
			"LOWER(bikes.serial_number) LIKE LOWER(?)",
			"LOWER(service_orders.issue_description) LIKE LOWER(?)",
			"LOWER(service_orders.work_done) LIKE LOWER(?)",
			"LOWER(service_orders.service_code) LIKE LOWER(?)",
			"EXISTS (SELECT 1 FROM tickets WHERE tickets.order_id = service_orders.id AND (LOWER(tickets.subject) LIKE LOWER(?) OR LOWER(tickets.message) LIKE LOWER(?)))",
			"EXISTS (SELECT 1 FROM tickets JOIN ticket_messages ON ticket_messages.ticket_id = tickets.id WHERE tickets.order_id = service_orders.id AND LOWER(ticket_messages.message) LIKE LOWER(?))",
		}
		args := []interface{}{
			pattern, pattern, pattern, pattern, pattern, pattern,
			pattern, pattern, pattern, pattern, pattern,
		}
		if token.Phone != "" {
			conditions = append(conditions, "customers.phone_number LIKE ?")
			args = append(args, "%"+token.Phone+"%")
		}
		dbQuery = dbQuery.Where("("+strings.Join(conditions, " OR ")+")", args...)
	}

	return dbQuery
}

func (r *gormOrderRepository) ListByBikeID(ctx context.Context, bikeID int64) ([]*orders.ServiceOrder, error) {
	var modelList []*models.ServiceOrderModel
	err := r.db.WithContext(ctx).
		Where("bike_id = ?", bikeID).
		Order("created_at DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service orders: %w", err)
	}

	// Convert to domain models
	domainList := make([]*orders.ServiceOrder, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}

func (r *gormOrderRepository) GetLatestByBikeID(ctx context.Context, bikeID int64) (*orders.ServiceOrder, error) {
	var model models.ServiceOrderModel
	err := r.db.WithContext(ctx).
		Where("bike_id = ?", bikeID).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch latest service order: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormOrderRepository) ListRecentByCustomerID(ctx context.Context, customerID, excludeOrderID int64, limit int) ([]*orders.OrderRow, error) {
	var modelList []*models.ServiceOrderModel
	err := r.db.WithContext(ctx).
		Model(&models.ServiceOrderModel{}).
		Select("service_orders.*").
		Joins("JOIN bikes ON bikes.id = service_orders.bike_id").
		Where("bikes.customer_id = ?", customerID).
		Where("service_orders.id <> ?", excludeOrderID).
		Order("service_orders.created_at DESC").
		Limit(limit).
		Preload("Bike").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer orders: %w", err)
	}

	rows := make([]*orders.OrderRow, len(modelList))
	for i, model := range modelList {
		rows[i] = orderRowFromModel(model)
	}

	return rows, nil
}

func (r *gormOrderRepository) CountByCustomerID(ctx context.Context, customerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ServiceOrderModel{}).
		Joins("JOIN bikes ON bikes.id = service_orders.bike_id").
		Where("bikes.customer_id = ?", customerID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count customer orders: %w", err)
	}
	return count, nil
}

func (r *gormOrderRepository) TotalPaidByCustomerID(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.db.WithContext(ctx).
		Model(&models.ServiceOrderModel{}).
		Select("COALESCE(SUM(service_orders.price), 0)").
		Joins("JOIN bikes ON bikes.id = service_orders.bike_id").
		Where("bikes.customer_id = ?", customerID).
		Where("service_orders.completed_at IS NOT NULL").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum customer orders: %w", err)
	}
	return total, nil
}

// orderRowFromModel converts a fetched order with its preloaded bike and
// customer into one listing row.
func orderRowFromModel(model *models.ServiceOrderModel) *orders.OrderRow {
	row := &orders.OrderRow{Order: model.ToDomain()}
	if model.Bike != nil {
		row.Bike = model.Bike.ToDomain()
		if model.Bike.Customer != nil {
			row.Customer = model.Bike.Customer.ToDomain()
		}
	}
	return row
}

// waitingTicketStatuses returns the ticket statuses that are waiting for the
// staff, as plain strings for SQL binding.
func waitingTicketStatuses() []string {
	waiting := tickets.WaitingStatuses()
	values := make([]string, len(waiting))
	for i, status := range waiting {
		values[i] = string(status)
	}
	return values
}
