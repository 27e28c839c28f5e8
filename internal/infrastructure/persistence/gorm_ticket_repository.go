package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/infrastructure/persistence/models"
	"github.com/litovianka/bike-service/internal/pkg/logger"

	"gorm.io/gorm"
)

// ticketListSelect flattens the display fields of a ticket's order, bike, and
// customer into the list row.
const ticketListSelect = "tickets.*, service_orders.service_code AS service_code, " +
	"bikes.brand AS bike_brand, bikes.model AS bike_model, " +
	"customers.full_name AS customer_name, customers.email AS customer_email"

// ticketListRow is the scan target for the joined ticket listing.
type ticketListRow struct {
	models.TicketModel
	ServiceCode   string
	BikeBrand     string
	BikeModel     string
	CustomerName  string
	CustomerEmail string
}

func (row *ticketListRow) toItem() *tickets.TicketListItem {
	order := orders.ServiceOrder{ID: row.OrderID, ServiceCode: row.ServiceCode}
	bike := customers.Bike{Brand: row.BikeBrand, Model: row.BikeModel}

	name := row.CustomerName
	if name == "" {
		name = row.CustomerEmail
	}

	return &tickets.TicketListItem{
		Ticket:       row.TicketModel.ToDomain(),
		OrderCode:    order.Code(),
		BikeLabel:    bike.Label(),
		CustomerName: name,
	}
}

type gormTicketRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormTicketRepository creates a new GORM-based TicketRepository implementation
func NewGormTicketRepository(db *gorm.DB, logger logger.Logger) (tickets.TicketRepository, error) {
	return &gormTicketRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormTicketRepository) Create(ctx context.Context, ticket *tickets.Ticket) error {
	// Validate domain entity (business rules)
	if err := ticket.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	// Convert to GORM model
	model := &models.TicketModel{}
	model.FromDomain(ticket)

	// Persist to database
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	ticket.ID = model.ID
	ticket.CreatedAt = model.CreatedAt
	ticket.UpdatedAt = model.UpdatedAt

	r.logger.Info("Created ticket with id ", ticket.ID)
	return nil
}

func (r *gormTicketRepository) GetByID(ctx context.Context, id int64) (*tickets.Ticket, error) {
	var model models.TicketModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ticket with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to fetch ticket: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormTicketRepository) GetByIDForCustomer(ctx context.Context, id, customerID int64) (*tickets.Ticket, error) {
	var model models.TicketModel
	err := r.db.WithContext(ctx).
		Select("tickets.*").
		Joins("JOIN service_orders ON service_orders.id = tickets.order_id").
		Joins("JOIN bikes ON bikes.id = service_orders.bike_id").
		Where("tickets.id = ? AND bikes.customer_id = ?", id, customerID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ticket with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to fetch ticket: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormTicketRepository) UpdateByID(ctx context.Context, ticket *tickets.Ticket) error {
	if err := ticket.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.TicketModel{}
	model.FromDomain(ticket)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}
	ticket.UpdatedAt = model.UpdatedAt

	r.logger.Info("Updated ticket with id ", ticket.ID)
	return nil
}

func (r *gormTicketRepository) List(ctx context.Context, query *tickets.TicketQuery) (*tickets.TicketPage, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = tickets.StaffPageSize
	}

	var total int64
	if err := r.staffListQuery(ctx, query).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	page, pageCount := clampPage(page, pageSize, total)

	var rowList []*ticketListRow
	err := r.staffListQuery(ctx, query).
		Select(ticketListSelect).
		Order("tickets.updated_at DESC, tickets.created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rowList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tickets: %w", err)
	}

	return ticketPageFromRows(rowList, total, page, pageCount), nil
}

func (r *gormTicketRepository) ListByCustomerID(ctx context.Context, customerID int64, page, pageSize int) (*tickets.TicketPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = tickets.CustomerPageSize
	}

	var total int64
	if err := r.customerListQuery(ctx, customerID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	page, pageCount := clampPage(page, pageSize, total)

	var rowList []*ticketListRow
	err := r.customerListQuery(ctx, customerID).
		Select(ticketListSelect).
		Order("tickets.updated_at DESC, tickets.created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rowList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tickets: %w", err)
	}

	return ticketPageFromRows(rowList, total, page, pageCount), nil
}

func (r *gormTicketRepository) ListByOrderID(ctx context.Context, orderID int64) ([]*tickets.Ticket, error) {
	var modelList []*models.TicketModel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("updated_at DESC, created_at DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tickets: %w", err)
	}

	// Convert to domain models
	domainList := make([]*tickets.Ticket, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}

func (r *gormTicketRepository) WaitingByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64]bool, error) {
	waiting := make(map[int64]bool, len(orderIDs))
	if len(orderIDs) == 0 {
		return waiting, nil
	}

	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Distinct().
		Where("order_id IN ? AND status IN ?", orderIDs, waitingTicketStatuses()).
		Pluck("order_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch waiting tickets: %w", err)
	}

	for _, id := range ids {
		waiting[id] = true
	}
	return waiting, nil
}

// staffListQuery builds the filtered staff listing without ordering or paging
// so the same conditions serve both the count and the page fetch.
func (r *gormTicketRepository) staffListQuery(ctx context.Context, query *tickets.TicketQuery) *gorm.DB {
	dbQuery := r.joinedQuery(ctx)
	if query.Status != "" {
		dbQuery = dbQuery.Where("tickets.status = ?", query.Status)
	}
	return applyTicketSearch(dbQuery, query.Search)
}

func (r *gormTicketRepository) customerListQuery(ctx context.Context, customerID int64) *gorm.DB {
	return r.joinedQuery(ctx).Where("bikes.customer_id = ?", customerID)
}

func (r *gormTicketRepository) joinedQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Joins("JOIN service_orders ON service_orders.id = tickets.order_id").
		Joins("JOIN bikes ON bikes.id = service_orders.bike_id").
		Joins("JOIN customers ON customers.id = bikes.customer_id")
}

// applyTicketSearch matches one raw term against the ticket and everything
// around it, including the numeric IDs as text.
func applyTicketSearch(dbQuery *gorm.DB, search string) *gorm.DB {
	term := strings.TrimSpace(search)
	if term == "" {
		return dbQuery
	}

	pattern := "%" + term + "%"
	conditions := []string{
		"CAST(tickets.id AS TEXT) LIKE ?",
		"LOWER(tickets.subject) LIKE LOWER(?)",
		"LOWER(tickets.message) LIKE LOWER(?)",
		"CAST(tickets.order_id AS TEXT) LIKE ?",
		"LOWER(service_orders.service_code) LIKE LOWER(?)",
		"LOWER(bikes.brand) LIKE LOWER(?)",
		"LOWER(bikes.model) LIKE LOWER(?)",
		"LOWER(bikes.serial_number) LIKE LOWER(?)",
		"LOWER(customers.full_name) LIKE LOWER(?)",
		"LOWER(customers.email) LIKE LOWER(?)",
	}
	args := make([]interface{}, len(conditions))
	for i := range args {
		args[i] = pattern
	}

	return dbQuery.Where("("+strings.Join(conditions, " OR ")+")", args...)
}

func ticketPageFromRows(rowList []*ticketListRow, total int64, page, pageCount int) *tickets.TicketPage {
	items := make([]*tickets.TicketListItem, len(rowList))
	for i, row := range rowList {
		items[i] = row.toItem()
	}
	return &tickets.TicketPage{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageCount:  pageCount,
	}
}

// clampPage derives the page count and pulls an out-of-range page back to the
// last one.
func clampPage(page, pageSize int, total int64) (int, int) {
	pageCount := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pageCount < 1 {
		pageCount = 1
	}
	if page > pageCount {
		page = pageCount
	}
	return page, pageCount
}
