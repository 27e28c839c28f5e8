package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/litovianka/bike-service/internal/domain/orders"
)

// ServiceOrderModel is the GORM database model for service orders
// (infrastructure concern). The checklist is stored as a JSON text column.
type ServiceOrderModel struct {
	ID               int64           `gorm:"primaryKey;autoIncrement"`
	BikeID           int64           `gorm:"not null;index"`
	ServiceCode      string          `gorm:"type:varchar(40)"`
	IssueDescription string          `gorm:"type:text"`
	WorkDone         string          `gorm:"type:text"`
	Status           string          `gorm:"not null;type:varchar(30);index:idx_service_orders_status;index:idx_service_orders_status_completed,priority:1;index:idx_service_orders_status_promised,priority:1"`
	Price            decimal.Decimal `gorm:"not null;type:decimal(10,2);default:0"`
	PromisedDate     *time.Time      `gorm:"type:date;index:idx_service_orders_promised;index:idx_service_orders_status_promised,priority:2"`
	Checklist        string          `gorm:"type:text"`
	CreatedAt        time.Time       `gorm:"not null;index:idx_service_orders_created"`
	CompletedAt      *time.Time      `gorm:"index:idx_service_orders_completed;index:idx_service_orders_status_completed,priority:2"`
	Bike             *BikeModel      `gorm:"foreignKey:BikeID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (ServiceOrderModel) TableName() string {
	return "service_orders"
}

// ToDomain converts GORM model to domain entity. A corrupt or empty checklist
// column becomes an empty checklist.
func (m *ServiceOrderModel) ToDomain() *orders.ServiceOrder {
	checklist := map[string]bool{}
	if m.Checklist != "" {
		_ = json.Unmarshal([]byte(m.Checklist), &checklist)
	}

	return &orders.ServiceOrder{
		ID:               m.ID,
		BikeID:           m.BikeID,
		ServiceCode:      m.ServiceCode,
		IssueDescription: m.IssueDescription,
		WorkDone:         m.WorkDone,
		Status:           orders.Status(m.Status),
		Price:            m.Price,
		PromisedDate:     m.PromisedDate,
		Checklist:        checklist,
		CreatedAt:        m.CreatedAt,
		CompletedAt:      m.CompletedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *ServiceOrderModel) FromDomain(o *orders.ServiceOrder) {
	m.ID = o.ID
	m.BikeID = o.BikeID
	m.ServiceCode = o.ServiceCode
	m.IssueDescription = o.IssueDescription
	m.WorkDone = o.WorkDone
	m.Status = string(o.Status)
	m.Price = o.Price
	m.PromisedDate = o.PromisedDate
	m.CreatedAt = o.CreatedAt
	m.CompletedAt = o.CompletedAt

	checklist := o.Checklist
	if checklist == nil {
		checklist = map[string]bool{}
	}
	raw, err := json.Marshal(checklist)
	if err != nil {
		raw = []byte("{}")
	}
	m.Checklist = string(raw)
}
