package models

import (
	"time"

	"github.com/litovianka/bike-service/internal/domain/notifications"
)

// ServiceOrderLogModel is the GORM database model for notification log rows
// (infrastructure concern)
type ServiceOrderLogModel struct {
	ID          int64              `gorm:"primaryKey;autoIncrement"`
	OrderID     int64              `gorm:"not null;index"`
	Kind        string             `gorm:"not null;type:varchar(40)"`
	Body        string             `gorm:"type:text"`
	CreatedByID *int64             `gorm:"index"`
	CreatedAt   time.Time          `gorm:"not null"`
	Order       *ServiceOrderModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedBy   *UserModel         `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
}

// TableName specifies the table name for GORM
func (ServiceOrderLogModel) TableName() string {
	return "service_order_logs"
}

// ToDomain converts GORM model to domain entity
func (m *ServiceOrderLogModel) ToDomain() *notifications.ServiceOrderLog {
	return &notifications.ServiceOrderLog{
		ID:          m.ID,
		OrderID:     m.OrderID,
		Kind:        notifications.LogKind(m.Kind),
		Body:        m.Body,
		CreatedByID: m.CreatedByID,
		CreatedAt:   m.CreatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *ServiceOrderLogModel) FromDomain(l *notifications.ServiceOrderLog) {
	m.ID = l.ID
	m.OrderID = l.OrderID
	m.Kind = string(l.Kind)
	m.Body = l.Body
	m.CreatedByID = l.CreatedByID
	m.CreatedAt = l.CreatedAt
}
