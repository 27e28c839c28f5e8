package models

import (
	"time"

	"github.com/litovianka/bike-service/internal/domain/orders"
)

// ServiceOrderPhotoModel is the GORM database model for order photos
// (infrastructure concern)
type ServiceOrderPhotoModel struct {
	ID        int64              `gorm:"primaryKey;autoIncrement"`
	OrderID   int64              `gorm:"not null;index"`
	Path      string             `gorm:"not null;type:varchar(500)"`
	CreatedAt time.Time          `gorm:"not null"`
	Order     *ServiceOrderModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (ServiceOrderPhotoModel) TableName() string {
	return "service_order_photos"
}

// ToDomain converts GORM model to domain entity
func (m *ServiceOrderPhotoModel) ToDomain() *orders.ServiceOrderPhoto {
	return &orders.ServiceOrderPhoto{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Path:      m.Path,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *ServiceOrderPhotoModel) FromDomain(p *orders.ServiceOrderPhoto) {
	m.ID = p.ID
	m.OrderID = p.OrderID
	m.Path = p.Path
	m.CreatedAt = p.CreatedAt
}
