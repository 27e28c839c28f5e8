package models

import (
	"time"

	"github.com/litovianka/bike-service/internal/domain/customers"
)

// BikeModel is the GORM database model for bikes (infrastructure concern)
type BikeModel struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"`
	CustomerID   int64          `gorm:"not null;index"`
	Brand        string         `gorm:"type:varchar(120)"`
	Model        string         `gorm:"type:varchar(160)"`
	SerialNumber string         `gorm:"type:varchar(160)"`
	CreatedAt    time.Time      `gorm:"not null"`
	UpdatedAt    time.Time      `gorm:"not null"`
	Customer     *CustomerModel `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (BikeModel) TableName() string {
	return "bikes"
}

// ToDomain converts GORM model to domain entity
func (m *BikeModel) ToDomain() *customers.Bike {
	return &customers.Bike{
		ID:           m.ID,
		CustomerID:   m.CustomerID,
		Brand:        m.Brand,
		Model:        m.Model,
		SerialNumber: m.SerialNumber,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *BikeModel) FromDomain(b *customers.Bike) {
	m.ID = b.ID
	m.CustomerID = b.CustomerID
	m.Brand = b.Brand
	m.Model = b.Model
	m.SerialNumber = b.SerialNumber
	m.CreatedAt = b.CreatedAt
	m.UpdatedAt = b.UpdatedAt
}
