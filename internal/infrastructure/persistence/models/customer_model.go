package models

import (
	"time"

	"github.com/litovianka/bike-service/internal/domain/customers"
)

// CustomerModel is the GORM database model for customers (infrastructure concern)
type CustomerModel struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	UserID      *int64     `gorm:"uniqueIndex"`
	FullName    string     `gorm:"not null;type:varchar(200)"`
	Email       string     `gorm:"not null;index;type:varchar(254)"`
	PhoneNumber string     `gorm:"type:varchar(40)"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
	User        *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

// TableName specifies the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts GORM model to domain entity
func (m *CustomerModel) ToDomain() *customers.Customer {
	return &customers.Customer{
		ID:          m.ID,
		UserID:      m.UserID,
		FullName:    m.FullName,
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *CustomerModel) FromDomain(c *customers.Customer) {
	m.ID = c.ID
	m.UserID = c.UserID
	m.FullName = c.FullName
	m.Email = c.Email
	m.PhoneNumber = c.PhoneNumber
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}
