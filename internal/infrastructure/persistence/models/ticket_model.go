package models

import (
	"time"

	"github.com/litovianka/bike-service/internal/domain/tickets"
)

// TicketModel is the GORM database model for support tickets (infrastructure
// concern)
type TicketModel struct {
	ID        int64              `gorm:"primaryKey;autoIncrement"`
	OrderID   int64              `gorm:"not null;index"`
	Status    string             `gorm:"not null;type:varchar(30);index:idx_tickets_status;index:idx_tickets_status_updated,priority:1"`
	Subject   string             `gorm:"type:varchar(200)"`
	Message   string             `gorm:"type:text"`
	CreatedAt time.Time          `gorm:"not null;index:idx_tickets_created"`
	UpdatedAt time.Time          `gorm:"not null;index:idx_tickets_updated;index:idx_tickets_status_updated,priority:2"`
	Order     *ServiceOrderModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (TicketModel) TableName() string {
	return "tickets"
}

// ToDomain converts GORM model to domain entity
func (m *TicketModel) ToDomain() *tickets.Ticket {
	return &tickets.Ticket{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Status:    tickets.Status(m.Status),
		Subject:   m.Subject,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *TicketModel) FromDomain(t *tickets.Ticket) {
	m.ID = t.ID
	m.OrderID = t.OrderID
	m.Status = string(t.Status)
	m.Subject = t.Subject
	m.Message = t.Message
	m.CreatedAt = t.CreatedAt
	m.UpdatedAt = t.UpdatedAt
}
