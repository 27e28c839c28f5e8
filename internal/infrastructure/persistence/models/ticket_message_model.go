package models

import (
	"time"

	"github.com/litovianka/bike-service/internal/domain/tickets"
)

// TicketMessageModel is the GORM database model for ticket thread entries
// (infrastructure concern)
type TicketMessageModel struct {
	ID           int64        `gorm:"primaryKey;autoIncrement"`
	TicketID     int64        `gorm:"not null;index"`
	Role         string       `gorm:"not null;type:varchar(20)"`
	AuthorUserID *int64       `gorm:"index"`
	Message      string       `gorm:"type:text"`
	CreatedAt    time.Time    `gorm:"not null"`
	Ticket       *TicketModel `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	AuthorUser   *UserModel   `gorm:"foreignKey:AuthorUserID;constraint:OnDelete:SET NULL"`
}

// TableName specifies the table name for GORM
func (TicketMessageModel) TableName() string {
	return "ticket_messages"
}

// ToDomain converts GORM model to domain entity
func (m *TicketMessageModel) ToDomain() *tickets.TicketMessage {
	return &tickets.TicketMessage{
		ID:           m.ID,
		TicketID:     m.TicketID,
		Role:         tickets.Role(m.Role),
		AuthorUserID: m.AuthorUserID,
		Message:      m.Message,
		CreatedAt:    m.CreatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *TicketMessageModel) FromDomain(msg *tickets.TicketMessage) {
	m.ID = msg.ID
	m.TicketID = msg.TicketID
	m.Role = string(msg.Role)
	m.AuthorUserID = msg.AuthorUserID
	m.Message = msg.Message
	m.CreatedAt = msg.CreatedAt
}
