package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SenderCustomer = "customer"
	SenderBusiness = "business"
)

// Message is append-only: no edit, no delete. Ordering is entirely the
// storage layer's creation timestamp.
type Message struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID    string    `gorm:"type:varchar(36);not null;index" json:"order_id"`
	SenderID   string    `gorm:"type:varchar(36);not null" json:"sender_id"`
	SenderType string    `gorm:"type:varchar(20);not null" json:"sender_type"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *Message) AfterCreate(tx *gorm.DB) error {
	return logChange(tx, "messages", m.ID, ActionInsert)
}
