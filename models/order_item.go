package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem carries a snapshot of the product at order time. Name and price
// are denormalized so later product edits never alter historical orders.
type OrderItem struct {
	ID          string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID     string  `gorm:"type:varchar(36);not null;index" json:"order_id"`
	ProductID   string  `gorm:"type:varchar(36);not null" json:"product_id"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	ProductName string  `gorm:"type:varchar(255);not null" json:"product_name"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
