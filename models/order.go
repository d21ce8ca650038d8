package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

var (
	ErrUnknownStatus  = errors.New("unknown order status")
	ErrTerminalStatus = errors.New("order is in a terminal status")
)

// statusTable adalah tabel status terpusat: semua layar membaca rantai
// yang sama.
// Labels are what both customer and business screens display.
type statusInfo struct {
	Label     string
	Next      OrderStatus
	NextLabel string
	Ordinal   int
}

var statusTable = map[OrderStatus]statusInfo{
	StatusPending:   {Label: "Beklemede", Next: StatusConfirmed, NextLabel: "Onayla", Ordinal: 0},
	StatusConfirmed: {Label: "Onaylandı", Next: StatusPreparing, NextLabel: "Hazırlanıyor", Ordinal: 1},
	StatusPreparing: {Label: "Hazırlanıyor", Next: StatusReady, NextLabel: "Hazır", Ordinal: 2},
	StatusReady:     {Label: "Hazır", Next: StatusCompleted, NextLabel: "Tamamlandı", Ordinal: 3},
	StatusCompleted: {Label: "Tamamlandı", Ordinal: 4},
	StatusCancelled: {Label: "İptal Edildi", Ordinal: -1},
}

func (s OrderStatus) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

func (s OrderStatus) Label() string {
	return statusTable[s].Label
}

func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Next returns the status one step further along the chain. The second
// return is false for terminal and unknown statuses.
func (s OrderStatus) Next() (OrderStatus, bool) {
	info, ok := statusTable[s]
	if !ok || info.Next == "" {
		return "", false
	}
	return info.Next, true
}

// NextLabel is the action label a business screen renders for the advance
// button ("Onayla", "Hazır", ...).
func (s OrderStatus) NextLabel() (string, bool) {
	info, ok := statusTable[s]
	if !ok || info.Next == "" {
		return "", false
	}
	return info.NextLabel, true
}

func (s OrderStatus) CanAdvance() bool {
	info, ok := statusTable[s]
	return ok && info.Next != ""
}

func (s OrderStatus) CanCancel() bool {
	return s.Valid() && !s.Terminal()
}

// StageReached reports whether the progress timeline should mark stage as
// reached: the current status ordinal must be at or past the stage ordinal.
// Cancelled orders sit outside the timeline and reach nothing.
func (s OrderStatus) StageReached(stage OrderStatus) bool {
	cur, ok := statusTable[s]
	target, ok2 := statusTable[stage]
	if !ok || !ok2 || s == StatusCancelled || stage == StatusCancelled {
		return false
	}
	return cur.Ordinal >= target.Ordinal
}

type Order struct {
	ID           string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	CustomerID   string      `gorm:"type:varchar(36);not null;index" json:"customer_id"`
	BusinessID   string      `gorm:"type:varchar(36);not null;index" json:"business_id"`
	Business     *Business   `gorm:"foreignKey:BusinessID;references:ID" json:"business,omitempty"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount  float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	Notes        string      `gorm:"type:text" json:"notes,omitempty"`
	PickupTime   *time.Time  `json:"pickup_time,omitempty"`
	OrderCode    string      `gorm:"type:varchar(16)" json:"order_code,omitempty"`
	CustomerName string      `gorm:"type:varchar(255);not null" json:"customer_name"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
	Items        []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.OrderCode == "" {
		o.OrderCode = NewOrderCode()
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	return nil
}

func (o *Order) AfterCreate(tx *gorm.DB) error {
	return logChange(tx, "orders", o.ID, ActionInsert)
}

func (o *Order) AfterUpdate(tx *gorm.DB) error {
	return logChange(tx, "orders", o.ID, ActionUpdate)
}

// NewOrderCode membuat kode pesanan pendek untuk pelanggan, contoh "GLD-3F9A2C".
func NewOrderCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "GLD-" + strings.ToUpper(raw[:6])
}
