package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

// StringList disimpan sebagai string dengan pemisah koma.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = nil
	case string:
		if v == "" {
			*l = nil
		} else {
			*l = strings.Split(v, ",")
		}
	case []byte:
		return l.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	return nil
}

func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

type Business struct {
	ID             string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	OwnerID        string     `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name"`
	Description    string     `gorm:"type:text" json:"description,omitempty"`
	Address        string     `gorm:"type:text;not null" json:"address"`
	Latitude       float64    `gorm:"not null" json:"latitude"`
	Longitude      float64    `gorm:"not null" json:"longitude"`
	Phone          string     `gorm:"type:varchar(32)" json:"phone,omitempty"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	PaymentMethods StringList `gorm:"type:varchar(255)" json:"payment_methods,omitempty"`
	OpeningTime    *string    `gorm:"type:varchar(8)" json:"opening_time,omitempty"`
	ClosingTime    *string    `gorm:"type:varchar(8)" json:"closing_time,omitempty"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (b *Business) AfterCreate(tx *gorm.DB) error {
	return logChange(tx, "businesses", b.ID, ActionInsert)
}

func (b *Business) AfterUpdate(tx *gorm.DB) error {
	return logChange(tx, "businesses", b.ID, ActionUpdate)
}

// OpenAt reports whether the business is open at t. Missing bounds mean
// always open. A closing time earlier than the opening time is a window
// that wraps past midnight.
func (b *Business) OpenAt(t time.Time) bool {
	if b.OpeningTime == nil || b.ClosingTime == nil || *b.OpeningTime == "" || *b.ClosingTime == "" {
		return true
	}

	opening, err := ClockMinutes(*b.OpeningTime)
	if err != nil {
		return true
	}
	closing, err := ClockMinutes(*b.ClosingTime)
	if err != nil {
		return true
	}

	now := t.Hour()*60 + t.Minute()

	if closing < opening {
		return now >= opening || now <= closing
	}
	return now >= opening && now <= closing
}

func (b *Business) Open() bool {
	return b.OpenAt(time.Now())
}

var ErrBadClock = errors.New("clock value must be HH:MM or HH:MM:SS")

// ClockMinutes converts "HH:MM" or "HH:MM:SS" to minutes since midnight.
func ClockMinutes(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, ErrBadClock
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return 0, ErrBadClock
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return 0, ErrBadClock
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, ErrBadClock
	}
	return h*60 + m, nil
}

// NormalizeClock turns "09:00" into "09:00:00". Empty input stays empty so
// an absent bound is persisted as NULL, never as a malformed time string.
func NormalizeClock(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	if len(strings.Split(trimmed, ":")) == 2 {
		return trimmed + ":00"
	}
	return trimmed
}
