package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// ChangeLog feeds the realtime channel. Rows are written by model hooks in
// the same transaction as the change itself and consumed by the change
// monitor, which broadcasts and marks them processed.
type ChangeLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TableName string    `gorm:"type:varchar(50);not null;index:idx_table_action" json:"table_name"`
	RecordID  string    `gorm:"type:varchar(36);not null" json:"record_id"`
	Action    string    `gorm:"type:varchar(10);not null;index:idx_table_action" json:"action"`
	ChangedAt time.Time `gorm:"not null" json:"changed_at"`
	Processed bool      `gorm:"default:false;index:idx_processed" json:"processed"`
}

func logChange(tx *gorm.DB, table, recordID, action string) error {
	return tx.Create(&ChangeLog{
		TableName: table,
		RecordID:  recordID,
		Action:    action,
		ChangedAt: time.Now(),
	}).Error
}
