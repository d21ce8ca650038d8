package services

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/hazirlageldim/pickup-app/models"
	"github.com/hazirlageldim/pickup-app/realtime"
	"github.com/hazirlageldim/pickup-app/utils"
)

// ChangeMonitor polls the change_logs table and pushes unprocessed rows to
// the realtime hub. The poll is the only writer of Processed, inside a
// transaction, so two monitors never double-broadcast.
type ChangeMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 500 * time.Millisecond,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.ChangeLog

	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		utils.Errorf("change monitor: fetch changes: %v", err)
		return
	}

	for _, change := range changes {
		cm.broadcastChange(change)

		if err := tx.Model(&models.ChangeLog{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			utils.Errorf("change monitor: mark processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.Errorf("change monitor: commit: %v", err)
		tx.Rollback()
		return
	}

	if len(changes) > 0 {
		utils.Infof("change monitor: broadcast %d changes to %d clients", len(changes), realtime.ClientCount())
	}
}

func (cm *ChangeMonitor) broadcastChange(change models.ChangeLog) {
	ev := realtime.Event{
		Table:    change.TableName,
		Action:   change.Action,
		RecordID: change.RecordID,
	}

	if change.Action != models.ActionDelete {
		record, err := cm.loadRecord(change)
		if err != nil {
			utils.Errorf("change monitor: load %s record %s: %v", change.TableName, change.RecordID, err)
			return
		}
		ev.Record = record
	}

	realtime.Broadcast(ev)
}

func (cm *ChangeMonitor) loadRecord(change models.ChangeLog) (json.RawMessage, error) {
	var value interface{}

	switch change.TableName {
	case "orders":
		var order models.Order
		if err := cm.DB.Preload("Items").First(&order, "id = ?", change.RecordID).Error; err != nil {
			return nil, err
		}
		value = order
	case "messages":
		var msg models.Message
		if err := cm.DB.First(&msg, "id = ?", change.RecordID).Error; err != nil {
			return nil, err
		}
		value = msg
	case "businesses":
		var biz models.Business
		if err := cm.DB.First(&biz, "id = ?", change.RecordID).Error; err != nil {
			return nil, err
		}
		value = biz
	default:
		// Tables without a realtime consumer are broadcast id-only.
		return nil, nil
	}

	return json.Marshal(value)
}
