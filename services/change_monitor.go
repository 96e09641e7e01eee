package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/models"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/realtime"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/utils"
)

// ChangeMonitor drains the db_changes feed written by the SQL triggers and
// pushes the affected rows to connected sessions. Only inserts on
// notifications are propagated; notification rows are immutable. Read-state
// rows propagate on insert and update, and only to their own user.
type ChangeMonitor struct {
	DB       *gorm.DB
	Hub      *realtime.Hub
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB, hub *realtime.Hub) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		Hub:      hub,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.CheckChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

// CheckChanges processes one batch of unprocessed change rows inside a
// transaction. A crash before commit re-delivers the batch on the next tick;
// clients dedupe by notification ID.
func (cm *ChangeMonitor) CheckChanges() {
	tx := cm.DB.Begin()
	if tx.Error != nil {
		utils.ErrorLogger.Printf("change monitor: begin: %v", tx.Error)
		return
	}

	var changes []models.DBChange
	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("change monitor: fetch changes: %v", err)
		return
	}

	for _, change := range changes {
		switch change.TableName {
		case "notifications":
			cm.processNotificationChange(change)
		case "notification_reads":
			cm.processReadStateChange(change)
		}

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			utils.ErrorLogger.Printf("change monitor: mark change %d processed: %v", change.ID, err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.ErrorLogger.Printf("change monitor: commit: %v", err)
		tx.Rollback()
	}
}

func (cm *ChangeMonitor) processNotificationChange(change models.DBChange) {
	if change.ActionType != "INSERT" {
		return
	}

	var n models.Notification
	if err := cm.DB.First(&n, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("change monitor: load notification %d: %v", change.RecordID, err)
		return
	}

	msg := realtime.Message{Event: realtime.EventNotificationInsert, Data: n}
	if n.TargetUserID != nil {
		cm.Hub.PublishToUser(*n.TargetUserID, msg)
		return
	}
	cm.Hub.PublishAll(msg)
}

func (cm *ChangeMonitor) processReadStateChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		return
	}

	var row models.NotificationRead
	if err := cm.DB.First(&row, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("change monitor: load read state %d: %v", change.RecordID, err)
		return
	}

	cm.Hub.PublishToUser(row.UserID, realtime.Message{
		Event: realtime.EventReadStateUpdate,
		Data:  row,
	})
}
