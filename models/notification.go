package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types produced by the business modules. The prefix before the
// first dot is the preference category.
const (
	NotifInventoryLowStock       = "inventory.lowStock"
	NotifWorkOrderCreated        = "workOrder.created"
	NotifWorkOrderStatusChanged  = "workOrder.statusChanged"
	NotifProductionStatusChanged = "production.statusChanged"
	NotifEventReminder           = "event.reminder"
)

// Notification is an immutable business event record. TargetUserID nil means
// the notification is global and visible to every active user.
type Notification struct {
	ID              uint              `gorm:"primaryKey"`
	Type            string            `gorm:"type:varchar(100);not null;index"`
	Payload         datatypes.JSONMap `gorm:"type:json"`
	CreatedBySystem bool              `gorm:"not null;default:true"`
	TargetUserID    *uint             `gorm:"index"`
	TargetUser      *User             `gorm:"foreignKey:TargetUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	DispatchedAt    *time.Time        `gorm:"index"`
	CreatedAt       time.Time         `gorm:"not null;index"`
}
