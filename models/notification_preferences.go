package models

import "time"

// NotificationPreferences gates push delivery per user. PushEnabled is the
// master switch; the category flags map to the notification type prefixes.
// Rows are created lazily with everything enabled.
type NotificationPreferences struct {
	ID                uint `gorm:"primaryKey"`
	UserID            uint `gorm:"not null;uniqueIndex"`
	PushEnabled       bool `gorm:"not null;default:true"`
	InventoryEnabled  bool `gorm:"not null;default:true"`
	WorkOrdersEnabled bool `gorm:"not null;default:true"`
	ProductionEnabled bool `gorm:"not null;default:true"`
	EventsEnabled     bool `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
