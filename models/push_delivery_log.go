package models

import "time"

// Delivery attempt outcomes.
const (
	DeliveryStatusSent   = "sent"
	DeliveryStatusFailed = "failed"
)

// PushDeliveryLog is an append-only record of one push attempt to one target.
// DeliveredAt is filled by the provider webhook, not by this service.
type PushDeliveryLog struct {
	ID             uint       `gorm:"primaryKey"`
	AttemptID      string     `gorm:"type:varchar(36);not null;index"`
	NotificationID uint       `gorm:"not null;index"`
	UserID         uint       `gorm:"not null;index"`
	TargetID       uint       `gorm:"not null;index"`
	Status         string     `gorm:"type:varchar(20);not null"`
	ErrorMessage   *string    `gorm:"type:text"`
	SentAt         *time.Time
	DeliveredAt    *time.Time
	CreatedAt      time.Time
}
