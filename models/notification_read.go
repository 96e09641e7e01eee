package models

import "time"

// NotificationRead holds per-(notification, user) read/hidden state. A missing
// row means unread and not hidden. Marking as read always clears HiddenAt.
type NotificationRead struct {
	ID             uint       `gorm:"primaryKey"`
	NotificationID uint       `gorm:"not null;uniqueIndex:idx_notification_user"`
	UserID         uint       `gorm:"not null;uniqueIndex:idx_notification_user"`
	ReadAt         *time.Time
	HiddenAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
