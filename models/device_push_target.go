package models

import "time"

// Push platforms (closed set).
const (
	PlatformMobilePush = "mobile-push"
	PlatformWebPush    = "web-push"
)

// DevicePushTarget is a registered delivery endpoint for one device. For
// mobile-push the token is the provider device token; for web-push it is the
// serialized subscription. Deactivated instead of deleted when a channel
// reports it permanently invalid.
type DevicePushTarget struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	User      User   `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Platform  string `gorm:"type:varchar(20);not null"`
	Token     string `gorm:"type:varchar(512);not null;uniqueIndex"`
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
