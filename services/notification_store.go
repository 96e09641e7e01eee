package services

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/models"
)

// NotificationStore persists notification records and owns the single read
// path the clients rely on. Creation is the durable, authoritative step of the
// pipeline; push fan-out happens afterwards and never affects it. The hide
// strategy supplies the hide predicate of the visibility query, so a schema
// without the hide column still serves the read path.
type NotificationStore struct {
	DB   *gorm.DB
	Hide HideStrategy
	Now  func() time.Time
}

func NewNotificationStore(db *gorm.DB, hide HideStrategy) *NotificationStore {
	return &NotificationStore{DB: db, Hide: hide, Now: time.Now}
}

// Create persists a system-generated notification. targetUserID nil makes it
// global.
func (s *NotificationStore) Create(notifType string, payload map[string]interface{}, targetUserID *uint) (*models.Notification, error) {
	n := &models.Notification{
		Type:            notifType,
		Payload:         datatypes.JSONMap(payload),
		CreatedBySystem: true,
		TargetUserID:    targetUserID,
		CreatedAt:       s.Now(),
	}
	if err := s.DB.Create(n).Error; err != nil {
		return nil, storeErr("create notification", err)
	}
	return n, nil
}

// Get loads one notification by ID.
func (s *NotificationStore) Get(id uint) (*models.Notification, error) {
	var n models.Notification
	if err := s.DB.First(&n, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFoundOrForbidden
		}
		return nil, storeErr("get notification", err)
	}
	return &n, nil
}

// VisibleNotification is a notification joined with the caller's read state.
type VisibleNotification struct {
	models.Notification `gorm:"embedded"`
	ReadAt              *time.Time `json:"read_at"`
}

// ListVisibleFor returns every notification the user can see, newest first:
// global ones plus the ones targeting the user, minus anything the user has
// hidden.
func (s *NotificationStore) ListVisibleFor(userID uint) ([]VisibleNotification, error) {
	var out []VisibleNotification
	q := s.DB.Table("notifications").
		Select("notifications.*, notification_reads.read_at AS read_at").
		Joins("LEFT JOIN notification_reads ON notification_reads.notification_id = notifications.id AND notification_reads.user_id = ?", userID).
		Where("notifications.target_user_id IS NULL OR notifications.target_user_id = ?", userID)
	err := s.Hide.VisibleScope(q).
		Order("notifications.created_at DESC, notifications.id DESC").
		Find(&out).Error
	if err != nil {
		return nil, storeErr("list visible notifications", err)
	}
	return out, nil
}
