package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/models"
)

// ReadStateTracker mutates per-(notification, user) read state. All writes are
// upserts keyed on that pair, which keeps concurrent MarkRead/ClearAll calls
// commutative without explicit locking.
type ReadStateTracker struct {
	DB   *gorm.DB
	Hide HideStrategy
	Now  func() time.Time
}

func NewReadStateTracker(db *gorm.DB, hide HideStrategy) *ReadStateTracker {
	return &ReadStateTracker{DB: db, Hide: hide, Now: time.Now}
}

// MarkRead stamps read_at and, where the schema supports hiding, clears
// hidden_at (reading always un-hides). Rejects notifications targeted at a
// different user.
func (t *ReadStateTracker) MarkRead(notificationID, userID uint) error {
	var n models.Notification
	if err := t.DB.First(&n, notificationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFoundOrForbidden
		}
		return storeErr("load notification", err)
	}
	if n.TargetUserID != nil && *n.TargetUserID != userID {
		return ErrNotFoundOrForbidden
	}

	now := t.Now()
	row := models.NotificationRead{
		NotificationID: notificationID,
		UserID:         userID,
		ReadAt:         &now,
	}
	err := t.Hide.WriteScope(t.DB).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "notification_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(t.Hide.MarkReadAssignments(now)),
	}).Create(&row).Error
	return storeErr("mark read", err)
}

// ClearAll applies the configured hide strategy to the snapshot of currently
// visible notifications, as one logical batch inside a transaction.
func (t *ReadStateTracker) ClearAll(userID uint) error {
	now := t.Now()
	return t.DB.Transaction(func(tx *gorm.DB) error {
		return t.Hide.Clear(tx, userID, now)
	})
}

// UnreadCount counts visible notifications without read_at.
func (t *ReadStateTracker) UnreadCount(userID uint) (int64, error) {
	var count int64
	q := t.DB.Table("notifications").
		Joins("LEFT JOIN notification_reads ON notification_reads.notification_id = notifications.id AND notification_reads.user_id = ?", userID).
		Where("notifications.target_user_id IS NULL OR notifications.target_user_id = ?", userID).
		Where("notification_reads.read_at IS NULL")
	err := t.Hide.VisibleScope(q).Count(&count).Error
	if err != nil {
		return 0, storeErr("unread count", err)
	}
	return count, nil
}
