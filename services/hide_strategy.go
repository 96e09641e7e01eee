package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/models"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/utils"
)

// HideStrategy is how ClearAll suppresses the currently-visible notifications
// for a user. TombstoneHide is the normal path; ReadOnlyFallback covers a
// backing schema that does not have the hidden_at column yet. The strategy
// also owns the hide predicate of every visibility query, so a degraded
// schema never has its missing column referenced.
type HideStrategy interface {
	Name() string
	Clear(tx *gorm.DB, userID uint, now time.Time) error
	// VisibleScope appends the strategy's hide predicate to a query already
	// joined with notification_reads.
	VisibleScope(q *gorm.DB) *gorm.DB
	// MarkReadAssignments is the upsert update set for a read action.
	MarkReadAssignments(now time.Time) map[string]interface{}
	// WriteScope prepares a write to notification_reads. Inserts built from
	// the model struct would otherwise still name the hide column.
	WriteScope(q *gorm.DB) *gorm.DB
}

// ProbeHideSupport selects the strategy at startup by checking the schema for
// the hide column. Selection is a capability probe, never error-string
// matching.
func ProbeHideSupport(db *gorm.DB) HideStrategy {
	if db.Migrator().HasColumn(&models.NotificationRead{}, "hidden_at") {
		return TombstoneHide{}
	}
	if utils.ErrorLogger != nil {
		utils.ErrorLogger.Printf("notification read state: %v, clear-all degrades to mark-all-read", ErrDegradedSchema)
	}
	return ReadOnlyFallback{}
}

// visibleNotificationIDs snapshots what the user can see at call time.
// Clearing operates on this snapshot only, so a notification created while the
// clear runs stays visible.
func visibleNotificationIDs(tx *gorm.DB, userID uint, hide HideStrategy) ([]uint, error) {
	var ids []uint
	q := tx.Table("notifications").
		Joins("LEFT JOIN notification_reads ON notification_reads.notification_id = notifications.id AND notification_reads.user_id = ?", userID).
		Where("notifications.target_user_id IS NULL OR notifications.target_user_id = ?", userID)
	err := hide.VisibleScope(q).Pluck("notifications.id", &ids).Error
	if err != nil {
		return nil, storeErr("snapshot visible notifications", err)
	}
	return ids, nil
}

func upsertReadRows(tx *gorm.DB, userID uint, ids []uint, assign map[string]interface{}, now time.Time) error {
	rows := make([]models.NotificationRead, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.NotificationRead{
			NotificationID: id,
			UserID:         userID,
			ReadAt:         &now,
		})
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "notification_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(assign),
	}).Create(&rows).Error
}

// TombstoneHide stamps hidden_at (and read_at, hiding implies read) on every
// snapshotted notification.
type TombstoneHide struct{}

func (TombstoneHide) Name() string { return "tombstone-hide" }

func (TombstoneHide) VisibleScope(q *gorm.DB) *gorm.DB {
	return q.Where("notification_reads.hidden_at IS NULL")
}

// Reading always un-hides.
func (TombstoneHide) MarkReadAssignments(now time.Time) map[string]interface{} {
	return map[string]interface{}{"read_at": now, "hidden_at": nil}
}

func (TombstoneHide) WriteScope(q *gorm.DB) *gorm.DB { return q }

func (h TombstoneHide) Clear(tx *gorm.DB, userID uint, now time.Time) error {
	ids, err := visibleNotificationIDs(tx, userID, h)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	rows := make([]models.NotificationRead, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.NotificationRead{
			NotificationID: id,
			UserID:         userID,
			ReadAt:         &now,
			HiddenAt:       &now,
		})
	}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "notification_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"read_at": now, "hidden_at": now}),
	}).Create(&rows).Error
	return storeErr("clear all (hide)", err)
}

// ReadOnlyFallback marks everything read without hiding. The list keeps its
// entries but the unread counter reaches zero.
type ReadOnlyFallback struct{}

func (ReadOnlyFallback) Name() string { return "read-only-fallback" }

// Without the hide column nothing is ever hidden, so the scope adds no
// predicate and never references it.
func (ReadOnlyFallback) VisibleScope(q *gorm.DB) *gorm.DB { return q }

func (ReadOnlyFallback) MarkReadAssignments(now time.Time) map[string]interface{} {
	return map[string]interface{}{"read_at": now}
}

func (ReadOnlyFallback) WriteScope(q *gorm.DB) *gorm.DB { return q.Omit("hidden_at") }

func (h ReadOnlyFallback) Clear(tx *gorm.DB, userID uint, now time.Time) error {
	ids, err := visibleNotificationIDs(tx, userID, h)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	err = upsertReadRows(h.WriteScope(tx), userID, ids, map[string]interface{}{"read_at": now}, now)
	return storeErr("clear all (read-only fallback)", err)
}
