package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/models"
)

func TestMarkReadIdempotent(t *testing.T) {
	db := setupTestDB(t)
	u1 := seedUser(t, db, "ana")

	store := NewNotificationStore(db, TombstoneHide{})
	reads := NewReadStateTracker(db, TombstoneHide{})

	n, err := store.Create("event.reminder", nil, nil)
	assert.NoError(t, err)

	assert.NoError(t, reads.MarkRead(n.ID, u1.ID))
	assert.NoError(t, reads.MarkRead(n.ID, u1.ID))

	count, err := reads.UnreadCount(u1.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 0, count)

	var rows int64
	db.Model(&models.NotificationRead{}).Where("user_id = ?", u1.ID).Count(&rows)
	assert.EqualValues(t, 1, rows)
}

func TestMarkReadRejectsForeignTarget(t *testing.T) {
	db := setupTestDB(t)
	u1 := seedUser(t, db, "ana")
	u2 := seedUser(t, db, "bruno")

	store := NewNotificationStore(db, TombstoneHide{})
	reads := NewReadStateTracker(db, TombstoneHide{})

	n, err := store.Create("workOrder.created", nil, &u1.ID)
	assert.NoError(t, err)

	err = reads.MarkRead(n.ID, u2.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)

	err = reads.MarkRead(9999, u1.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
}

// Marking as read always un-hides: an explicit read action is the only path
// that reverts a hide.
func TestMarkReadClearsHidden(t *testing.T) {
	db := setupTestDB(t)
	u1 := seedUser(t, db, "ana")

	store := NewNotificationStore(db, TombstoneHide{})
	reads := NewReadStateTracker(db, TombstoneHide{})

	n, err := store.Create("event.reminder", nil, nil)
	assert.NoError(t, err)

	assert.NoError(t, reads.ClearAll(u1.ID))

	visible, err := store.ListVisibleFor(u1.ID)
	assert.NoError(t, err)
	assert.Empty(t, visible)

	assert.NoError(t, reads.MarkRead(n.ID, u1.ID))

	visible, err = store.ListVisibleFor(u1.ID)
	assert.NoError(t, err)
	assert.Len(t, visible, 1)
}

func TestClearAllMarksEverythingRead(t *testing.T) {
	db := setupTestDB(t)
	u1 := seedUser(t, db, "ana")

	store := NewNotificationStore(db, TombstoneHide{})
	reads := NewReadStateTracker(db, TombstoneHide{})

	for i := 0; i < 3; i++ {
		_, err := store.Create("production.statusChanged", nil, nil)
		assert.NoError(t, err)
	}

	assert.NoError(t, reads.ClearAll(u1.ID))

	count, err := reads.UnreadCount(u1.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

// The degraded-schema fallback zeroes the unread count but keeps the entries
// in the list.
func TestReadOnlyFallbackKeepsEntriesVisible(t *testing.T) {
	db := setupTestDB(t)
	u1 := seedUser(t, db, "ana")

	store := NewNotificationStore(db, ReadOnlyFallback{})
	reads := NewReadStateTracker(db, ReadOnlyFallback{})

	_, err := store.Create("event.reminder", nil, nil)
	assert.NoError(t, err)
	_, err = store.Create("event.reminder", nil, nil)
	assert.NoError(t, err)

	assert.NoError(t, reads.ClearAll(u1.ID))

	count, err := reads.UnreadCount(u1.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 0, count)

	visible, err := store.ListVisibleFor(u1.ID)
	assert.NoError(t, err)
	assert.Len(t, visible, 2)
	for _, v := range visible {
		assert.NotNil(t, v.ReadAt)
	}
}

func TestProbeHideSupportSelectsTombstone(t *testing.T) {
	db := setupTestDB(t)
	hide := ProbeHideSupport(db)
	assert.Equal(t, "tombstone-hide", hide.Name())
}

// With the hide column actually absent, the probe selects the fallback and
// the whole read/write path keeps working without ever naming the column.
func TestDegradedSchemaServesFullReadWritePath(t *testing.T) {
	db := setupTestDB(t)
	u1 := seedUser(t, db, "ana")

	assert.NoError(t, db.Migrator().DropColumn(&models.NotificationRead{}, "hidden_at"))

	hide := ProbeHideSupport(db)
	assert.Equal(t, "read-only-fallback", hide.Name())

	store := NewNotificationStore(db, hide)
	reads := NewReadStateTracker(db, hide)

	n1, err := store.Create("event.reminder", nil, nil)
	assert.NoError(t, err)
	_, err = store.Create("workOrder.created", nil, &u1.ID)
	assert.NoError(t, err)

	visible, err := store.ListVisibleFor(u1.ID)
	assert.NoError(t, err)
	assert.Len(t, visible, 2)

	count, err := reads.UnreadCount(u1.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 2, count)

	assert.NoError(t, reads.MarkRead(n1.ID, u1.ID))
	assert.NoError(t, reads.MarkRead(n1.ID, u1.ID))

	assert.NoError(t, reads.ClearAll(u1.ID))

	count, err = reads.UnreadCount(u1.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// Entries stay listed; clear-all degraded to mark-all-read.
	visible, err = store.ListVisibleFor(u1.ID)
	assert.NoError(t, err)
	assert.Len(t, visible, 2)
	for _, v := range visible {
		assert.NotNil(t, v.ReadAt)
	}
}
