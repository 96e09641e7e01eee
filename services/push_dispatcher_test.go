package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/models"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/push"
)

// fakeChannel scripts per-call results and records every send.
type fakeChannel struct {
	platform string
	batch    bool
	calls    [][]string
	script   func(call int, tokens []string) []push.Result
}

func (f *fakeChannel) Platform() string    { return f.platform }
func (f *fakeChannel) SupportsBatch() bool { return f.batch }

func (f *fakeChannel) Send(tokens []string, msg push.Message) []push.Result {
	call := len(f.calls)
	f.calls = append(f.calls, tokens)
	if f.script != nil {
		return f.script(call, tokens)
	}
	out := make([]push.Result, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, push.Result{Token: tok, Success: true})
	}
	return out
}

func TestDispatchSendsAndLogsPerTarget(t *testing.T) {
	db := setupTestDB(t)
	u1 := seedUser(t, db, "ana")

	db.Create(&models.DevicePushTarget{UserID: u1.ID, Platform: models.PlatformMobilePush, Token: "tok-1", IsActive: true})
	db.Create(&models.DevicePushTarget{UserID: u1.ID, Platform: models.PlatformMobilePush, Token: "tok-2", IsActive: true})

	store := NewNotificationStore(db, TombstoneHide{})
	gate := NewPreferenceGate(db)
	channel := &fakeChannel{platform: models.PlatformMobilePush, batch: true}
	dispatcher := NewPushDispatcher(db, gate, channel)

	n, err := store.Create("inventory.lowStock", map[string]interface{}{"itemName": "Glass 10mm", "stock": 2, "threshold": 5}, &u1.ID)
	assert.NoError(t, err)

	dispatcher.Dispatch(n.ID)

	// One batched call carrying both tokens.
	assert.Len(t, channel.calls, 1)
	assert.ElementsMatch(t, []string{"tok-1", "tok-2"}, channel.calls[0])

	var logs []models.PushDeliveryLog
	assert.NoError(t, db.Find(&logs).Error)
	assert.Len(t, logs, 2)
	for _, row := range logs {
		assert.Equal(t, models.DeliveryStatusSent, row.Status)
		assert.Equal(t, n.ID, row.NotificationID)
		assert.NotNil(t, row.SentAt)
	}

	var got models.Notification
	assert.NoError(t, db.First(&got, n.ID).Error)
	assert.NotNil(t, got.DispatchedAt)
}

// Scenario: push disabled for the category. No delivery log rows appear, but
// the notification is still visible in the list.
func TestPreferenceGateSkipsDeliveryButKeepsVisibility(t *testing.T) {
	db := setupTestDB(t)
	u2 := seedUser(t, db, "bruno")

	db.Create(&models.DevicePushTarget{UserID: u2.ID, Platform: models.PlatformMobilePush, Token: "tok-b", IsActive: true})

	store := NewNotificationStore(db, TombstoneHide{})
	gate := NewPreferenceGate(db)
	prefs, err := gate.GetOrCreateDefault(u2.ID)
	assert.NoError(t, err)
	assert.NoError(t, db.Model(prefs).Update("work_orders_enabled", false).Error)

	channel := &fakeChannel{platform: models.PlatformMobilePush, batch: true}
	dispatcher := NewPushDispatcher(db, gate, channel)

	n, err := store.Create("workOrder.created", map[string]interface{}{"code": "WO-9"}, &u2.ID)
	assert.NoError(t, err)

	dispatcher.Dispatch(n.ID)

	assert.Empty(t, channel.calls)

	var logCount int64
	db.Model(&models.PushDeliveryLog{}).Where("user_id = ?", u2.ID).Count(&logCount)
	assert.EqualValues(t, 0, logCount)

	visible, err := store.ListVisibleFor(u2.ID)
	assert.NoError(t, err)
	assert.Len(t, visible, 1)
}

// Scenario: the provider reports a token as permanently invalid. The target is
// deactivated and a second dispatch does not try it again.
func TestDeadTokenDeactivatedAndSkipped(t *testing.T) {
	db := setupTestDB(t)
	u1 := seedUser(t, db, "ana")

	target := models.DevicePushTarget{UserID: u1.ID, Platform: models.PlatformMobilePush, Token: "tok-dead", IsActive: true}
	assert.NoError(t, db.Create(&target).Error)

	store := NewNotificationStore(db, TombstoneHide{})
	gate := NewPreferenceGate(db)
	channel := &fakeChannel{
		platform: models.PlatformMobilePush,
		batch:    true,
		script: func(call int, tokens []string) []push.Result {
			out := make([]push.Result, 0, len(tokens))
			for _, tok := range tokens {
				out = append(out, push.Result{Token: tok, Err: &push.ChannelError{Code: push.CodeUnregistered, Message: "token no longer registered"}})
			}
			return out
		},
	}
	dispatcher := NewPushDispatcher(db, gate, channel)

	n1, err := store.Create("event.reminder", nil, &u1.ID)
	assert.NoError(t, err)
	dispatcher.Dispatch(n1.ID)

	var got models.DevicePushTarget
	assert.NoError(t, db.First(&got, target.ID).Error)
	assert.False(t, got.IsActive)

	var failed models.PushDeliveryLog
	assert.NoError(t, db.Where("target_id = ?", target.ID).First(&failed).Error)
	assert.Equal(t, models.DeliveryStatusFailed, failed.Status)
	assert.NotNil(t, failed.ErrorMessage)

	// Second notification: the dead target is no longer resolved.
	callsBefore := len(channel.calls)
	n2, err := store.Create("event.reminder", nil, &u1.ID)
	assert.NoError(t, err)
	dispatcher.Dispatch(n2.ID)
	assert.Equal(t, callsBefore, len(channel.calls))

	var logCount int64
	db.Model(&models.PushDeliveryLog{}).Where("notification_id = ?", n2.ID).Count(&logCount)
	assert.EqualValues(t, 0, logCount)
}

// A failed batch degrades to per-token sends within the same dispatch.
func TestBatchFailureDegradesToPerTokenSends(t *testing.T) {
	db := setupTestDB(t)
	u1 := seedUser(t, db, "ana")

	db.Create(&models.DevicePushTarget{UserID: u1.ID, Platform: models.PlatformMobilePush, Token: "tok-1", IsActive: true})
	db.Create(&models.DevicePushTarget{UserID: u1.ID, Platform: models.PlatformMobilePush, Token: "tok-2", IsActive: true})

	store := NewNotificationStore(db, TombstoneHide{})
	gate := NewPreferenceGate(db)
	channel := &fakeChannel{
		platform: models.PlatformMobilePush,
		batch:    true,
		script: func(call int, tokens []string) []push.Result {
			if call == 0 {
				return nil // whole batch rejected
			}
			out := make([]push.Result, 0, len(tokens))
			for _, tok := range tokens {
				out = append(out, push.Result{Token: tok, Success: true})
			}
			return out
		},
	}
	dispatcher := NewPushDispatcher(db, gate, channel)

	n, err := store.Create("event.reminder", nil, &u1.ID)
	assert.NoError(t, err)
	dispatcher.Dispatch(n.ID)

	// One failed batch call plus one retry per token.
	assert.Len(t, channel.calls, 3)

	var sent int64
	db.Model(&models.PushDeliveryLog{}).Where("status = ?", models.DeliveryStatusSent).Count(&sent)
	assert.EqualValues(t, 2, sent)
}

// Global notifications fan out to every active user; inactive users are not
// an audience.
func TestGlobalDispatchSkipsInactiveUsers(t *testing.T) {
	db := setupTestDB(t)
	u1 := seedUser(t, db, "ana")
	u2 := seedUser(t, db, "bruno")
	assert.NoError(t, db.Model(&models.User{}).Where("id = ?", u2.ID).Update("is_active", false).Error)

	db.Create(&models.DevicePushTarget{UserID: u1.ID, Platform: models.PlatformWebPush, Token: "sub-1", IsActive: true})
	db.Create(&models.DevicePushTarget{UserID: u2.ID, Platform: models.PlatformWebPush, Token: "sub-2", IsActive: true})

	store := NewNotificationStore(db, TombstoneHide{})
	gate := NewPreferenceGate(db)
	channel := &fakeChannel{platform: models.PlatformWebPush, batch: false}
	dispatcher := NewPushDispatcher(db, gate, channel)

	n, err := store.Create("inventory.lowStock", map[string]interface{}{"itemName": "Glass 4mm"}, nil)
	assert.NoError(t, err)
	dispatcher.Dispatch(n.ID)

	// Only u1's subscription was tried, one token per call (no web batching).
	assert.Len(t, channel.calls, 1)
	assert.Equal(t, []string{"sub-1"}, channel.calls[0])
}
