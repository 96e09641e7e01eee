package services

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/models"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/push"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/utils"
)

// PushDispatcher fans one notification out to device channels. It runs after
// Create has succeeded, usually on its own goroutine; nothing it does can fail
// the creation. Per-user and per-target errors are logged and isolated.
type PushDispatcher struct {
	DB       *gorm.DB
	Prefs    *PreferenceGate
	Channels map[string]push.Channel
	Now      func() time.Time
}

func NewPushDispatcher(db *gorm.DB, prefs *PreferenceGate, channels ...push.Channel) *PushDispatcher {
	byPlatform := make(map[string]push.Channel, len(channels))
	for _, ch := range channels {
		byPlatform[ch.Platform()] = ch
	}
	return &PushDispatcher{DB: db, Prefs: prefs, Channels: byPlatform, Now: time.Now}
}

// Dispatch resolves the audience and delivers best-effort. Safe to call again
// for the same notification; delivery is at-least-once by design.
func (d *PushDispatcher) Dispatch(notificationID uint) {
	var n models.Notification
	if err := d.DB.First(&n, notificationID).Error; err != nil {
		utils.ErrorLogger.Printf("push dispatch: load notification %d: %v", notificationID, err)
		return
	}

	userIDs, err := d.resolveAudience(&n)
	if err != nil {
		utils.ErrorLogger.Printf("push dispatch: resolve audience for notification %d: %v", n.ID, err)
		return
	}

	for _, userID := range userIDs {
		d.dispatchToUser(&n, userID)
	}

	now := d.Now()
	if err := d.DB.Model(&models.Notification{}).Where("id = ?", n.ID).
		Update("dispatched_at", now).Error; err != nil {
		utils.ErrorLogger.Printf("push dispatch: stamp notification %d: %v", n.ID, err)
	}
}

// resolveAudience is the fan-out point: the target user when set, otherwise
// every active user.
func (d *PushDispatcher) resolveAudience(n *models.Notification) ([]uint, error) {
	if n.TargetUserID != nil {
		return []uint{*n.TargetUserID}, nil
	}
	var ids []uint
	err := d.DB.Model(&models.User{}).Where("is_active = ?", true).Pluck("id", &ids).Error
	if err != nil {
		return nil, storeErr("list active users", err)
	}
	return ids, nil
}

func (d *PushDispatcher) dispatchToUser(n *models.Notification, userID uint) {
	allowed, err := d.Prefs.ShouldDeliverPush(userID, n.Type)
	if err != nil {
		utils.ErrorLogger.Printf("push dispatch: preferences for user %d: %v", userID, err)
		return
	}
	if !allowed {
		return
	}

	var targets []models.DevicePushTarget
	err = d.DB.Where("user_id = ? AND is_active = ?", userID, true).Find(&targets).Error
	if err != nil {
		utils.ErrorLogger.Printf("push dispatch: targets for user %d: %v", userID, err)
		return
	}
	if len(targets) == 0 {
		return
	}

	msg := RenderPushContent(n.Type, n.Payload)
	msg.Data = map[string]string{"notificationId": strconv.FormatUint(uint64(n.ID), 10), "type": n.Type}

	for platform, group := range groupByPlatform(targets) {
		channel, ok := d.Channels[platform]
		if !ok {
			utils.ErrorLogger.Printf("push dispatch: no channel registered for platform %q", platform)
			continue
		}
		d.sendToPlatform(n, userID, channel, group, msg)
	}
}

// sendToPlatform batches when the channel supports it and degrades a failed
// batch to per-target sends within the same call.
func (d *PushDispatcher) sendToPlatform(n *models.Notification, userID uint, channel push.Channel, targets []models.DevicePushTarget, msg push.Message) {
	byToken := make(map[string]models.DevicePushTarget, len(targets))
	tokens := make([]string, 0, len(targets))
	for _, t := range targets {
		byToken[t.Token] = t
		tokens = append(tokens, t.Token)
	}

	var results []push.Result
	if channel.SupportsBatch() {
		results = channel.Send(tokens, msg)
		if results == nil {
			// Whole batch failed before per-token outcomes were known;
			// retry each target individually.
			for _, token := range tokens {
				results = append(results, first(channel.Send([]string{token}, msg), token))
			}
		}
	} else {
		for _, token := range tokens {
			results = append(results, first(channel.Send([]string{token}, msg), token))
		}
	}

	attemptID := uuid.NewString()
	for _, res := range results {
		target, ok := byToken[res.Token]
		if !ok {
			continue
		}
		d.logAttempt(attemptID, n.ID, userID, target.ID, res)
		if res.Err != nil && push.IsTokenDead(res.Err) {
			d.deactivateTarget(target.ID)
		}
	}
}

func (d *PushDispatcher) logAttempt(attemptID string, notificationID, userID, targetID uint, res push.Result) {
	row := models.PushDeliveryLog{
		AttemptID:      attemptID,
		NotificationID: notificationID,
		UserID:         userID,
		TargetID:       targetID,
	}
	now := d.Now()
	if res.Success {
		row.Status = models.DeliveryStatusSent
		row.SentAt = &now
	} else {
		row.Status = models.DeliveryStatusFailed
		if res.Err != nil {
			msg := res.Err.Error()
			row.ErrorMessage = &msg
		}
	}
	if err := d.DB.Create(&row).Error; err != nil {
		utils.ErrorLogger.Printf("push dispatch: log attempt for target %d: %v", targetID, err)
	}
}

// deactivateTarget is idempotent: repeating it for an already-dead target is a
// no-op update.
func (d *PushDispatcher) deactivateTarget(targetID uint) {
	err := d.DB.Model(&models.DevicePushTarget{}).Where("id = ?", targetID).
		Update("is_active", false).Error
	if err != nil {
		utils.ErrorLogger.Printf("push dispatch: deactivate target %d: %v", targetID, err)
		return
	}
	utils.InfoLogger.Printf("push dispatch: deactivated dead target %d", targetID)
}

func groupByPlatform(targets []models.DevicePushTarget) map[string][]models.DevicePushTarget {
	out := make(map[string][]models.DevicePushTarget)
	for _, t := range targets {
		out[t.Platform] = append(out[t.Platform], t)
	}
	return out
}

func first(results []push.Result, token string) push.Result {
	if len(results) > 0 {
		return results[0]
	}
	return push.Result{Token: token, Err: &push.ChannelError{Code: "send", Message: "no result from provider"}}
}
