package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/models"
)

// PreferenceGate decides whether a push may be sent to a user for a given
// notification type.
type PreferenceGate struct {
	DB *gorm.DB
}

func NewPreferenceGate(db *gorm.DB) *PreferenceGate {
	return &PreferenceGate{DB: db}
}

// CategoryOf returns the notification type prefix, e.g. "inventory" for
// "inventory.lowStock".
func CategoryOf(notifType string) string {
	if i := strings.Index(notifType, "."); i > 0 {
		return notifType[:i]
	}
	return notifType
}

// GetOrCreateDefault lazily creates the user's preference row with every
// category enabled.
func (g *PreferenceGate) GetOrCreateDefault(userID uint) (*models.NotificationPreferences, error) {
	prefs := models.NotificationPreferences{
		UserID:            userID,
		PushEnabled:       true,
		InventoryEnabled:  true,
		WorkOrdersEnabled: true,
		ProductionEnabled: true,
		EventsEnabled:     true,
	}
	err := g.DB.Where(models.NotificationPreferences{UserID: userID}).
		Attrs(prefs).
		FirstOrCreate(&prefs).Error
	if err != nil {
		return nil, storeErr("load preferences", err)
	}
	return &prefs, nil
}

// ShouldDeliverPush is false when the master switch or the matching category
// flag is off. Unknown categories are allowed, so a new notification type is
// never silently dropped.
func (g *PreferenceGate) ShouldDeliverPush(userID uint, notifType string) (bool, error) {
	prefs, err := g.GetOrCreateDefault(userID)
	if err != nil {
		return false, err
	}
	if !prefs.PushEnabled {
		return false, nil
	}
	switch CategoryOf(notifType) {
	case "inventory":
		return prefs.InventoryEnabled, nil
	case "workOrder":
		return prefs.WorkOrdersEnabled, nil
	case "production":
		return prefs.ProductionEnabled, nil
	case "event":
		return prefs.EventsEnabled, nil
	default:
		return true, nil
	}
}
