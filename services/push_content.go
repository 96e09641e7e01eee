package services

import (
	"fmt"
	"time"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/models"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/push"
)

// RenderPushContent maps (type, payload) to displayable push content. One
// branch per known type; unknown types get a generic fallback so novel
// producers still reach the device.
func RenderPushContent(notifType string, payload map[string]interface{}) push.Message {
	switch notifType {
	case models.NotifInventoryLowStock:
		return push.Message{
			Title:    "Low stock alert",
			Body:     fmt.Sprintf("%s is low: %s left (threshold %s)", payloadString(payload, "itemName"), payloadString(payload, "stock"), payloadString(payload, "threshold")),
			DeepLink: "/inventory/items",
		}
	case models.NotifWorkOrderCreated:
		return push.Message{
			Title:    "New work order",
			Body:     fmt.Sprintf("Work order %s created, due %s", payloadString(payload, "code"), formatPayloadDate(payload["dueDate"])),
			DeepLink: "/work-orders/" + payloadString(payload, "id"),
		}
	case models.NotifWorkOrderStatusChanged:
		return push.Message{
			Title:    "Work order updated",
			Body:     fmt.Sprintf("Work order %s is now %s", payloadString(payload, "code"), payloadString(payload, "status")),
			DeepLink: "/work-orders/" + payloadString(payload, "id"),
		}
	case models.NotifProductionStatusChanged:
		return push.Message{
			Title:    "Production update",
			Body:     fmt.Sprintf("Batch %s moved to %s", payloadString(payload, "batch"), payloadString(payload, "status")),
			DeepLink: "/production",
		}
	case models.NotifEventReminder:
		return push.Message{
			Title:    "Reminder",
			Body:     fmt.Sprintf("%s at %s", payloadString(payload, "title"), formatPayloadDate(payload["startsAt"])),
			DeepLink: "/events",
		}
	default:
		return push.Message{
			Title:    "New notification",
			Body:     "You have a new notification",
			DeepLink: "/notifications",
		}
	}
}

// payloadString renders any payload value as text. JSON numbers arrive as
// float64; whole values are printed without the decimal part.
func payloadString(payload map[string]interface{}, key string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return "?"
	}
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%v", v)
}

// formatPayloadDate accepts ISO dates with or without a time component. On
// parse failure the raw value is shown instead of failing the render.
func formatPayloadDate(v interface{}) string {
	if v == nil {
		return "?"
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02 Jan 2006")
		}
	}
	return s
}
