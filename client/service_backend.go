package client

import (
	"context"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/services"
)

// ServiceBackend binds a reconciler to the notification services for one
// user. Mobile and web shells talk HTTP instead, but the in-process kiosk
// displays on the factory floor use this directly.
type ServiceBackend struct {
	Store  *services.NotificationStore
	Reads  *services.ReadStateTracker
	UserID uint
}

func NewServiceBackend(store *services.NotificationStore, reads *services.ReadStateTracker, userID uint) *ServiceBackend {
	return &ServiceBackend{Store: store, Reads: reads, UserID: userID}
}

func (b *ServiceBackend) ListVisible(ctx context.Context) ([]Entry, error) {
	rows, err := b.Store.ListVisibleFor(b.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, Entry{
			ID:        row.ID,
			Type:      row.Type,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
			ReadAt:    row.ReadAt,
		})
	}
	return out, nil
}

func (b *ServiceBackend) UnreadCount(ctx context.Context) (int, error) {
	count, err := b.Reads.UnreadCount(b.UserID)
	return int(count), err
}

func (b *ServiceBackend) MarkRead(ctx context.Context, notificationID uint) error {
	return b.Reads.MarkRead(notificationID, b.UserID)
}

func (b *ServiceBackend) ClearAll(ctx context.Context) error {
	return b.Reads.ClearAll(b.UserID)
}
