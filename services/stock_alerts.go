package services

import "github.com/HigorVibeCode/NewCreaGlass-sub001/models"

// CrossedBelowThreshold is the single low-stock predicate: alert only when the
// level crosses the threshold downwards, not on every update already below it.
// Every inventory call site (create, update, adjust) must go through this.
func CrossedBelowThreshold(prev, next, threshold int) bool {
	return prev >= threshold && next < threshold
}

// StockAlerter turns inventory level changes into global low-stock
// notifications.
type StockAlerter struct {
	Store *NotificationStore
}

func NewStockAlerter(store *NotificationStore) *StockAlerter {
	return &StockAlerter{Store: store}
}

// StockChanged creates a low-stock notification when the change crosses the
// threshold. Returns the notification so the caller can hand it to the push
// dispatcher; nil when no alert was due.
func (a *StockAlerter) StockChanged(itemName string, prev, next, threshold int) (*models.Notification, error) {
	if !CrossedBelowThreshold(prev, next, threshold) {
		return nil, nil
	}
	return a.Store.Create(models.NotifInventoryLowStock, map[string]interface{}{
		"itemName":  itemName,
		"stock":     next,
		"threshold": threshold,
	}, nil)
}
