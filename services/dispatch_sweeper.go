package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/models"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/utils"
)

// DispatchSweeper re-runs push dispatch for notifications whose asynchronous
// fan-out never completed, e.g. after a crash between create and dispatch.
// Redundant dispatch is fine; delivery is at-least-once.
type DispatchSweeper struct {
	DB          *gorm.DB
	Dispatcher  *PushDispatcher
	GracePeriod time.Duration
	cron        *cron.Cron
}

func NewDispatchSweeper(db *gorm.DB, dispatcher *PushDispatcher) *DispatchSweeper {
	return &DispatchSweeper{
		DB:          db,
		Dispatcher:  dispatcher,
		GracePeriod: 2 * time.Minute,
		cron:        cron.New(),
	}
}

func (s *DispatchSweeper) Start() error {
	if _, err := s.cron.AddFunc("@every 1m", s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *DispatchSweeper) Stop() {
	s.cron.Stop()
}

// Sweep picks up undispatched notifications older than the grace period. The
// grace period keeps it off the heels of the normal in-process dispatch.
func (s *DispatchSweeper) Sweep() {
	cutoff := time.Now().Add(-s.GracePeriod)

	var ids []uint
	err := s.DB.Model(&models.Notification{}).
		Where("dispatched_at IS NULL AND created_at < ?", cutoff).
		Order("created_at ASC").
		Limit(50).
		Pluck("id", &ids).Error
	if err != nil {
		utils.ErrorLogger.Printf("dispatch sweeper: list undispatched: %v", err)
		return
	}

	if len(ids) == 0 {
		return
	}
	utils.InfoLogger.Printf("dispatch sweeper: re-dispatching %d notification(s)", len(ids))
	for _, id := range ids {
		s.Dispatcher.Dispatch(id)
	}
}
