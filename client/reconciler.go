// Package client holds the session-resident notification cache: one unified
// list plus unread counter fed by the initial fetch, realtime events and the
// user's own optimistic mutations.
package client

import (
	"context"
	"sync"
	"time"
)

// Entry is one notification as the session sees it.
type Entry struct {
	ID        uint
	Type      string
	Payload   map[string]interface{}
	CreatedAt time.Time
	ReadAt    *time.Time
}

// Fetcher reads server truth for the session's user.
type Fetcher interface {
	ListVisible(ctx context.Context) ([]Entry, error)
	UnreadCount(ctx context.Context) (int, error)
}

// Mutator applies the session's read-state mutations on the server.
type Mutator interface {
	MarkRead(ctx context.Context, notificationID uint) error
	ClearAll(ctx context.Context) error
}

// Notifier is the injected local alert capability (sound, vibration).
// Fire-and-forget; failures are the notifier's problem.
type Notifier interface {
	PlayAlert(notifType, message string)
}

// MutationState tracks the last optimistic mutation through its lifecycle.
type MutationState int

const (
	MutationNone MutationState = iota
	MutationPending
	MutationConfirmed
	MutationReverted
)

// Reconciler merges fetches, realtime events and optimistic mutations into a
// consistent view. The anti-resurrection guard is a monotonic timestamp
// comparison: while armed, anything created at or before the clear-all
// snapshot is suppressed, so a late realtime echo can never bring back what
// the user just cleared.
type Reconciler struct {
	mu       sync.Mutex
	fetcher  Fetcher
	mutator  Mutator
	notifier Notifier
	now      func() time.Time

	list   []Entry
	unread int

	clearSnapshot *time.Time // guard; nil when disarmed
	clearPending  bool
	alive         bool
	lastMutation  MutationState
}

func NewReconciler(fetcher Fetcher, mutator Mutator, notifier Notifier) *Reconciler {
	return &Reconciler{
		fetcher:  fetcher,
		mutator:  mutator,
		notifier: notifier,
		now:      time.Now,
		alive:    true,
	}
}

// Close marks the session as gone. In-flight mutation results are ignored
// afterwards; the calls themselves are not cancelled.
func (r *Reconciler) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alive = false
}

// Snapshot returns a copy of the current list and the unread counter.
func (r *Reconciler) Snapshot() ([]Entry, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.list))
	copy(out, r.list)
	return out, r.unread
}

// LastMutation exposes the state of the most recent optimistic mutation.
func (r *Reconciler) LastMutation() MutationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastMutation
}

// InitialFetch replaces list and counter wholesale from server truth.
func (r *Reconciler) InitialFetch(ctx context.Context) error {
	return r.Resync(ctx)
}

// Resync re-fetches server truth. While the clear-all guard is armed it
// filters out anything from before the snapshot; once the clear is confirmed
// the next successful resync reflects the server-side hide and disarms the
// guard.
func (r *Reconciler) Resync(ctx context.Context) error {
	entries, err := r.fetcher.ListVisible(ctx)
	if err != nil {
		return err
	}
	unread, err := r.fetcher.UnreadCount(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.alive {
		return nil
	}

	if r.clearSnapshot != nil {
		filtered := entries[:0:0]
		unread = 0
		for _, e := range entries {
			if !e.CreatedAt.After(*r.clearSnapshot) {
				continue
			}
			filtered = append(filtered, e)
			if e.ReadAt == nil {
				unread++
			}
		}
		entries = filtered
		if !r.clearPending {
			r.clearSnapshot = nil
		}
	}

	r.list = entries
	r.unread = unread
	return nil
}

// ApplyInsert merges a realtime insert event. Duplicates are dropped by ID,
// guarded events are suppressed, and anything else is prepended with a local
// alert. Works before InitialFetch has completed.
func (r *Reconciler) ApplyInsert(e Entry) {
	r.mu.Lock()
	if !r.alive {
		r.mu.Unlock()
		return
	}
	if r.clearSnapshot != nil && !e.CreatedAt.After(*r.clearSnapshot) {
		r.mu.Unlock()
		return
	}
	if r.indexOf(e.ID) >= 0 {
		r.mu.Unlock()
		return
	}
	r.list = append([]Entry{e}, r.list...)
	r.unread++
	notifier := r.notifier
	r.mu.Unlock()

	if notifier != nil {
		notifier.PlayAlert(e.Type, "")
	}
}

// ApplyReadState merges a realtime read-state event, typically from another
// device of the same user. A hidden row removes the entry; a read stamp marks
// it. Absence of hidden_at never re-adds anything.
func (r *Reconciler) ApplyReadState(notificationID uint, readAt, hiddenAt *time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.alive {
		return
	}

	idx := r.indexOf(notificationID)
	if idx < 0 {
		return
	}

	if hiddenAt != nil {
		if r.list[idx].ReadAt == nil && r.unread > 0 {
			r.unread--
		}
		r.list = append(r.list[:idx], r.list[idx+1:]...)
		return
	}
	if readAt != nil && r.list[idx].ReadAt == nil {
		r.list[idx].ReadAt = readAt
		if r.unread > 0 {
			r.unread--
		}
	}
}

// MarkRead applies the read locally first, then confirms with the server and
// reverts the local fields if the call fails.
func (r *Reconciler) MarkRead(ctx context.Context, notificationID uint) error {
	r.mu.Lock()
	idx := r.indexOf(notificationID)
	var prevRead *time.Time
	wasUnread := false
	if idx >= 0 {
		prevRead = r.list[idx].ReadAt
		wasUnread = prevRead == nil
		now := r.now()
		r.list[idx].ReadAt = &now
		if wasUnread && r.unread > 0 {
			r.unread--
		}
	}
	r.lastMutation = MutationPending
	r.mu.Unlock()

	err := r.mutator.MarkRead(ctx, notificationID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.alive {
		return err
	}
	if err != nil {
		r.lastMutation = MutationReverted
		if i := r.indexOf(notificationID); i >= 0 {
			r.list[i].ReadAt = prevRead
			if wasUnread {
				r.unread++
			}
		}
		return err
	}
	r.lastMutation = MutationConfirmed
	return nil
}

// ClearAll empties the view immediately, arms the anti-resurrection guard at
// the snapshot time, then confirms with the server. On failure the previous
// state is restored from a fresh fetch.
func (r *Reconciler) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	snapshot := r.now()
	r.clearSnapshot = &snapshot
	r.clearPending = true
	r.list = nil
	r.unread = 0
	r.lastMutation = MutationPending
	r.mu.Unlock()

	err := r.mutator.ClearAll(ctx)

	r.mu.Lock()
	if !r.alive {
		r.mu.Unlock()
		return err
	}
	if err != nil {
		r.clearPending = false
		r.clearSnapshot = nil
		r.lastMutation = MutationReverted
		r.mu.Unlock()
		// Best effort restore; the mutation error is the one to surface.
		_ = r.Resync(ctx)
		return err
	}
	r.clearPending = false
	r.lastMutation = MutationConfirmed
	r.mu.Unlock()
	return nil
}

// indexOf must be called with r.mu held.
func (r *Reconciler) indexOf(id uint) int {
	for i := range r.list {
		if r.list[i].ID == id {
			return i
		}
	}
	return -1
}
