package userstate

import (
	"sync"
	"time"

	"github.com/hexveil/brainrelay/internal/models"
)

// activityRecord is the tracker's view of one user.
type activityRecord struct {
	lastSeen time.Time
	settings map[string]any
}

// ActivityTracker records when each user last talked to the server, together
// with a snapshot of their settings blob taken at that moment.
// Presence here approximates "has communicated recently"; records are only
// removed by an admin kick.
type ActivityTracker struct {
	mu       sync.Mutex
	users    map[string]*activityRecord
	window   time.Duration
	settings *SettingsStore

	// now is swappable in tests
	now func() time.Time
}

// NewActivityTracker creates a tracker with the given connected window.
// The settings store is read (never locked together with the tracker)
// to refresh snapshots on touch.
func NewActivityTracker(window time.Duration, settings *SettingsStore) *ActivityTracker {
	return &ActivityTracker{
		users:    make(map[string]*activityRecord),
		window:   window,
		settings: settings,
		now:      time.Now,
	}
}

// Touch refreshes the user's last-seen time and, when a settings blob exists,
// snapshots it. The settings store is consulted before the tracker lock is
// taken so no two domain locks are ever held at once.
func (t *ActivityTracker) Touch(userID string) {
	blob := t.settings.Get(userID)

	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.users[userID]
	if !ok {
		rec = &activityRecord{settings: map[string]any{}}
		t.users[userID] = rec
	}

	rec.lastSeen = t.now()
	if len(blob) > 0 {
		rec.settings = blob
	}
}

// Remove deletes the user's activity record. Used by kick.
func (t *ActivityTracker) Remove(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.users, userID)
}

// IsConnected reports whether the user was seen within the connected window.
func (t *ActivityTracker) IsConnected(userID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.users[userID]
	if !ok {
		return false
	}

	return t.now().Sub(rec.lastSeen) < t.window
}

// Stats returns the number of connected users and, among those,
// how many have autojoin enabled in their snapshot.
func (t *ActivityTracker) Stats() (connected, autojoin int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for _, rec := range t.users {
		if now.Sub(rec.lastSeen) >= t.window {
			continue
		}
		connected++

		if v, ok := rec.settings[models.KeyAutoJoinEnabled].(bool); ok && v {
			autojoin++
		}
	}

	return connected, autojoin
}

// Connected returns the control-panel view of every user inside the window.
func (t *ActivityTracker) Connected() []models.ConnectedUser {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	users := []models.ConnectedUser{}
	for id, rec := range t.users {
		if now.Sub(rec.lastSeen) >= t.window {
			continue
		}

		users = append(users, models.ConnectedUser{
			UserID:   id,
			LastSeen: models.UnixSeconds(rec.lastSeen),
			Settings: copyBlob(rec.settings),
		})
	}

	return users
}
