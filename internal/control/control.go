// Package control holds the process-wide admin state: global toggles,
// the bounded broadcast log, the kick set and the per-poll command outbox.
package control

import (
	"sync"
	"time"

	"github.com/hexveil/brainrelay/internal/models"
)

// Settings is the JSON view of the process-wide toggles.
type Settings struct {
	GlobalFilter    float64 `json:"globalFilter"`
	GlobalAutojoin  bool    `json:"globalAutojoin"`
	MaintenanceMode bool    `json:"maintenanceMode"`
}

// State owns the global control toggles and the broadcast log.
// Bulk propagation into user settings is the caller's job so this
// lock is never held together with the settings store lock.
type State struct {
	mu         sync.Mutex
	settings   Settings
	broadcasts []models.BroadcastMessage
	keep       int

	// now is swappable in tests
	now func() time.Time
}

// NewState creates control state keeping at most keep broadcast messages.
func NewState(keep int) *State {
	return &State{
		keep: keep,
		now:  time.Now,
	}
}

// SetGlobalFilter stores the new global filter threshold.
func (s *State) SetGlobalFilter(value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.GlobalFilter = value
}

// SetGlobalAutojoin stores the new global autojoin flag.
func (s *State) SetGlobalAutojoin(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.GlobalAutojoin = enabled
}

// SetMaintenance stores the new maintenance flag.
func (s *State) SetMaintenance(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.MaintenanceMode = enabled
}

// Maintenance reports whether maintenance mode is active.
func (s *State) Maintenance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.settings.MaintenanceMode
}

// Snapshot returns the current toggle values.
func (s *State) Snapshot() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.settings
}

// Broadcast appends a message to the log, dropping the oldest entry
// once the capacity is exceeded.
func (s *State) Broadcast(text string) models.BroadcastMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := models.BroadcastMessage{
		Text:      text,
		Timestamp: models.UnixSeconds(s.now()),
	}

	s.broadcasts = append(s.broadcasts, msg)
	if len(s.broadcasts) > s.keep {
		s.broadcasts = s.broadcasts[1:]
	}

	return msg
}

// Broadcasts returns the retained messages, oldest first.
func (s *State) Broadcasts() []models.BroadcastMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.BroadcastMessage, len(s.broadcasts))
	copy(out, s.broadcasts)

	return out
}
