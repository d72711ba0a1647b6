// Package userstate tracks per-user configuration blobs and last-seen activity.
// Settings and activity live in separate containers with separate locks;
// the tracker keeps a denormalized snapshot of the blob taken at touch time.
package userstate

import (
	"sync"

	"github.com/hexveil/brainrelay/internal/models"
)

// SettingsStore maps user ids to opaque settings blobs.
// The server only interprets the few keys it mutates itself;
// everything else passes through untouched.
type SettingsStore struct {
	mu    sync.Mutex
	users map[string]map[string]any
}

// NewSettingsStore creates an empty settings store.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{users: make(map[string]map[string]any)}
}

// Get returns a copy of the user's blob, or an empty map when none is stored.
func (s *SettingsStore) Get(userID string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyBlob(s.users[userID])
}

// Set replaces the user's blob wholesale.
func (s *SettingsStore) Set(userID string, blob map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[userID] = copyBlob(blob)
}

// SetField creates the user's entry if absent and sets a single field.
func (s *SettingsStore) SetField(userID, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, ok := s.users[userID]
	if !ok {
		blob = make(map[string]any)
		s.users[userID] = blob
	}
	blob[key] = value
}

// Remove deletes the user's entry.
func (s *SettingsStore) Remove(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, userID)
}

// ApplyGlobalFilter sets minMoneyFilter on every user that already has the key.
// Users without the key are left untouched and do not gain it; only a direct
// save or a per-user admin action introduces the key for them.
// Returns the number of updated users.
func (s *SettingsStore) ApplyGlobalFilter(value float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for _, blob := range s.users {
		if _, ok := blob[models.KeyMinMoneyFilter]; ok {
			blob[models.KeyMinMoneyFilter] = value
			updated++
		}
	}

	return updated
}

// ApplyGlobalAutojoin sets autoJoinEnabled on every stored user,
// creating the key where it is absent. Returns the number of updated users.
func (s *SettingsStore) ApplyGlobalAutojoin(enabled bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, blob := range s.users {
		blob[models.KeyAutoJoinEnabled] = enabled
	}

	return len(s.users)
}

// ApplyAll sets one named field on every stored user, creating the key where absent.
// Used by the broadcast pause/resume admin command.
func (s *SettingsStore) ApplyAll(key string, value any) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, blob := range s.users {
		blob[key] = value
	}

	return len(s.users)
}

// copyBlob returns a shallow copy so callers never alias stored state.
func copyBlob(blob map[string]any) map[string]any {
	out := make(map[string]any, len(blob))
	for k, v := range blob {
		out[k] = v
	}

	return out
}
