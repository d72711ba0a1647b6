// Package hwid implements the persisted device allow-list.
// The list is a tiny JSON blob rewritten wholesale on every addition;
// losing or corrupting it is non-fatal and simply yields an empty list.
package hwid

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
)

// fileFormat is the on-disk shape of the allow-list.
type fileFormat struct {
	Hwids []string `json:"hwids"`
}

// Store is a capacity-bounded set of recognized device identifiers.
// Membership checks go through an xxhash set; the raw identifiers are
// retained only for persistence.
type Store struct {
	mu     sync.Mutex
	path   string
	max    int
	ids    []string
	hashes map[uint64]struct{}
}

// Load reads the allow-list from path. A missing or unreadable file is
// logged and treated as an empty list, never as a fatal error.
func Load(path string, max int) *Store {
	s := &Store{
		path:   path,
		max:    max,
		hashes: make(map[uint64]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("Failed to read allow-list, starting empty")
		}
		return s
	}

	var file fileFormat
	if err := json.Unmarshal(data, &file); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Corrupt allow-list, starting empty")
		return s
	}

	for _, id := range file.Hwids {
		if _, seen := s.hashes[xxhash.Sum64String(id)]; seen {
			continue
		}
		s.ids = append(s.ids, id)
		s.hashes[xxhash.Sum64String(id)] = struct{}{}
	}

	log.Info().Int("devices", len(s.ids)).Str("path", path).Msg("Allow-list loaded")

	return s
}

// Verify checks a device identifier against the list. Unknown devices are
// registered while capacity remains; once the list is full they are refused.
// Returns whether the device is authorized and whether it was newly added.
func (s *Store) Verify(id string) (authorized, added bool) {
	hash := xxhash.Sum64String(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hashes[hash]; ok {
		return true, false
	}

	if len(s.ids) >= s.max {
		return false, false
	}

	s.ids = append(s.ids, id)
	s.hashes[hash] = struct{}{}
	s.persistLocked()

	return true, true
}

// Count returns the number of registered devices.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.ids)
}

// persistLocked rewrites the JSON file wholesale. Write failures are logged
// and swallowed: the in-memory list stays authoritative for this process.
func (s *Store) persistLocked() {
	data, err := json.Marshal(fileFormat{Hwids: s.ids})
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode allow-list")
		return
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("Failed to persist allow-list")
	}
}

// Redact returns a short stable hash of a device identifier for log lines,
// so raw hardware ids never reach the logs.
func Redact(id string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(id))
}
