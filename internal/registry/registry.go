// Package registry implements the shared in-memory list of reported brainrot sightings.
// The registry is capacity bounded, deduplicated by (jobId, name) and lazily expiring:
// stale records are purged as a side effect of every access, there is no background sweep.
package registry

import (
	"sync"
	"time"

	"github.com/hexveil/brainrelay/internal/models"
)

// Registry owns the live set of brainrot records.
// All access goes through its mutex; records are kept in insertion order
// so value ties resolve deterministically.
type Registry struct {
	mu         sync.Mutex
	records    []models.Brainrot
	max        int
	expiration time.Duration

	// now is swappable in tests
	now func() time.Time
}

// New creates a registry bounded to max records with the given record lifetime.
func New(max int, expiration time.Duration) *Registry {
	return &Registry{
		max:        max,
		expiration: expiration,
		now:        time.Now,
	}
}

// Upsert inserts a new record or replaces the one with the same (jobId, name) in place.
// The stored record gets a fresh timestamp and a default player count when missing.
// When an insert would exceed capacity, the single lowest-value record is evicted;
// among equal values the earliest-inserted one goes.
// Returns the stored record and whether an existing one was replaced.
func (r *Registry) Upsert(b models.Brainrot) (models.Brainrot, bool) {
	if b.PlayerCount == "" {
		b.PlayerCount = models.DefaultPlayerCount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.purgeLocked(now)
	b.Timestamp = models.UnixSeconds(now)

	for i, existing := range r.records {
		if existing.JobID == b.JobID && existing.Name == b.Name {
			r.records[i] = b
			return b, true
		}
	}

	if len(r.records) >= r.max {
		r.evictLowestLocked()
	}
	r.records = append(r.records, b)

	return b, false
}

// evictLowestLocked removes the earliest-inserted record with the minimum value.
func (r *Registry) evictLowestLocked() {
	if len(r.records) == 0 {
		return
	}

	lowest := 0
	for i, b := range r.records {
		if b.Value < r.records[lowest].Value {
			lowest = i
		}
	}

	r.records = append(r.records[:lowest], r.records[lowest+1:]...)
}

// ListSorted purges expired records and returns the survivors ordered by value
// descending. The sort is stable: equal values keep their insertion order.
func (r *Registry) ListSorted() []models.Brainrot {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeLocked(r.now())

	out := make([]models.Brainrot, len(r.records))
	copy(out, r.records)

	// insertion sort keeps the original order of equal values
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Value > out[j-1].Value; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}

	return out
}

// DeleteByJob removes every record reported for the given job id, regardless of name.
// Returns the number of removed records.
func (r *Registry) DeleteByJob(jobID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeLocked(r.now())

	kept := r.records[:0]
	for _, b := range r.records {
		if b.JobID != jobID {
			kept = append(kept, b)
		}
	}

	removed := len(r.records) - len(kept)
	r.records = kept

	return removed
}

// Clear removes all records.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = nil
}

// Len purges expired records and returns the number of survivors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeLocked(r.now())

	return len(r.records)
}

// purgeLocked drops records whose lifetime has elapsed. Callers hold the mutex.
func (r *Registry) purgeLocked(now time.Time) {
	cutoff := models.UnixSeconds(now) - r.expiration.Seconds()

	kept := r.records[:0]
	for _, b := range r.records {
		if b.Timestamp > cutoff {
			kept = append(kept, b)
		}
	}

	r.records = kept
}
