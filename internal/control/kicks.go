package control

import (
	"sync"
	"time"
)

// KickSet tracks users under an active kick directive. Membership expires
// on its own after the configured delay; the removal runs as a detached
// timer and is never awaited by the request that issued the kick.
type KickSet struct {
	mu     sync.Mutex
	kicked map[string]struct{}
	delay  time.Duration
}

// NewKickSet creates a kick set whose entries expire after delay.
func NewKickSet(delay time.Duration) *KickSet {
	return &KickSet{
		kicked: make(map[string]struct{}),
		delay:  delay,
	}
}

// Add puts the user under a kick directive and schedules its expiry.
func (k *KickSet) Add(userID string) {
	k.mu.Lock()
	k.kicked[userID] = struct{}{}
	k.mu.Unlock()

	time.AfterFunc(k.delay, func() {
		k.mu.Lock()
		delete(k.kicked, userID)
		k.mu.Unlock()
	})
}

// Has reports whether the user is currently under a kick directive.
func (k *KickSet) Has(userID string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	_, ok := k.kicked[userID]
	return ok
}
