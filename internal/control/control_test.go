package control

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotReflectsSetters(t *testing.T) {
	s := NewState(10)

	s.SetGlobalFilter(250000)
	s.SetGlobalAutojoin(true)
	s.SetMaintenance(true)

	snap := s.Snapshot()
	assert.Equal(t, 250000.0, snap.GlobalFilter)
	assert.True(t, snap.GlobalAutojoin)
	assert.True(t, snap.MaintenanceMode)
	assert.True(t, s.Maintenance())

	s.SetMaintenance(false)
	assert.False(t, s.Maintenance())
}

func TestBroadcastLogDropsOldestBeyondCapacity(t *testing.T) {
	s := NewState(10)

	for i := 0; i < 13; i++ {
		s.Broadcast(fmt.Sprintf("msg-%d", i))
	}

	msgs := s.Broadcasts()
	require.Len(t, msgs, 10)
	assert.Equal(t, "msg-3", msgs[0].Text, "oldest messages are dropped first")
	assert.Equal(t, "msg-12", msgs[9].Text)
}

func TestBroadcastTimestamps(t *testing.T) {
	s := NewState(10)
	s.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	msg := s.Broadcast("hello")
	assert.Equal(t, 1_700_000_000.0, msg.Timestamp)
}

func TestKickSetMembership(t *testing.T) {
	k := NewKickSet(time.Minute)

	assert.False(t, k.Has("u1"))
	k.Add("u1")
	assert.True(t, k.Has("u1"))
	assert.False(t, k.Has("u2"))
}

func TestKickSetAutoExpires(t *testing.T) {
	k := NewKickSet(20 * time.Millisecond)

	k.Add("u1")
	require.True(t, k.Has("u1"))

	assert.Eventually(t, func() bool { return !k.Has("u1") },
		time.Second, 5*time.Millisecond)
}
