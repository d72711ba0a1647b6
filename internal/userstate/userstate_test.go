package userstate

import (
	"testing"
	"time"

	"github.com/hexveil/brainrelay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUnknownUserReturnsEmptyMap(t *testing.T) {
	s := NewSettingsStore()

	blob := s.Get("nobody")
	require.NotNil(t, blob)
	assert.Empty(t, blob)
}

func TestSetReplacesWholesale(t *testing.T) {
	s := NewSettingsStore()

	s.Set("u1", map[string]any{"minMoneyFilter": 500.0, "theme": "dark"})
	s.Set("u1", map[string]any{"autoJoinEnabled": true})

	blob := s.Get("u1")
	assert.NotContains(t, blob, "minMoneyFilter")
	assert.NotContains(t, blob, "theme")
	assert.Equal(t, true, blob["autoJoinEnabled"])
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewSettingsStore()

	s.Set("u1", map[string]any{"minMoneyFilter": 500.0})
	blob := s.Get("u1")
	blob["minMoneyFilter"] = 1.0

	assert.Equal(t, 500.0, s.Get("u1")["minMoneyFilter"])
}

func TestSetFieldCreatesEntry(t *testing.T) {
	s := NewSettingsStore()

	s.SetField("u1", models.KeyMinMoneyFilter, 250000.0)

	assert.Equal(t, 250000.0, s.Get("u1")[models.KeyMinMoneyFilter])
}

func TestGlobalFilterOnlyTouchesExistingKeys(t *testing.T) {
	s := NewSettingsStore()

	s.Set("with", map[string]any{"minMoneyFilter": 100.0, "theme": "dark"})
	s.Set("without", map[string]any{"theme": "light"})

	updated := s.ApplyGlobalFilter(9000.0)
	assert.Equal(t, 1, updated)

	assert.Equal(t, 9000.0, s.Get("with")[models.KeyMinMoneyFilter])
	assert.Equal(t, "dark", s.Get("with")["theme"])

	without := s.Get("without")
	assert.NotContains(t, without, models.KeyMinMoneyFilter, "key must not be created by a global filter change")
	assert.Equal(t, "light", without["theme"])
}

func TestGlobalAutojoinAppliesToAllUsers(t *testing.T) {
	s := NewSettingsStore()

	s.Set("with", map[string]any{"autoJoinEnabled": false})
	s.Set("without", map[string]any{"theme": "light"})

	updated := s.ApplyGlobalAutojoin(true)
	assert.Equal(t, 2, updated)

	assert.Equal(t, true, s.Get("with")[models.KeyAutoJoinEnabled])
	assert.Equal(t, true, s.Get("without")[models.KeyAutoJoinEnabled], "key is created where absent")
}

func TestApplyAllSetsNamedField(t *testing.T) {
	s := NewSettingsStore()

	s.Set("u1", map[string]any{})
	s.Set("u2", map[string]any{"paused": false})

	updated := s.ApplyAll(models.KeyPaused, true)
	assert.Equal(t, 2, updated)
	assert.Equal(t, true, s.Get("u1")[models.KeyPaused])
	assert.Equal(t, true, s.Get("u2")[models.KeyPaused])
}

func TestTouchCreatesRecordAndSnapshotsSettings(t *testing.T) {
	s := NewSettingsStore()
	tr := NewActivityTracker(24*time.Hour, s)

	s.Set("u1", map[string]any{"autoJoinEnabled": true})
	tr.Touch("u1")

	assert.True(t, tr.IsConnected("u1"))

	connected, autojoin := tr.Stats()
	assert.Equal(t, 1, connected)
	assert.Equal(t, 1, autojoin)
}

func TestSnapshotDoesNotAliasStore(t *testing.T) {
	s := NewSettingsStore()
	tr := NewActivityTracker(24*time.Hour, s)

	s.Set("u1", map[string]any{"autoJoinEnabled": true})
	tr.Touch("u1")

	// A later settings change must not alter the already-taken snapshot.
	s.Set("u1", map[string]any{"autoJoinEnabled": false})

	_, autojoin := tr.Stats()
	assert.Equal(t, 1, autojoin)

	tr.Touch("u1")
	_, autojoin = tr.Stats()
	assert.Equal(t, 0, autojoin, "next touch refreshes the snapshot")
}

func TestConnectedWindow(t *testing.T) {
	s := NewSettingsStore()
	tr := NewActivityTracker(24*time.Hour, s)

	current := time.Unix(1_700_000_000, 0)
	tr.now = func() time.Time { return current }

	tr.Touch("u1")
	assert.True(t, tr.IsConnected("u1"))

	current = current.Add(24*time.Hour - time.Second)
	assert.True(t, tr.IsConnected("u1"))

	current = current.Add(2 * time.Second)
	assert.False(t, tr.IsConnected("u1"))

	connected, _ := tr.Stats()
	assert.Equal(t, 0, connected)
	assert.Empty(t, tr.Connected())
}

func TestRemoveDeletesRecord(t *testing.T) {
	s := NewSettingsStore()
	tr := NewActivityTracker(24*time.Hour, s)

	tr.Touch("u1")
	tr.Remove("u1")

	assert.False(t, tr.IsConnected("u1"))
}

func TestConnectedListsSnapshots(t *testing.T) {
	s := NewSettingsStore()
	tr := NewActivityTracker(24*time.Hour, s)

	s.Set("u1", map[string]any{"minMoneyFilter": 100.0})
	tr.Touch("u1")
	tr.Touch("u2")

	users := tr.Connected()
	require.Len(t, users, 2)

	byID := map[string]models.ConnectedUser{}
	for _, u := range users {
		byID[u.UserID] = u
	}
	assert.Equal(t, 100.0, byID["u1"].Settings["minMoneyFilter"])
	assert.Empty(t, byID["u2"].Settings)
	assert.NotZero(t, byID["u1"].LastSeen)
}
