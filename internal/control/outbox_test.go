package control

import (
	"testing"
	"time"

	"github.com/hexveil/brainrelay/internal/models"
	"github.com/hexveil/brainrelay/internal/userstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOutboxFixture() (*Outbox, *State, *KickSet, *userstate.SettingsStore, *userstate.ActivityTracker) {
	state := NewState(10)
	kicks := NewKickSet(time.Minute)
	settings := userstate.NewSettingsStore()
	activity := userstate.NewActivityTracker(24*time.Hour, settings)

	return NewOutbox(state, kicks, settings, activity), state, kicks, settings, activity
}

func TestEmptyOutbox(t *testing.T) {
	o, _, _, _, _ := newOutboxFixture()

	cmds := o.Commands("u1")
	require.NotNil(t, cmds)
	assert.Empty(t, cmds)
}

func TestOutboxTouchesActivity(t *testing.T) {
	o, _, _, _, activity := newOutboxFixture()

	o.Commands("u1")
	assert.True(t, activity.IsConnected("u1"))
}

func TestKickShortCircuitsEverything(t *testing.T) {
	o, state, kicks, settings, _ := newOutboxFixture()

	state.SetMaintenance(true)
	state.Broadcast("server restart soon")
	settings.Set("u1", map[string]any{"autoJoinEnabled": true})
	kicks.Add("u1")

	cmds := o.Commands("u1")
	require.Len(t, cmds, 1)
	assert.Equal(t, models.CommandKick, cmds[0].Type)
}

func TestOutboxOrdering(t *testing.T) {
	o, state, _, settings, _ := newOutboxFixture()

	state.SetMaintenance(true)
	state.Broadcast("first")
	state.Broadcast("second")
	settings.Set("u1", map[string]any{"minMoneyFilter": 100.0})

	cmds := o.Commands("u1")
	require.Len(t, cmds, 4)
	assert.Equal(t, models.CommandMaintenance, cmds[0].Type)
	assert.Equal(t, models.CommandBroadcast, cmds[1].Type)
	assert.Equal(t, "first", cmds[1].Message)
	assert.Equal(t, "second", cmds[2].Message)
	assert.Equal(t, models.CommandSettings, cmds[3].Type)
	assert.Equal(t, 100.0, cmds[3].Settings["minMoneyFilter"])
}

func TestOutboxSkipsSettingsForUnknownUser(t *testing.T) {
	o, state, _, _, _ := newOutboxFixture()

	state.Broadcast("hello")

	cmds := o.Commands("stranger")
	require.Len(t, cmds, 1)
	assert.Equal(t, models.CommandBroadcast, cmds[0].Type)
}

func TestOutboxAfterKickExpiry(t *testing.T) {
	state := NewState(10)
	kicks := NewKickSet(20 * time.Millisecond)
	settings := userstate.NewSettingsStore()
	activity := userstate.NewActivityTracker(24*time.Hour, settings)
	o := NewOutbox(state, kicks, settings, activity)

	kicks.Add("u1")
	cmds := o.Commands("u1")
	require.Len(t, cmds, 1)
	require.Equal(t, models.CommandKick, cmds[0].Type)

	assert.Eventually(t, func() bool {
		return len(o.Commands("u1")) == 0
	}, time.Second, 5*time.Millisecond)
}
