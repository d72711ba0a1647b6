package control

import (
	"github.com/hexveil/brainrelay/internal/models"
	"github.com/hexveil/brainrelay/internal/userstate"
)

// Outbox assembles the pending command list for one poll cycle.
// It reads each state container in turn, never holding two locks at once.
type Outbox struct {
	control  *State
	kicks    *KickSet
	settings *userstate.SettingsStore
	activity *userstate.ActivityTracker
}

// NewOutbox wires the outbox to the containers it consumes.
func NewOutbox(control *State, kicks *KickSet, settings *userstate.SettingsStore, activity *userstate.ActivityTracker) *Outbox {
	return &Outbox{
		control:  control,
		kicks:    kicks,
		settings: settings,
		activity: activity,
	}
}

// Commands builds the ordered command list for the given user.
// Activity is touched first, then commands are assembled in fixed precedence:
// an active kick short-circuits everything else so a kicked client never
// receives mixed signals in the same poll cycle; otherwise maintenance,
// the broadcast log (oldest first) and a settings push follow.
func (o *Outbox) Commands(userID string) []models.Command {
	o.activity.Touch(userID)

	if o.kicks.Has(userID) {
		return []models.Command{{Type: models.CommandKick}}
	}

	commands := []models.Command{}

	if o.control.Maintenance() {
		commands = append(commands, models.Command{Type: models.CommandMaintenance})
	}

	for _, msg := range o.control.Broadcasts() {
		commands = append(commands, models.Command{
			Type:    models.CommandBroadcast,
			Message: msg.Text,
		})
	}

	if blob := o.settings.Get(userID); len(blob) > 0 {
		commands = append(commands, models.Command{
			Type:     models.CommandSettings,
			Settings: blob,
		})
	}

	return commands
}
