// Package models defines the data structures shared between the API surface and the state containers.
package models

import "time"

// DefaultPlayerCount is used when a report omits the playerCount field.
const DefaultPlayerCount = "?/8"

// Brainrot represents a reported game-instance sighting held by the registry.
// A record is identified by the (JobID, Name) pair.
type Brainrot struct {
	Name         string  `json:"name"`
	DisplayValue string  `json:"displayValue"`
	JobID        string  `json:"jobId"`
	Value        float64 `json:"value"`
	PlayerCount  string  `json:"playerCount"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	Timestamp    float64 `json:"timestamp"`
}

// ReportRequest is the payload sent by game clients when reporting a sighting.
// Required fields are pointers so a missing key can be told apart from a zero value.
type ReportRequest struct {
	Name         *string  `json:"name"`
	DisplayValue *string  `json:"displayValue"`
	JobID        *string  `json:"jobId"`
	Value        *float64 `json:"value"`
	PlayerCount  string   `json:"playerCount"`
	ImageURL     string   `json:"imageUrl"`
}

// Command is a single instruction delivered to an automation client via polling.
type Command struct {
	Type     string         `json:"type"`
	Message  string         `json:"message,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Command types understood by the automation clients.
const (
	CommandKick        = "kick"
	CommandMaintenance = "maintenance"
	CommandBroadcast   = "broadcast"
	CommandSettings    = "settings"
)

// BroadcastMessage is one entry of the bounded broadcast log.
type BroadcastMessage struct {
	Text      string  `json:"text"`
	Timestamp float64 `json:"timestamp"`
}

// ConnectedUser is the control-panel view of a recently active user.
type ConnectedUser struct {
	UserID   string         `json:"user_id"`
	LastSeen float64        `json:"last_seen"`
	Settings map[string]any `json:"settings"`
}

// Settings keys the server knows about and mutates itself.
// Everything else in a settings blob is opaque client state.
const (
	KeyMinMoneyFilter  = "minMoneyFilter"
	KeyAutoJoinEnabled = "autoJoinEnabled"
	KeyPaused          = "paused"
)

// UnixSeconds converts a time to float seconds since epoch,
// the timestamp representation used on the wire.
func UnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
