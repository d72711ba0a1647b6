package server

import (
	"encoding/json"
	"net/http"

	"github.com/hexveil/brainrelay/internal/models"
	"github.com/rs/zerolog/log"
)

// handleControlStats aggregates connected-user, autojoin and record counts
// for the admin panel. Archive totals are included when archiving is enabled.
func (s *Server) handleControlStats(w http.ResponseWriter, _ *http.Request) {
	connected, autojoin := s.activity.Stats()

	resp := map[string]any{
		"connected_users":  connected,
		"active_autojoins": autojoin,
		"total_brainrots":  s.registry.Len(),
	}

	if s.archive != nil {
		if count, err := s.archive.CountSightings(); err != nil {
			log.Error().Err(err).Msg("Failed to count archived sightings")
		} else {
			resp["total_sightings"] = count
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleControlSettings returns the process-wide toggles.
func (s *Server) handleControlSettings(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.control.Snapshot())
}

// handleGlobalFilter updates the global filter threshold and propagates it to
// every user that already carries a minMoneyFilter key.
func (s *Server) handleGlobalFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value *float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		respondError(w, http.StatusBadRequest, "missing value")
		return
	}

	s.control.SetGlobalFilter(*req.Value)
	updated := s.settings.ApplyGlobalFilter(*req.Value)

	log.Info().Float64("value", *req.Value).Int("users_updated", updated).Msg("Global filter changed")

	respondJSON(w, http.StatusOK, map[string]any{
		"status": "updated",
		"value":  *req.Value,
	})
}

// handleGlobalAutojoin updates the global autojoin flag and propagates it to
// every stored user, creating the key where absent.
func (s *Server) handleGlobalAutojoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		respondError(w, http.StatusBadRequest, "missing enabled")
		return
	}

	s.control.SetGlobalAutojoin(*req.Enabled)
	updated := s.settings.ApplyGlobalAutojoin(*req.Enabled)

	log.Info().Bool("enabled", *req.Enabled).Int("users_updated", updated).Msg("Global autojoin changed")

	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "updated",
		"enabled": *req.Enabled,
	})
}

// handleMaintenance toggles maintenance mode.
func (s *Server) handleMaintenance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		respondError(w, http.StatusBadRequest, "missing enabled")
		return
	}

	s.control.SetMaintenance(*req.Enabled)

	log.Info().Bool("enabled", *req.Enabled).Msg("Maintenance mode changed")

	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "updated",
		"enabled": *req.Enabled,
	})
}

// handleBroadcast appends a message to the broadcast log.
func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message *string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == nil {
		respondError(w, http.StatusBadRequest, "missing message")
		return
	}

	msg := s.control.Broadcast(*req.Message)

	log.Info().Str("message", msg.Text).Msg("Broadcast queued")

	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"message": msg.Text,
	})
}

// handleBroadcastCommand applies a pause or resume directive to every stored user.
func (s *Server) handleBroadcastCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Command *string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Command == nil {
		respondError(w, http.StatusBadRequest, "missing command")
		return
	}

	var paused bool
	switch *req.Command {
	case "pause":
		paused = true
	case "resume":
		paused = false
	default:
		respondError(w, http.StatusBadRequest, "unknown command")
		return
	}

	updated := s.settings.ApplyAll(models.KeyPaused, paused)

	log.Info().Str("command", *req.Command).Int("users_updated", updated).Msg("Broadcast command applied")

	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"command": *req.Command,
	})
}

// handleControlUsers lists recently active users with their settings snapshots.
func (s *Server) handleControlUsers(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"users": s.activity.Connected(),
	})
}

// handleUserFilter sets one user's money filter, creating their entry if absent.
func (s *Server) handleUserFilter(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	var req struct {
		Value *float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		respondError(w, http.StatusBadRequest, "missing value")
		return
	}

	s.settings.SetField(userID, models.KeyMinMoneyFilter, *req.Value)

	log.Info().Str("user_id", userID).Float64("value", *req.Value).Msg("User filter changed")

	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "updated",
		"user_id": userID,
		"value":   *req.Value,
	})
}

// handleUserKick forcibly disconnects a user: their activity and settings are
// dropped and a kick directive is queued for their next poll. The directive
// expires on its own; this request never waits for that.
func (s *Server) handleUserKick(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	s.activity.Remove(userID)
	s.settings.Remove(userID)
	s.kicks.Add(userID)

	log.Info().Str("user_id", userID).Msg("User kicked")

	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "kicked",
		"user_id": userID,
	})
}
