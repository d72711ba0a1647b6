package server

import (
	"encoding/json"
	"net/http"

	"github.com/hexveil/brainrelay/internal/hwid"
	"github.com/rs/zerolog/log"
)

// handleGetSettings returns the user's stored blob, empty when none exists.
// Reading settings counts as activity.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	s.activity.Touch(userID)

	respondJSON(w, http.StatusOK, map[string]any{
		"settings": s.settings.Get(userID),
	})
}

// handleSaveSettings replaces the user's blob wholesale.
// The activity snapshot is refreshed after the save so it sees the new blob.
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var blob map[string]any
	if err := json.NewDecoder(r.Body).Decode(&blob); err != nil || len(blob) == 0 {
		respondError(w, http.StatusBadRequest, "no data")
		return
	}

	s.settings.Set(userID, blob)
	s.activity.Touch(userID)

	log.Debug().Str("user_id", userID).Int("keys", len(blob)).Msg("Settings saved")

	respondJSON(w, http.StatusOK, map[string]any{"settings": blob})
}

// handleCommands assembles and returns the pending command list for one poll cycle.
func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	respondJSON(w, http.StatusOK, map[string]any{
		"commands": s.outbox.Commands(userID),
	})
}

// handleVerifyHwid checks a device identifier against the allow-list,
// registering it while capacity remains. Raw ids never reach the logs.
func (s *Server) handleVerifyHwid(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var req struct {
		Hwid *string `json:"hwid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Hwid == nil {
		respondError(w, http.StatusBadRequest, "missing hwid")
		return
	}

	authorized, added := s.devices.Verify(*req.Hwid)

	if !authorized {
		log.Warn().Str("device", hwid.Redact(*req.Hwid)).Msg("Device refused, allow-list full")

		respondJSON(w, http.StatusForbidden, map[string]any{
			"authorized": false,
			"message":    "device limit reached",
		})
		return
	}

	message := "device recognized"
	if added {
		message = "device registered"
		log.Info().Str("device", hwid.Redact(*req.Hwid)).Int("devices", s.devices.Count()).Msg("Device registered")
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"authorized": true,
		"message":    message,
	})
}
