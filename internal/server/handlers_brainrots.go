package server

import (
	"encoding/json"
	"net/http"

	"github.com/hexveil/brainrelay/internal/models"
	"github.com/rs/zerolog/log"
)

// handleList returns the live records, expired entries purged, sorted by value descending.
func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"brainrots": s.registry.ListSorted(),
	})
}

// handleReport upserts a reported sighting. Requests missing any of the
// required fields are rejected naming the first absent one.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var req models.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debug().Err(err).Str("ip", GetRealIP(r, s.trustProxy)).Msg("Invalid report payload")
		respondError(w, http.StatusBadRequest, "no data")
		return
	}

	switch {
	case req.Name == nil:
		respondError(w, http.StatusBadRequest, "missing name")
		return
	case req.DisplayValue == nil:
		respondError(w, http.StatusBadRequest, "missing displayValue")
		return
	case req.JobID == nil:
		respondError(w, http.StatusBadRequest, "missing jobId")
		return
	case req.Value == nil:
		respondError(w, http.StatusBadRequest, "missing value")
		return
	}

	stored, updated := s.registry.Upsert(models.Brainrot{
		Name:         *req.Name,
		DisplayValue: *req.DisplayValue,
		JobID:        *req.JobID,
		Value:        *req.Value,
		PlayerCount:  req.PlayerCount,
		ImageURL:     req.ImageURL,
	})

	s.enqueueArchive(stored)

	status := "added"
	if updated {
		status = "updated"
	}

	log.Debug().
		Str("name", stored.Name).
		Str("job_id", stored.JobID).
		Float64("value", stored.Value).
		Str("status", status).
		Msg("Sighting reported")

	respondJSON(w, http.StatusOK, map[string]any{
		"status":   status,
		"brainrot": stored,
	})
}

// handleClear removes every record from the registry.
func (s *Server) handleClear(w http.ResponseWriter, _ *http.Request) {
	s.registry.Clear()
	log.Info().Msg("Registry cleared")

	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// handleDeleteJob removes all records reported for one job id.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobId")
	removed := s.registry.DeleteByJob(jobID)

	log.Debug().Str("job_id", jobID).Int("removed", removed).Msg("Job records deleted")

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
