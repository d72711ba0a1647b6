// Package server implements the HTTP server, middleware, and request handlers for the application.
package server

import (
	"net/http"

	"github.com/hexveil/brainrelay/internal/archive"
	"github.com/hexveil/brainrelay/internal/config"
	"github.com/hexveil/brainrelay/internal/control"
	"github.com/hexveil/brainrelay/internal/hwid"
	"github.com/hexveil/brainrelay/internal/models"
	"github.com/hexveil/brainrelay/internal/registry"
	"github.com/hexveil/brainrelay/internal/userstate"
	"github.com/rs/zerolog/log"
)

// New creates a Server instance around the given registry, device allow-list
// and optional sighting archive, building the user-state containers itself.
func New(reg *registry.Registry, devices *hwid.Store, arch *archive.Repository, cfg *config.Config) *Server {
	settings := userstate.NewSettingsStore()
	activity := userstate.NewActivityTracker(cfg.Users.ConnectedWindow, settings)
	ctl := control.NewState(cfg.Users.BroadcastKeep)
	kicks := control.NewKickSet(cfg.Users.KickDelay)

	return &Server{
		registry: reg,
		settings: settings,
		activity: activity,
		control:  ctl,
		kicks:    kicks,
		outbox:   control.NewOutbox(ctl, kicks, settings, activity),
		devices:  devices,
		archive:  arch,

		maxBody:        cfg.Server.MaxBodySize,
		trustProxy:     cfg.Server.TrustProxy,
		hardLimitCount: cfg.RateLimit.Count,
		hardLimitWin:   cfg.RateLimit.Window,

		queue:    make(chan models.Brainrot, 1000),
		shutdown: make(chan struct{}),
	}
}

// StartWorkers launches the background pool that drains accepted reports
// into the sighting archive. A no-op when archiving is disabled.
func (s *Server) StartWorkers() {
	if s.archive == nil {
		return
	}

	const workers = 4
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
}

// StopWorkers gracefully stops the background workers and closes the job queue.
func (s *Server) StopWorkers() {
	if s.archive == nil {
		return
	}

	close(s.shutdown)
	close(s.queue)
	s.wg.Wait()
}

// worker drains the archive queue.
func (s *Server) worker() {
	defer s.wg.Done()

	for b := range s.queue {
		if err := s.archive.InsertSighting(b); err != nil {
			log.Error().Err(err).Str("job_id", b.JobID).Msg("Failed to archive sighting")
		}
	}
}

// enqueueArchive hands an accepted report to the archive workers without
// ever blocking the request; overflow is logged and dropped.
func (s *Server) enqueueArchive(b models.Brainrot) {
	if s.archive == nil {
		return
	}

	select {
	case s.queue <- b:
	default:
		log.Warn().Str("job_id", b.JobID).Msg("Archive queue full, sighting dropped")
	}
}

// Run configures the HTTP routes and returns the main handler.
func (s *Server) Run() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /api/status", http.HandlerFunc(s.handleStatus))
	mux.Handle("GET /api/brainrots", http.HandlerFunc(s.handleList))
	mux.Handle("POST /api/brainrots", s.RateLimitMiddleware(http.HandlerFunc(s.handleReport)))
	mux.Handle("DELETE /api/brainrots", http.HandlerFunc(s.handleClear))
	mux.Handle("DELETE /api/brainrots/{jobId}", http.HandlerFunc(s.handleDeleteJob))

	mux.Handle("GET /api/settings/{userId}", http.HandlerFunc(s.handleGetSettings))
	mux.Handle("POST /api/settings/{userId}", http.HandlerFunc(s.handleSaveSettings))
	mux.Handle("GET /api/client/commands/{userId}", http.HandlerFunc(s.handleCommands))
	mux.Handle("POST /api/verify-hwid", http.HandlerFunc(s.handleVerifyHwid))

	mux.Handle("GET /api/control/stats", http.HandlerFunc(s.handleControlStats))
	mux.Handle("GET /api/control/settings", http.HandlerFunc(s.handleControlSettings))
	mux.Handle("POST /api/control/settings/global-filter", http.HandlerFunc(s.handleGlobalFilter))
	mux.Handle("POST /api/control/settings/global-autojoin", http.HandlerFunc(s.handleGlobalAutojoin))
	mux.Handle("POST /api/control/settings/maintenance", http.HandlerFunc(s.handleMaintenance))
	mux.Handle("POST /api/control/broadcast", http.HandlerFunc(s.handleBroadcast))
	mux.Handle("POST /api/control/broadcast/command", http.HandlerFunc(s.handleBroadcastCommand))
	mux.Handle("GET /api/control/users", http.HandlerFunc(s.handleControlUsers))
	mux.Handle("POST /api/control/user/{userId}/filter", http.HandlerFunc(s.handleUserFilter))
	mux.Handle("POST /api/control/user/{userId}/kick", http.HandlerFunc(s.handleUserKick))

	mux.Handle("GET /dashboard", http.HandlerFunc(s.handleDashboard))
	mux.Handle("GET /", http.HandlerFunc(s.handleIndex))

	return s.LoggingMiddleware(mux)
}
