// main is the entry point of the Brainrelay application.
// It initializes the configuration, logger, allow-list, optional archive,
// and starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hexveil/brainrelay/internal/archive"
	"github.com/hexveil/brainrelay/internal/config"
	"github.com/hexveil/brainrelay/internal/fake"
	"github.com/hexveil/brainrelay/internal/hwid"
	"github.com/hexveil/brainrelay/internal/logger"
	"github.com/hexveil/brainrelay/internal/registry"
	"github.com/hexveil/brainrelay/internal/server"
	"github.com/hexveil/brainrelay/internal/vars"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Parse()

	logger.Setup(cfg.Logger)
	log.Info().Str("version", vars.Version).Msg("Starting brainrelay service...")

	// Live registry (volatile by design)
	reg := registry.New(cfg.Registry.MaxRecords, cfg.Registry.Expiration)

	if cfg.Registry.GenerateCount > 0 {
		fake.GenerateData(reg, cfg.Registry.GenerateCount)
	}

	// Device allow-list; load failure is non-fatal and yields an empty list
	devices := hwid.Load(cfg.Auth.HwidFile, cfg.Auth.MaxDevices)

	// Optional sighting archive
	var arch *archive.Repository
	if cfg.Archive.Path != "" {
		var err error
		arch, err = archive.Open(cfg.Archive.Path)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open sighting archive")
		}
		log.Info().Str("path", cfg.Archive.Path).Msg("Sighting archive enabled")
	}

	// Init server
	srvHandler := server.New(reg, devices, arch, cfg)
	srvHandler.StartWorkers()

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srvHandler.Run(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Drain archive workers before closing the database
	srvHandler.StopWorkers()

	if arch != nil {
		if err := arch.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing archive")
		}
	}

	log.Info().Msg("Server exited")
}
