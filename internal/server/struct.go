package server

import (
	"sync"
	"time"

	"github.com/hexveil/brainrelay/internal/archive"
	"github.com/hexveil/brainrelay/internal/control"
	"github.com/hexveil/brainrelay/internal/hwid"
	"github.com/hexveil/brainrelay/internal/models"
	"github.com/hexveil/brainrelay/internal/registry"
	"github.com/hexveil/brainrelay/internal/userstate"
)

// Server holds the state containers, configuration and runtime plumbing
// required to handle HTTP requests and background archiving.
// Each container guards itself; handlers acquire their locks one at a time.
type Server struct {
	// registry is the shared, capacity-bounded list of live brainrot sightings.
	registry *registry.Registry

	// settings maps user ids to their opaque configuration blobs.
	settings *userstate.SettingsStore

	// activity records last-seen times and settings snapshots per user.
	activity *userstate.ActivityTracker

	// control holds the global toggles and the broadcast log.
	control *control.State

	// kicks tracks users under an active, auto-expiring kick directive.
	kicks *control.KickSet

	// outbox assembles the per-poll command list for automation clients.
	outbox *control.Outbox

	// devices is the persisted, capacity-bounded hardware-id allow-list.
	devices *hwid.Store

	// archive is the optional SQLite sighting archive. Nil disables archiving.
	archive *archive.Repository

	// queue passes accepted reports from the handler to the archive workers
	// so the report path never blocks on disk I/O.
	queue chan models.Brainrot

	// shutdown broadcasts a stop signal to background workers.
	shutdown chan struct{}

	// wg waits for archive workers to drain the queue before shutdown completes.
	wg sync.WaitGroup

	// maxBody caps incoming request body sizes.
	maxBody int64

	// trustProxy enables X-Forwarded-For / X-Real-IP resolution.
	trustProxy bool

	// hardLimitCount and hardLimitWin shape the per-IP rate limit
	// applied to the report endpoint.
	hardLimitCount int
	hardLimitWin   time.Duration
}
