// Package config handles the parsing and validation of application configuration
// from command-line arguments and environment variables.
package config

import (
	"os"
	"time"

	"github.com/hexveil/brainrelay/internal/logger"
	"github.com/hexveil/brainrelay/internal/vars"
	"github.com/jessevdk/go-flags"
)

// Config represents the complete application flags configuration.
type Config struct {
	// betteralign:ignore

	Server    Server        `group:"Server Options" env-namespace:"RELAY"`
	Registry  Registry      `group:"Registry Options" namespace:"registry" env-namespace:"RELAY_REGISTRY"`
	Users     Users         `group:"User Tracking Options" namespace:"users" env-namespace:"RELAY_USERS"`
	Auth      Auth          `group:"Device Allow-List Options" namespace:"auth" env-namespace:"RELAY_AUTH"`
	Archive   Archive       `group:"Archive Options" namespace:"archive" env-namespace:"RELAY_ARCHIVE"`
	RateLimit RateLimit     `group:"Rate Limit Options" namespace:"rate-limit" env-namespace:"RELAY_RATE_LIMIT"`
	Logger    logger.Config `group:"Logger Options" namespace:"log" env-namespace:"RELAY_LOG"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`
}

// Server holds web server configuration.
type Server struct {
	// betteralign:ignore

	Address     string `short:"l" long:"address" env:"LISTEN_ADDRESS" description:"Server listen address" default:":8080"`
	MaxBodySize int64  `long:"max-body-size" env:"MAX_BODY_SIZE" description:"Max body size for incoming requests" default:"65536"`
	TrustProxy  bool   `long:"trust-proxy" env:"TRUST_PROXY" description:"Trust X-Forwarded-For headers"`
}

// Registry holds brainrot registry configuration.
type Registry struct {
	// betteralign:ignore

	MaxRecords    int           `long:"max-records" env:"MAX_RECORDS" description:"Registry capacity before lowest-value eviction" default:"100"`
	Expiration    time.Duration `long:"expiration" env:"EXPIRATION" description:"Record lifetime before lazy expiry" default:"40s"`
	GenerateCount int           `long:"gen-fake-data" hidden:"true"`
}

// Users holds activity tracking and command delivery configuration.
type Users struct {
	// betteralign:ignore

	ConnectedWindow time.Duration `long:"connected-window" env:"CONNECTED_WINDOW" description:"Inactivity window after which a user no longer counts as connected" default:"24h"`
	KickDelay       time.Duration `long:"kick-delay" env:"KICK_DELAY" description:"How long a kick directive stays active" default:"30s"`
	BroadcastKeep   int           `long:"broadcast-keep" env:"BROADCAST_KEEP" description:"How many broadcast messages to keep" default:"10"`
}

// Auth holds device allow-list configuration.
type Auth struct {
	// betteralign:ignore

	HwidFile   string `long:"hwid-file" env:"HWID_FILE" description:"Path to the device allow-list JSON file" default:"hwids.json"`
	MaxDevices int    `long:"max-devices" env:"MAX_DEVICES" description:"Maximum number of registered devices" default:"2"`
}

// Archive holds sighting archive configuration.
type Archive struct {
	// betteralign:ignore

	Path string `short:"d" long:"db-path" env:"DB_PATH" description:"Path to SQLite sighting archive (empty disables archiving)"`
}

// RateLimit holds API rate limiting configuration.
type RateLimit struct {
	// betteralign:ignore

	Count  int           `long:"count" env:"COUNT" description:"Hard IP limit: requests count" default:"120"`
	Window time.Duration `long:"window" env:"WINDOW" description:"Hard IP limit: window duration" default:"1m"`
}

// Parse reads the configuration from flags and environment variables.
// It terminates the application if the configuration is invalid or if the help flag is invoked.
func Parse() *Config {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}

	if cfg.Version {
		vars.Print()
		os.Exit(0)
	}

	return &cfg
}
