// Package config loads deployment configuration from the environment, with a
// .env file honored for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendEmbedded = "embedded"
	BackendRemote   = "remote"
)

// Config is everything the process needs from its environment.
type Config struct {
	// StoreBackend selects the persistence adapter: embedded or remote.
	StoreBackend string

	// DatabaseURL is the Postgres DSN; required when StoreBackend is remote.
	DatabaseURL string

	// SessionFile is the path of the cached-session slot.
	SessionFile string

	// Port is the HTTP listen port.
	Port string

	// StoreOpTimeout bounds each remote storage operation.
	StoreOpTimeout time.Duration
}

// LoadFromEnv reads configuration, applying defaults that make the embedded
// backend work with zero setup. A .env file in the working directory is
// loaded first; real environment variables win over it.
func LoadFromEnv() (Config, error) {
	// godotenv.Load never overrides variables already set in the environment.
	_ = godotenv.Load()

	cfg := Config{
		StoreBackend:   getenv("STORE_BACKEND", BackendEmbedded),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SessionFile:    os.Getenv("SESSION_FILE"),
		Port:           getenv("PORT", "8080"),
		StoreOpTimeout: 5 * time.Second,
	}

	switch cfg.StoreBackend {
	case BackendEmbedded, BackendRemote:
	default:
		return Config{}, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendEmbedded, BackendRemote, cfg.StoreBackend)
	}

	if cfg.StoreBackend == BackendRemote && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=%s", BackendRemote)
	}

	if cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("SESSION_FILE not set and no user config dir: %w", err)
		}
		cfg.SessionFile = filepath.Join(dir, "community-hub", "session.json")
	}

	if v := os.Getenv("STORE_OP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("STORE_OP_TIMEOUT must be a duration (e.g. 5s): %w", err)
		}
		cfg.StoreOpTimeout = d
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
