// Package config loads process-wide settings from the environment.
//
// Settings are resolved exactly once at startup and are immutable for the
// process lifetime. Every component that needs a setting receives it by
// injection — nothing reads the environment after Load returns.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Feature flag names consumed by the capability gate.
const (
	FlagAdvancedQueries = "advanced_queries"
	FlagGitOperations   = "git_operations"
	FlagAssetManagement = "asset_management"
)

// Config holds all environment-derived settings. All variables use the
// LOGSEQ_ prefix.
type Config struct {
	// API connection settings for the local Logseq HTTP server.
	APIToken      string        `env:"LOGSEQ_API_TOKEN"`
	APIURL        string        `env:"LOGSEQ_API_URL,default=http://localhost:12315"`
	APITimeout    time.Duration `env:"LOGSEQ_API_TIMEOUT,default=10s"`
	APIMaxRetries int           `env:"LOGSEQ_API_MAX_RETRIES,default=3"`

	// Feature flags. Unknown flags are always treated as disabled by the
	// capability gate, so new flags can be added here without touching
	// the gate itself.
	EnableAdvancedQueries bool `env:"LOGSEQ_ENABLE_ADVANCED_QUERIES,default=true"`
	EnableGitOperations   bool `env:"LOGSEQ_ENABLE_GIT_OPERATIONS,default=false"`
	EnableAssetManagement bool `env:"LOGSEQ_ENABLE_ASSET_MANAGEMENT,default=false"`

	LogLevel string `env:"LOGSEQ_LOG_LEVEL,default=info"`
}

// Load reads settings from a .env file (if present) and the environment.
// The .env file never overrides variables already set in the environment.
func Load() (Config, error) {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding environment: %w", err)
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("LOGSEQ_API_URL must not be empty")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("LOGSEQ_API_TIMEOUT must be positive, got %s", c.APITimeout)
	}
	if c.APIMaxRetries < 0 {
		return fmt.Errorf("LOGSEQ_API_MAX_RETRIES must not be negative, got %d", c.APIMaxRetries)
	}
	return nil
}

// FeatureFlags returns the flag set consumed by the capability gate.
func (c Config) FeatureFlags() map[string]bool {
	return map[string]bool{
		FlagAdvancedQueries: c.EnableAdvancedQueries,
		FlagGitOperations:   c.EnableGitOperations,
		FlagAssetManagement: c.EnableAssetManagement,
	}
}
