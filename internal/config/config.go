// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package config

import (
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/moodcart/internal/breaker"
	"github.com/tomtom215/moodcart/internal/cache"
	"github.com/tomtom215/moodcart/internal/database"
	"github.com/tomtom215/moodcart/internal/enrich"
	"github.com/tomtom215/moodcart/internal/events"
	"github.com/tomtom215/moodcart/internal/recommend"
)

// Config holds all service configuration.
type Config struct {
	Server        ServerConfig           `koanf:"server"`
	Security      SecurityConfig         `koanf:"security"`
	Logging       LoggingConfig          `koanf:"logging"`
	Database      database.Config        `koanf:"database"`
	Artifacts     database.ArtifactPaths `koanf:"artifacts"`
	Engine        recommend.Config       `koanf:"engine"`
	Collaborative CollaborativeConfig    `koanf:"collaborative"`
	Enrichment    enrich.Config          `koanf:"enrichment"`
	Cache         cache.Config           `koanf:"cache"`
	Breakers      BreakersConfig         `koanf:"breakers"`
	Events        events.Config          `koanf:"events"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Environment is development or production. Production rejects a
	// wildcard CORS origin.
	Environment string `koanf:"environment"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// CollaborativeConfig controls the collaborative candidate source.
type CollaborativeConfig struct {
	// FilterPurchased drops products the user already bought from the
	// candidate list. Default: true
	FilterPurchased bool `koanf:"filter_purchased"`
}

// BreakersConfig holds one circuit breaker per outbound dependency.
type BreakersConfig struct {
	Collaborative breaker.Config `koanf:"collaborative"`
	Enrichment    breaker.Config `koanf:"enrichment"`
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// IsProduction reports whether the service runs in production mode.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
