// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/tomtom215/moodcart/internal/breaker"
	"github.com/tomtom215/moodcart/internal/cache"
	"github.com/tomtom215/moodcart/internal/logging"
)

var validLogFormats = map[string]bool{"json": true, "console": true}

var validEnvironments = map[string]bool{"development": true, "staging": true, "production": true}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := validateBreaker("breakers.collaborative", &c.Breakers.Collaborative); err != nil {
		return err
	}
	if err := validateBreaker("breakers.enrichment", &c.Breakers.Enrichment); err != nil {
		return err
	}
	return c.validateEvents()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	if c.Server.IsProduction() && slices.Contains(c.Security.CORSOrigins, "*") {
		return fmt.Errorf("CORS_ORIGINS must list explicit origins in production")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	e := &c.Enrichment
	if err := validateHTTPURL(e.Endpoint, "SEARCH_ENDPOINT"); err != nil {
		return err
	}
	if e.FallbackImageURL != "" {
		if err := validateHTTPURL(e.FallbackImageURL, "FALLBACK_IMAGE_URL"); err != nil {
			return err
		}
	}
	if (e.APIKey == "") != (e.EngineID == "") {
		return fmt.Errorf("GOOGLE_API_KEY and GOOGLE_SEARCH_ENGINE_ID must be set together")
	}
	if e.DiscountRate < 0 || e.DiscountRate >= 1 {
		return fmt.Errorf("DISCOUNT_RATE must be within [0, 1), got %v", e.DiscountRate)
	}
	if e.RequestsPerSecond < 0 {
		return fmt.Errorf("SEARCH_REQUESTS_PER_SECOND must be non-negative")
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case cache.BackendMemory:
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("CACHE_MAX_ENTRIES must be positive, got %d", c.Cache.MaxEntries)
		}
	case cache.BackendBadger:
		if c.Cache.BadgerPath == "" {
			return fmt.Errorf("CACHE_BADGER_PATH is required when CACHE_BACKEND=badger")
		}
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, badger, redis")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	return nil
}

func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	if c.Events.Topic == "" {
		return fmt.Errorf("EVENTS_TOPIC is required when events are enabled")
	}
	if c.Events.QueueSize < 1 {
		return fmt.Errorf("EVENTS_QUEUE_SIZE must be positive, got %d", c.Events.QueueSize)
	}
	if c.Events.NATSURL != "" {
		if err := validateNATSURL(c.Events.NATSURL); err != nil {
			return fmt.Errorf("NATS_URL: %w", err)
		}
	} else if c.Events.EmbeddedServer {
		// -1 asks the server for a random port.
		if c.Events.ServerPort < -1 || c.Events.ServerPort > 65535 {
			return fmt.Errorf("NATS_PORT must be between -1 and 65535, got %d", c.Events.ServerPort)
		}
		if c.Events.MaxMemory < 0 || c.Events.MaxStore < 0 {
			return fmt.Errorf("NATS_MAX_MEMORY and NATS_MAX_STORE must not be negative")
		}
	}
	if c.Events.JetStream || (c.Events.NATSURL == "" && c.Events.EmbeddedServer) {
		if c.Events.Stream == "" || strings.ContainsAny(c.Events.Stream, ". *>") {
			return fmt.Errorf("EVENTS_STREAM must be a non-empty name without dots, spaces or wildcards, got %q", c.Events.Stream)
		}
		if c.Events.Retention < 0 {
			return fmt.Errorf("EVENTS_RETENTION must not be negative")
		}
	}
	return nil
}

func validateBreaker(name string, b *breaker.Config) error {
	if b.Timeout <= 0 {
		return fmt.Errorf("%s.timeout must be positive", name)
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("%s.failure_ratio must be within (0, 1], got %v", name, b.FailureRatio)
	}
	return nil
}

// validateHTTPURL checks for an http or https URL with a host.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	return nil
}

// validateNATSURL validates that the NATS URL is properly formatted
func validateNATSURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	validSchemes := map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}
	if !validSchemes[parsedURL.Scheme] {
		return fmt.Errorf("scheme must be nats, tls, ws, or wss, got: %s", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:4222, nats.example.com)")
	}
	return nil
}
