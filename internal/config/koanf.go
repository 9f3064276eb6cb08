// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/moodcart/internal/breaker"
	"github.com/tomtom215/moodcart/internal/cache"
	"github.com/tomtom215/moodcart/internal/database"
	"github.com/tomtom215/moodcart/internal/enrich"
	"github.com/tomtom215/moodcart/internal/events"
	"github.com/tomtom215/moodcart/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/moodcart/config.yaml",
	"/etc/moodcart/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default applied. Defaults load
// first, then the config file, then environment variables.
func defaultConfig() *Config {
	collaborativeBreaker := breaker.DefaultConfig()
	enrichmentBreaker := breaker.DefaultConfig()
	enrichmentBreaker.MinRequests = 5
	enrichmentBreaker.Timeout = time.Minute

	return &Config{
		Server: ServerConfig{
			Port:            5525,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Database:  database.DefaultConfig(),
		Artifacts: database.DefaultArtifactPaths(),
		Engine:    *recommend.DefaultConfig(),
		Collaborative: CollaborativeConfig{
			FilterPurchased: true,
		},
		Enrichment: enrich.DefaultConfig(),
		Cache: cache.Config{
			Backend:    cache.BackendMemory,
			TTL:        24 * time.Hour,
			MaxEntries: 10000,
			BadgerPath: "/data/cache",
			RedisAddr:  "127.0.0.1:6379",
			KeyPrefix:  "moodcart:",
		},
		Breakers: BreakersConfig{
			Collaborative: collaborativeBreaker,
			Enrichment:    enrichmentBreaker,
		},
		Events: events.DefaultConfig(),
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first config file found, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings; YAML lists are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_threads":    "database.threads",
	"duckdb_max_memory": "database.max_memory",

	// Artifacts
	"data_dir":                "artifacts.dir",
	"products_path":           "artifacts.products",
	"aisles_path":             "artifacts.aisles",
	"departments_path":        "artifacts.departments",
	"moods_path":              "artifacts.moods",
	"expirations_path":        "artifacts.expirations",
	"purchase_counts_path":    "artifacts.purchase_counts",
	"product_embeddings_path": "artifacts.product_embeddings",
	"user_embeddings_path":    "artifacts.user_embeddings",
	"user_factors_path":       "artifacts.user_factors",
	"item_factors_path":       "artifacts.item_factors",

	// Engine
	"similarity_threshold":   "engine.fusion.threshold",
	"mood_limit":             "engine.fusion.mood_limit",
	"expiration_limit":       "engine.fusion.expiration_limit",
	"expiration_window_days": "engine.fusion.expiration_window_days",
	"initial_cap":            "engine.fusion.initial_cap",
	"default_n":              "engine.limits.default_n",
	"max_n":                  "engine.limits.max_n",
	"candidate_timeout":      "engine.limits.candidate_timeout",
	"enrichment_enabled":     "engine.enrichment.enabled",
	"enrichment_concurrency": "engine.enrichment.concurrency",
	"cf_filter_purchased":    "collaborative.filter_purchased",

	// Enrichment
	"google_api_key":             "enrichment.api_key",
	"google_search_engine_id":    "enrichment.engine_id",
	"search_endpoint":            "enrichment.endpoint",
	"search_timeout":             "enrichment.timeout",
	"search_requests_per_second": "enrichment.requests_per_second",
	"search_burst":               "enrichment.burst",
	"fallback_image_url":         "enrichment.fallback_image_url",
	"price_currency":             "enrichment.currency",
	"discount_rate":              "enrichment.discount_rate",

	// Cache
	"cache_backend":     "cache.backend",
	"cache_ttl":         "cache.ttl",
	"cache_max_entries": "cache.max_entries",
	"cache_badger_path": "cache.badger_path",
	"redis_addr":        "cache.redis_addr",
	"redis_password":    "cache.redis_password",
	"redis_db":          "cache.redis_db",
	"cache_key_prefix":  "cache.key_prefix",

	// Circuit breakers
	"cf_breaker_timeout":           "breakers.collaborative.timeout",
	"cf_breaker_failure_ratio":     "breakers.collaborative.failure_ratio",
	"search_breaker_timeout":       "breakers.enrichment.timeout",
	"search_breaker_failure_ratio": "breakers.enrichment.failure_ratio",

	// Events
	"events_enabled":      "events.enabled",
	"nats_url":            "events.nats_url",
	"nats_jetstream":      "events.jetstream",
	"nats_embedded":       "events.embedded_server",
	"nats_host":           "events.server_host",
	"nats_port":           "events.server_port",
	"nats_store_dir":      "events.store_dir",
	"nats_max_memory":     "events.max_memory",
	"nats_max_store":      "events.max_store",
	"events_stream":       "events.stream",
	"events_retention":    "events.retention",
	"events_topic":        "events.topic",
	"events_queue_size":   "events.queue_size",
	"nats_max_reconnects": "events.max_reconnects",
	"nats_reconnect_wait": "events.reconnect_wait",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are skipped.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - GOOGLE_API_KEY -> enrichment.api_key
//   - NATS_URL -> events.nats_url
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
