// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/moodcart/internal/cache"
)

// isolate runs the test in an empty directory with no config file.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{ConfigPathEnvVar, "ENVIRONMENT", "CORS_ORIGINS", "NATS_URL", "GOOGLE_API_KEY", "GOOGLE_SEARCH_ENGINE_ID"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 5525 {
		t.Errorf("Server.Port = %d, want 5525", cfg.Server.Port)
	}
	if cfg.Engine.Fusion.Threshold != 0.0001 {
		t.Errorf("Engine.Fusion.Threshold = %v, want 0.0001", cfg.Engine.Fusion.Threshold)
	}
	if cfg.Engine.Limits.DefaultN != 10 || cfg.Engine.Fusion.InitialCap != 6 {
		t.Errorf("Engine limits = %+v, fusion = %+v", cfg.Engine.Limits, cfg.Engine.Fusion)
	}
	if !cfg.Collaborative.FilterPurchased {
		t.Error("Collaborative.FilterPurchased should be true by default")
	}
	if cfg.Cache.Backend != cache.BackendMemory {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Events.NATSURL != "" || !cfg.Events.EmbeddedServer {
		t.Errorf("Events = %+v, want the embedded server by default", cfg.Events)
	}
	if cfg.Artifacts.Moods != "mood_categorized_aisles.csv" {
		t.Errorf("Artifacts.Moods = %q", cfg.Artifacts.Moods)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults fail validation: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"GOOGLE_API_KEY", "enrichment.api_key"},
		{"INITIAL_CAP", "engine.fusion.initial_cap"},
		{"NATS_URL", "events.nats_url"},
		{"NATS_EMBEDDED", "events.embedded_server"},
		{"NATS_STORE_DIR", "events.store_dir"},
		{"REDIS_ADDR", "cache.redis_addr"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(cfg.Engine, defaultConfig().Engine) {
		t.Errorf("Engine = %+v, want defaults", cfg.Engine)
	}
	if cfg.Breakers.Enrichment.Timeout != time.Minute {
		t.Errorf("Breakers.Enrichment.Timeout = %v, want 1m", cfg.Breakers.Enrichment.Timeout)
	}
}

func TestLoad_EnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("INITIAL_CAP", "0")
	t.Setenv("CANDIDATE_TIMEOUT", "2s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Engine.Fusion.InitialCap != 0 {
		t.Errorf("InitialCap = %d, want 0", cfg.Engine.Fusion.InitialCap)
	}
	if cfg.Engine.Limits.CandidateTimeout != 2*time.Second {
		t.Errorf("CandidateTimeout = %v, want 2s", cfg.Engine.Limits.CandidateTimeout)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}

	// Unset values keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Engine.Fusion.MoodLimit != 3 {
		t.Errorf("MoodLimit = %d, want 3 (default)", cfg.Engine.Fusion.MoodLimit)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "moodcart.yaml")
	content := `
server:
  port: 7000
artifacts:
  dir: /srv/data
engine:
  fusion:
    expiration_window_days: 30
events:
  nats_url: nats://nats:4222
  jetstream: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("Server.Port = %d, want env override 7100", cfg.Server.Port)
	}
	if cfg.Artifacts.Dir != "/srv/data" || cfg.Artifacts.Products != "products.csv" {
		t.Errorf("Artifacts = %+v", cfg.Artifacts)
	}
	if cfg.Engine.Fusion.ExpirationWindowDays != 30 {
		t.Errorf("ExpirationWindowDays = %d, want 30", cfg.Engine.Fusion.ExpirationWindowDays)
	}
	if !cfg.Events.JetStream || cfg.Events.NATSURL != "nats://nats:4222" {
		t.Errorf("Events = %+v", cfg.Events)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"bad environment", func(c *Config) { c.Server.Environment = "prod" }, "ENVIRONMENT"},
		{"wildcard cors in production", func(c *Config) { c.Server.Environment = "production" }, "CORS_ORIGINS"},
		{"rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled", func(c *Config) { c.Security.RateLimitReqs = 0; c.Security.RateLimitDisabled = true }, ""},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"engine", func(c *Config) { c.Engine.Fusion.Threshold = 0 }, "engine"},
		{"api key without engine id", func(c *Config) { c.Enrichment.APIKey = "k" }, "GOOGLE_SEARCH_ENGINE_ID"},
		{"discount", func(c *Config) { c.Enrichment.DiscountRate = 1 }, "DISCOUNT_RATE"},
		{"endpoint", func(c *Config) { c.Enrichment.Endpoint = "ftp://x" }, "SEARCH_ENDPOINT"},
		{"cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "CACHE_BACKEND"},
		{"badger path", func(c *Config) { c.Cache.Backend = cache.BackendBadger; c.Cache.BadgerPath = "" }, "CACHE_BADGER_PATH"},
		{"breaker", func(c *Config) { c.Breakers.Collaborative.FailureRatio = 0 }, "breakers.collaborative"},
		{"nats url", func(c *Config) { c.Events.NATSURL = "http://nats" }, "NATS_URL"},
		{"events disabled skip checks", func(c *Config) { c.Events.Enabled = false; c.Events.QueueSize = 0 }, ""},
		{"embedded port", func(c *Config) { c.Events.ServerPort = 70000 }, "NATS_PORT"},
		{"embedded random port", func(c *Config) { c.Events.ServerPort = -1 }, ""},
		{"dotted stream", func(c *Config) { c.Events.Stream = "moodcart.events" }, "EVENTS_STREAM"},
		{"log-only transport", func(c *Config) { c.Events.EmbeddedServer = false; c.Events.Stream = "" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerConfig_Addr(t *testing.T) {
	s := ServerConfig{Host: "0.0.0.0", Port: 5525}
	if got := s.Addr(); got != "0.0.0.0:5525" {
		t.Errorf("Addr() = %q", got)
	}
}
