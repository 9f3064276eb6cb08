// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the fusion engine.
type Config struct {
	// Fusion controls similarity filtering and group sizes.
	Fusion FusionConfig `json:"fusion" koanf:"fusion"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Enrichment controls per-row presentation lookups.
	Enrichment EnrichmentConfig `json:"enrichment" koanf:"enrichment"`
}

// FusionConfig contains the similarity and grouping parameters.
type FusionConfig struct {
	// Threshold is the largest squared Euclidean distance that counts as
	// similar. Default: 0.0001.
	Threshold float64 `json:"threshold" koanf:"threshold"`

	// MoodLimit is the size of the mood-related group. Default: 3.
	MoodLimit int `json:"mood_limit" koanf:"mood_limit"`

	// ExpirationLimit is the size of the close-to-expiration group. Default: 3.
	ExpirationLimit int `json:"expiration_limit" koanf:"expiration_limit"`

	// ExpirationWindowDays bounds days_until_expiration for the expiration
	// view. Default: 15.
	ExpirationWindowDays int `json:"expiration_window_days" koanf:"expiration_window_days"`

	// InitialCap caps the initial group below N. Zero leaves it at N.
	// Default: 6.
	InitialCap int `json:"initial_cap" koanf:"initial_cap"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultN applies when a request leaves N unset. Default: 10.
	DefaultN int `json:"default_n" koanf:"default_n"`

	// MaxN clamps larger requests. Default: 100.
	MaxN int `json:"max_n" koanf:"max_n"`

	// CandidateTimeout bounds the collaborative model call. Default: 5s.
	CandidateTimeout time.Duration `json:"candidate_timeout" koanf:"candidate_timeout"`
}

// EnrichmentConfig controls row enrichment fan-out.
type EnrichmentConfig struct {
	// Enabled turns presentation lookups on. When off every row carries
	// only catalog fields. Default: true.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// Concurrency bounds parallel lookups per request. Default: 8.
	Concurrency int `json:"concurrency" koanf:"concurrency"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Fusion: FusionConfig{
			Threshold:            0.0001,
			MoodLimit:            3,
			ExpirationLimit:      3,
			ExpirationWindowDays: 15,
			InitialCap:           6,
		},
		Limits: LimitsConfig{
			DefaultN:         10,
			MaxN:             100,
			CandidateTimeout: 5 * time.Second,
		},
		Enrichment: EnrichmentConfig{
			Enabled:     true,
			Concurrency: 8,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Fusion.Threshold <= 0 {
		return fmt.Errorf("fusion.threshold must be positive, got %g", c.Fusion.Threshold)
	}
	if c.Fusion.MoodLimit < 0 {
		return fmt.Errorf("fusion.mood_limit must be non-negative, got %d", c.Fusion.MoodLimit)
	}
	if c.Fusion.ExpirationLimit < 0 {
		return fmt.Errorf("fusion.expiration_limit must be non-negative, got %d", c.Fusion.ExpirationLimit)
	}
	if c.Fusion.ExpirationWindowDays < 1 {
		return fmt.Errorf("fusion.expiration_window_days must be positive, got %d", c.Fusion.ExpirationWindowDays)
	}
	if c.Fusion.InitialCap < 0 {
		return fmt.Errorf("fusion.initial_cap must be non-negative, got %d", c.Fusion.InitialCap)
	}

	if c.Limits.DefaultN < 1 {
		return fmt.Errorf("limits.default_n must be positive, got %d", c.Limits.DefaultN)
	}
	if c.Limits.MaxN < c.Limits.DefaultN {
		return fmt.Errorf("limits.max_n must be >= limits.default_n, got %d < %d", c.Limits.MaxN, c.Limits.DefaultN)
	}
	if c.Limits.CandidateTimeout <= 0 {
		return fmt.Errorf("limits.candidate_timeout must be positive, got %v", c.Limits.CandidateTimeout)
	}

	if c.Enrichment.Enabled && c.Enrichment.Concurrency < 1 {
		return fmt.Errorf("enrichment.concurrency must be positive, got %d", c.Enrichment.Concurrency)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// initialLimit returns how many initial rows a request for n candidates shows.
func (c *Config) initialLimit(n int) int {
	if c.Fusion.InitialCap > 0 && n > c.Fusion.InitialCap {
		return c.Fusion.InitialCap
	}
	return n
}
