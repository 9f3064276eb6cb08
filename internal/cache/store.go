// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

// Package cache provides the key/value stores behind presentation enrichment.
//
// Three backends share the Store interface:
//
//   - memory: an in-process LRU with TTL (default)
//   - badger: an on-disk store that survives restarts
//   - redis:  a shared store for several replicas
//
// Values are opaque bytes; callers own the encoding.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Store is a TTL-bounded byte cache.
type Store interface {
	// Get returns the value and true on a live hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key with the store's TTL.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the backend.
	Close() error
}

// Config selects and sizes a backend.
type Config struct {
	Backend    string        `koanf:"backend"`
	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int           `koanf:"max_entries"`

	// BadgerPath is the data directory for the badger backend.
	BadgerPath string `koanf:"badger_path"`

	// RedisAddr, RedisPassword and RedisDB address the redis backend.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// KeyPrefix namespaces keys in shared backends.
	KeyPrefix string `koanf:"key_prefix"`
}

// New opens the backend named by cfg.Backend.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, logger zerolog.Logger) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewLRUCache(cfg.MaxEntries, cfg.TTL), nil
	case BackendBadger:
		// A typed nil must not leak out as a non-nil Store.
		s, err := OpenBadger(cfg.BadgerPath, cfg.TTL, cfg.KeyPrefix, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendRedis:
		s, err := NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL, cfg.KeyPrefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
