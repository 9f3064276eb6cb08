// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package services

import (
	"context"
	"time"

	"github.com/tomtom215/moodcart/internal/logging"
)

// GarbageCollector reclaims space in a persistent store.
// *cache.BadgerStore satisfies it.
type GarbageCollector interface {
	CollectGarbage(ctx context.Context) error
}

// DefaultGCInterval is how often the enrichment cache is collected.
const DefaultGCInterval = 10 * time.Minute

// CacheGCService runs CollectGarbage on a fixed interval. A failed pass is
// logged and retried on the next tick rather than restarting the service.
type CacheGCService struct {
	collector GarbageCollector
	interval  time.Duration
	name      string
}

// NewCacheGCService creates the service. A non-positive interval uses
// DefaultGCInterval.
func NewCacheGCService(collector GarbageCollector, interval time.Duration) *CacheGCService {
	if interval <= 0 {
		interval = DefaultGCInterval
	}
	return &CacheGCService{
		collector: collector,
		interval:  interval,
		name:      "cache-gc",
	}
}

// Serve implements suture.Service.
func (s *CacheGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.collector.CollectGarbage(ctx); err != nil {
				logging.Warn().Err(err).Msg("enrichment cache garbage collection failed")
				continue
			}
			logging.Debug().Dur("took", time.Since(start)).Msg("enrichment cache garbage collected")
		}
	}
}

// String implements fmt.Stringer.
func (s *CacheGCService) String() string {
	return s.name
}
