// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moodcart/internal/metrics"
	"github.com/tomtom215/moodcart/internal/testinfra"
)

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	addr := testinfra.StartRedis(ctx, t)

	store, err := New(Config{Backend: BackendRedis, RedisAddr: addr, TTL: time.Minute, KeyPrefix: "moodcart-test:"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store.Close()

	misses := testutil.ToFloat64(metrics.CacheMisses.WithLabelValues(BackendRedis))
	hits := testutil.ToFloat64(metrics.CacheHits.WithLabelValues(BackendRedis))

	if _, ok, err := store.Get(ctx, "Organic Bananas"); err != nil || ok {
		t.Fatalf("Get(missing) = %v, %v, want miss", ok, err)
	}
	if err := store.Set(ctx, "Organic Bananas", []byte(`{"image_url":"x"}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := store.Get(ctx, "Organic Bananas")
	if err != nil || !ok || string(got) != `{"image_url":"x"}` {
		t.Fatalf("Get() = %q, %v, %v", got, ok, err)
	}

	if d := testutil.ToFloat64(metrics.CacheMisses.WithLabelValues(BackendRedis)) - misses; d != 1 {
		t.Errorf("misses = %v, want 1", d)
	}
	if d := testutil.ToFloat64(metrics.CacheHits.WithLabelValues(BackendRedis)) - hits; d != 1 {
		t.Errorf("hits = %v, want 1", d)
	}

	// Keys are namespaced and expire with the configured TTL.
	raw := redis.NewClient(&redis.Options{Addr: addr})
	defer raw.Close()
	ttl, err := raw.TTL(ctx, "moodcart-test:Organic Bananas").Result()
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL = %v, want within (0, 1m]", ttl)
	}
}

func TestRedisStore_Expires(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	addr := testinfra.StartRedis(ctx, t)

	store, err := NewRedis(addr, "", 0, time.Second, "expiry:")
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	defer store.Close()

	if err := store.Set(ctx, "milk", []byte("1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(1500 * time.Millisecond)
	if _, ok, err := store.Get(ctx, "milk"); err != nil || ok {
		t.Errorf("Get() after TTL = %v, %v, want miss", ok, err)
	}
}
