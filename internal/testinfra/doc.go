// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

//go:build integration

// Package testinfra starts the external services integration tests run
// against, using testcontainers-go.
//
//	func TestRedisStore(t *testing.T) {
//	    addr := testinfra.StartRedis(context.Background(), t)
//	    store, err := cache.NewRedis(addr, "", 0, time.Minute, "test:")
//	    // ...
//	}
//
// Containers are terminated when the test ends. Tests are skipped when no
// Docker daemon is reachable.
//
// Run with:
//
//	go test -tags integration ./...
package testinfra
