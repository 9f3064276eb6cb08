// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

//go:build integration

package testinfra

import (
	"context"
	"testing"
)

const (
	// DefaultRedisImage backs the redis enrichment cache tests.
	DefaultRedisImage = "redis:7-alpine"

	// DefaultNATSImage backs the external NATS publisher tests.
	DefaultNATSImage = "nats:2.12-alpine"
)

// StartRedis runs a redis server for the rest of t and returns host:port.
func StartRedis(ctx context.Context, t *testing.T) string {
	t.Helper()
	return start(ctx, t, service{
		name:    "redis",
		image:   DefaultRedisImage,
		port:    "6379",
		readyOn: "Ready to accept connections",
	})
}

// StartNATS runs a NATS server with JetStream enabled for the rest of t and
// returns its nats:// URL.
func StartNATS(ctx context.Context, t *testing.T) string {
	t.Helper()
	return start(ctx, t, service{
		name:    "nats",
		image:   DefaultNATSImage,
		port:    "4222",
		cmd:     []string{"-js"},
		readyOn: "Server is ready",
		scheme:  "nats",
	})
}
