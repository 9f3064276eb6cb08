// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// DefaultStream retains recommendation events. JetStream stream names may
// not contain dots, so the topic cannot double as the stream name.
const DefaultStream = "MOODCART_EVENTS"

// duplicateWindow matches the publisher's message id deduplication.
const duplicateWindow = 2 * time.Minute

// streamManager is the part of jetstream.JetStream used to provision.
type streamManager interface {
	Stream(ctx context.Context, name string) (jetstream.Stream, error)
	CreateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
	UpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
}

func streamConfig(cfg *Config) jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:       cfg.Stream,
		Subjects:   []string{cfg.Topic},
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     cfg.Retention,
		Duplicates: duplicateWindow,
		Storage:    jetstream.FileStorage,
		Discard:    jetstream.DiscardOld,
	}
}

// ensureStream creates the event stream, or updates it when it exists.
func ensureStream(ctx context.Context, js streamManager, cfg *Config) error {
	want := streamConfig(cfg)

	_, err := js.Stream(ctx, want.Name)
	switch {
	case err == nil:
		if _, err := js.UpdateStream(ctx, want); err != nil {
			return fmt.Errorf("update stream %s: %w", want.Name, err)
		}
		return nil
	case errors.Is(err, jetstream.ErrStreamNotFound):
		if _, err := js.CreateStream(ctx, want); err != nil {
			return fmt.Errorf("create stream %s: %w", want.Name, err)
		}
		return nil
	default:
		return fmt.Errorf("check stream %s: %w", want.Name, err)
	}
}

// provisionStream connects once to url and ensures the event stream.
func provisionStream(ctx context.Context, url string, cfg *Config) error {
	nc, err := natsgo.Connect(url, natsgo.Name("moodcart-provision"))
	if err != nil {
		return fmt.Errorf("connect %s: %w", url, err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("jetstream context: %w", err)
	}
	return ensureStream(ctx, js, cfg)
}
