// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

//go:build integration

package events

import (
	"context"
	"testing"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moodcart/internal/testinfra"
)

func externalConfig(url string, jetStream bool) Config {
	cfg := DefaultConfig()
	cfg.NATSURL = url
	cfg.EmbeddedServer = false
	cfg.JetStream = jetStream
	return cfg
}

func TestPublisher_ExternalJetStream(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	url := testinfra.StartNATS(ctx, t)

	p, err := NewPublisher(externalConfig(url, true), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	go func() { _ = p.Serve(ctx) }()

	p.RecommendationServed(ctx, testResponse())
	assertStreamEvent(ctx, t, url, DefaultStream)
}

func TestPublisher_ExternalCoreNATS(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	url := testinfra.StartNATS(ctx, t)

	nc, err := natsgo.Connect(url)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer nc.Close()
	sub, err := nc.SubscribeSync(DefaultTopic)
	if err != nil {
		t.Fatalf("SubscribeSync() error = %v", err)
	}

	p, err := NewPublisher(externalConfig(url, false), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	go func() { _ = p.Serve(ctx) }()

	p.RecommendationServed(ctx, testResponse())

	msg, err := sub.NextMsg(10 * time.Second)
	if err != nil {
		t.Fatalf("NextMsg() error = %v", err)
	}
	event, err := Unmarshal(msg.Data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if event.RequestID != "req-1" {
		t.Errorf("RequestID = %q, want req-1", event.RequestID)
	}
	if got := msg.Header.Get("request_id"); got != "req-1" {
		t.Errorf("request_id header = %q", got)
	}
}
