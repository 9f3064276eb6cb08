// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/rs/zerolog"
)

const serverReadyTimeout = 30 * time.Second

// EmbeddedServer is an in-process NATS JetStream server. It gives a single
// instance a durable event stream without running NATS separately.
type EmbeddedServer struct {
	server    *server.Server
	clientURL string
}

// NewEmbeddedServer starts the server and waits until it accepts clients.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEmbeddedServer(cfg *Config, logger zerolog.Logger) (*EmbeddedServer, error) {
	opts := &server.Options{
		ServerName:         "moodcart-events",
		Host:               cfg.ServerHost,
		Port:               cfg.ServerPort,
		JetStream:          true,
		StoreDir:           cfg.StoreDir,
		JetStreamMaxMemory: cfg.MaxMemory,
		JetStreamMaxStore:  cfg.MaxStore,
		// Listen on TCP so external consumers can read the stream.
		DontListen: false,
		MaxPayload: 1 << 20,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}
	ns.SetLogger(natsLogger{logger.With().Str("component", "nats-server").Logger()}, false, false)

	go ns.Start()

	if !ns.ReadyForConnections(serverReadyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within %s", serverReadyTimeout)
	}

	return &EmbeddedServer{server: ns, clientURL: ns.ClientURL()}, nil
}

// ClientURL is the address publishers and consumers connect to.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// Running reports whether the server is still up.
func (s *EmbeddedServer) Running() bool {
	return s.server.Running()
}

// Shutdown stops the server. JetStream flushes its store before it returns.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	s.server.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.WaitForShutdown()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// natsLogger routes server logs through zerolog.
type natsLogger struct {
	logger zerolog.Logger
}

func (l natsLogger) Noticef(format string, v ...any) { l.logger.Info().Msgf(format, v...) }
func (l natsLogger) Warnf(format string, v ...any)   { l.logger.Warn().Msgf(format, v...) }
func (l natsLogger) Errorf(format string, v ...any)  { l.logger.Error().Msgf(format, v...) }
func (l natsLogger) Debugf(format string, v ...any)  { l.logger.Debug().Msgf(format, v...) }
func (l natsLogger) Tracef(format string, v ...any)  { l.logger.Trace().Msgf(format, v...) }

// Fatalf logs at error level. The server shuts itself down after a fatal
// condition, so the process is not exited here.
func (l natsLogger) Fatalf(format string, v ...any) { l.logger.Error().Msgf(format, v...) }
