// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

/*
Package supervisor runs Moodcart's long-lived services under a suture v4 tree.

	root ("moodcart")
	├── data-layer
	│   └── cache-gc (badger enrichment cache only)
	├── messaging-layer
	│   └── events publisher (watermill, NATS or embedded NATS)
	└── api-layer
	    └── http-server

A crashed service restarts with backoff inside its own layer, so a broker
outage does not take the HTTP server down with it. Supervisor events are
logged through sutureslog with a slog logger backed by zerolog
(logging.NewSlogLogger).

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	tree.Add(supervisor.LayerMessaging, publisher)
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx) // blocks until ctx is canceled
*/
package supervisor
