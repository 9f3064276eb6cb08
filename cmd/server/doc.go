// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

/*
Package main is the entry point for the Moodcart recommendation server.

Moodcart answers "what should this shopper see next" by fusing four groups of
grocery products: collaborative filtering picks, products similar to those
picks in the shopper's mood, products close to their expiration date, and
the shopper's own purchase history.

# Application Architecture

Startup loads every artifact once and then serves read-only state under a
Suture v4 supervisor tree:

	RootSupervisor ("moodcart")
	├── DataSupervisor ("data-layer")
	│   └── Cache GC (badger backend only)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Event publisher (embedded NATS unless NATS_URL is set)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml, then environment
 2. Logging: zerolog, level and format from LOG_LEVEL and LOG_FORMAT
 3. Artifacts: DuckDB reads the CSV and JSON artifacts from DATA_DIR
 4. Stores: catalog, embeddings, purchase history, factor model
 5. Enrichment: search lookups behind a rate limiter, breaker and cache
 6. Engine: the fusion engine over the stores above
 7. HTTP: chi router with CORS, rate limiting and Prometheus metrics

A failure in any artifact aborts startup.

# Endpoints

	GET /predict?userId=&mood=&N=&interested_aisles=
	GET /api/v1/recommendations
	GET /api/v1/aisles/top
	GET /api/v1/moods
	GET /api/v1/health/live
	GET /api/v1/health/ready
	GET /metrics
	GET /swagger/index.html

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests for HTTP_SHUTDOWN_TIMEOUT, the event publisher flushes its queue and
stops the embedded NATS server, then the cache and database are closed.

# Example Usage

	export DATA_DIR=/srv/moodcart
	export GOOGLE_API_KEY=...
	export GOOGLE_SEARCH_ENGINE_ID=...
	./moodcart

	curl 'localhost:5525/predict?userId=7&mood=happy&N=10'
*/
package main
