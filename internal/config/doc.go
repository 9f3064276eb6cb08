// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

/*
Package config loads Moodcart's configuration.

Configuration is layered with Koanf v2, later sources winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml or /etc/moodcart/config.yaml
 3. Environment variables, mapped explicitly (HTTP_PORT -> server.port)

# Sections

  - server: listen address, timeouts, environment
  - security: CORS origins and per-IP rate limiting
  - logging: zerolog level, format and caller
  - database: the DuckDB instance that reads artifacts
  - artifacts: CSV paths for the catalog, purchase counts, embeddings and factors
  - engine: fusion thresholds, group sizes, N limits and enrichment fan-out
  - collaborative: candidate source options
  - enrichment: image search API, rate limit, prices
  - cache: enrichment cache backend (memory, badger, redis)
  - breakers: circuit breakers for the model and the search API
  - events: recommendation events over external or embedded NATS

# Example

	HTTP_PORT=8080 DATA_DIR=/srv/moodcart GOOGLE_API_KEY=... \
	GOOGLE_SEARCH_ENGINE_ID=... NATS_URL=nats://nats:4222 ./moodcart
*/
package config
