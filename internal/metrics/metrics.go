// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

// Package metrics holds the Prometheus collectors for Moodcart.
//
// Collectors are package-level promauto variables registered on the default
// registry and exposed by the API at /metrics. Record* helpers keep label
// handling in one place.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodcart_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodcart_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodcart_api_active_requests",
			Help: "Number of API requests in flight",
		},
	)

	// Recommendation pipeline

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodcart_recommendation_duration_seconds",
			Help:    "Time to compose a recommendation response",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"path"}, // known_user, new_user
	)

	RecommendationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodcart_recommendation_errors_total",
			Help: "Recommendation requests that failed, by error kind",
		},
		[]string{"kind"}, // missing_parameter, invalid_request, unknown_user, unknown_product, unavailable, timeout, internal
	)

	RecommendationGroupSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodcart_recommendation_group_size",
			Help:    "Rows returned per result group",
			Buckets: []float64{0, 1, 2, 3, 4, 6, 10, 25, 50, 100},
		},
		[]string{"group"}, // initial, mood, expiration, history
	)

	// Enrichment

	EnrichmentLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodcart_enrichment_lookups_total",
			Help: "Presentation lookups by outcome",
		},
		[]string{"result"}, // cache_hit, fetched, fallback
	)

	EnrichmentLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moodcart_enrichment_lookup_duration_seconds",
			Help:    "Duration of remote presentation lookups",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Enrichment cache

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodcart_cache_hits_total",
			Help: "Enrichment cache hits",
		},
		[]string{"cache_type"}, // memory, badger, redis
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodcart_cache_misses_total",
			Help: "Enrichment cache misses, expired entries included",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodcart_cache_evictions_total",
			Help: "Entries evicted to stay within capacity",
		},
		[]string{"cache_type"},
	)

	// Loaded artifacts

	CatalogProducts = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moodcart_catalog_products",
			Help: "Products held per catalog view",
		},
		[]string{"view"}, // all, mood_positive, mood_negative, mood_unclassified, with_expiration
	)

	CatalogDroppedRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moodcart_catalog_dropped_rows",
			Help: "Rows dropped by the catalog joins at load time",
		},
		[]string{"reason"},
	)

	EmbeddingVectors = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moodcart_embedding_vectors",
			Help: "Loaded embedding vectors by kind",
		},
		[]string{"kind"}, // product, user
	)

	ArtifactLoadDuration = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moodcart_artifact_load_seconds",
			Help: "Time spent loading each artifact at startup",
		},
		[]string{"artifact"},
	)

	// Circuit breakers

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moodcart_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodcart_circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker by result",
		},
		[]string{"name", "result"}, // success, benign, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodcart_circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Events

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodcart_events_published_total",
			Help: "Recommendation events published by result",
		},
		[]string{"result"}, // ok, error, dropped
	)
)

// RecordAPIRequest records an API request.
func RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight gauge up or down.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordRecommendation records a composed response and its group sizes.
// history is negative when the response carries no history group.
func RecordRecommendation(path string, duration time.Duration, initial, mood, expiration, history int) {
	RecommendationDuration.WithLabelValues(path).Observe(duration.Seconds())
	RecommendationGroupSize.WithLabelValues("initial").Observe(float64(initial))
	RecommendationGroupSize.WithLabelValues("mood").Observe(float64(mood))
	RecommendationGroupSize.WithLabelValues("expiration").Observe(float64(expiration))
	if history >= 0 {
		RecommendationGroupSize.WithLabelValues("history").Observe(float64(history))
	}
}

// RecordRecommendationError counts a failed request by kind.
func RecordRecommendationError(kind string) {
	RecommendationErrors.WithLabelValues(kind).Inc()
}

// RecordEnrichment counts one presentation lookup.
func RecordEnrichment(result string) {
	EnrichmentLookups.WithLabelValues(result).Inc()
}

// RecordCacheLookup counts a cache hit or miss for cacheType.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordArtifactLoad records how long an artifact took to load.
func RecordArtifactLoad(artifact string, duration time.Duration) {
	ArtifactLoadDuration.WithLabelValues(artifact).Set(duration.Seconds())
}
