// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

// Package enrich supplies display images and prices for product rows.
//
// Lookups go through a cache, an outbound rate limiter and a circuit breaker
// before reaching the search API. Every failure resolves to the fallback
// presentation, so Enrich never returns an error. Without an API key the
// service skips lookups entirely and serves the fallback image.
package enrich

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/tomtom215/moodcart/internal/breaker"
	"github.com/tomtom215/moodcart/internal/cache"
	"github.com/tomtom215/moodcart/internal/metrics"
	"github.com/tomtom215/moodcart/internal/recommend"
)

// DefaultFallbackImageURL is shown when no image can be found.
const DefaultFallbackImageURL = "https://josiesorganics.com/wp-content/uploads/2022/01/Josies-Organics-Baby-Spinach-16oz-Front.png"

// DefaultEndpoint is the custom search API endpoint.
const DefaultEndpoint = "https://www.googleapis.com/customsearch/v1"

// Lookup results recorded in metrics.
const (
	resultFound     = "found"
	resultCacheHit  = "cache_hit"
	resultEmpty     = "empty"
	resultFallback  = "fallback"
	resultThrottled = "throttled"
	resultDisabled  = "disabled"
)

// Config configures the search lookup.
type Config struct {
	Endpoint          string        `koanf:"endpoint"`
	APIKey            string        `koanf:"api_key"`
	EngineID          string        `koanf:"engine_id"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	FallbackImageURL  string        `koanf:"fallback_image_url"`

	// Currency prefixes formatted prices.
	Currency string `koanf:"currency"`

	// DiscountRate is the fraction taken off for discount_price.
	// Zero leaves discount_price unset.
	DiscountRate float64 `koanf:"discount_rate"`
}

// DefaultConfig returns lookup defaults. Lookups stay off until an API key
// and engine id are configured.
func DefaultConfig() Config {
	return Config{
		Endpoint:          DefaultEndpoint,
		Timeout:           3 * time.Second,
		RequestsPerSecond: 10,
		Burst:             20,
		FallbackImageURL:  DefaultFallbackImageURL,
		Currency:          "$",
		DiscountRate:      0.3,
	}
}

// Service implements recommend.Enricher.
type Service struct {
	cfg     Config
	client  *searchClient
	cache   cache.Store
	limiter *rate.Limiter
	breaker *breaker.Breaker[searchResult]
	logger  zerolog.Logger
}

// New creates the enrichment service. store may be nil to disable caching.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, store cache.Store, breakerCfg breaker.Config, logger zerolog.Logger) *Service {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.FallbackImageURL == "" {
		cfg.FallbackImageURL = DefaultFallbackImageURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}

	logger = logger.With().Str("component", "enrich").Logger()
	return &Service{
		cfg: cfg,
		client: &searchClient{
			client:   &http.Client{Timeout: cfg.Timeout},
			endpoint: cfg.Endpoint,
			apiKey:   cfg.APIKey,
			engineID: cfg.EngineID,
		},
		cache:   store,
		limiter: rate.NewLimiter(limit, cfg.Burst),
		breaker: breaker.New[searchResult]("enrichment", breakerCfg, func(err error) bool {
			return errors.Is(err, context.Canceled)
		}, logger),
		logger: logger,
	}
}

// LookupsEnabled reports whether the search API is configured.
func (s *Service) LookupsEnabled() bool {
	return s.cfg.APIKey != "" && s.cfg.EngineID != ""
}

// Fallback returns the presentation used when a lookup fails.
func (s *Service) Fallback() recommend.Presentation {
	return recommend.Presentation{ImageURL: s.cfg.FallbackImageURL}
}

// Enrich implements recommend.Enricher.
func (s *Service) Enrich(ctx context.Context, productName string) recommend.Presentation {
	if !s.LookupsEnabled() {
		metrics.RecordEnrichment(resultDisabled)
		return s.Fallback()
	}

	key := cacheKey(productName)
	if p, ok := s.cached(ctx, key); ok {
		metrics.RecordEnrichment(resultCacheHit)
		return p
	}

	if err := s.limiter.Wait(ctx); err != nil {
		metrics.RecordEnrichment(resultThrottled)
		return s.Fallback()
	}

	start := time.Now()
	result, err := s.breaker.Execute(func() (searchResult, error) {
		return s.client.Search(ctx, productName)
	})
	metrics.EnrichmentLookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Debug().Err(err).Str("product", productName).Msg("image lookup failed")
		metrics.RecordEnrichment(resultFallback)
		return s.Fallback()
	}

	p := s.presentation(result)
	if result.ImageURL == "" {
		metrics.RecordEnrichment(resultEmpty)
	} else {
		metrics.RecordEnrichment(resultFound)
	}
	s.store(ctx, key, p)
	return p
}

// presentation formats a search hit. An empty hit keeps the fallback image.
func (s *Service) presentation(result searchResult) recommend.Presentation {
	p := s.Fallback()
	if result.ImageURL != "" {
		p.ImageURL = result.ImageURL
	}
	if result.Price == nil {
		return p
	}

	price := s.formatPrice(*result.Price)
	p.Price = &price
	if s.cfg.DiscountRate > 0 && s.cfg.DiscountRate < 1 {
		factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(s.cfg.DiscountRate))
		discount := s.formatPrice(result.Price.Mul(factor))
		p.DiscountPrice = &discount
	}
	return p
}

func (s *Service) formatPrice(d decimal.Decimal) string {
	return s.cfg.Currency + d.StringFixed(2)
}

func cacheKey(productName string) string {
	return "enrich:" + strings.ToLower(strings.TrimSpace(productName))
}

func (s *Service) cached(ctx context.Context, key string) (recommend.Presentation, bool) {
	if s.cache == nil {
		return recommend.Presentation{}, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return recommend.Presentation{}, false
	}
	if !ok {
		return recommend.Presentation{}, false
	}
	var p recommend.Presentation
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("discarding corrupt cache entry")
		return recommend.Presentation{}, false
	}
	return p, true
}

func (s *Service) store(ctx context.Context, key string, p recommend.Presentation) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
