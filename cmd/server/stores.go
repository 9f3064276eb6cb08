// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodcart/internal/cache"
	"github.com/tomtom215/moodcart/internal/catalog"
	"github.com/tomtom215/moodcart/internal/config"
	"github.com/tomtom215/moodcart/internal/database"
	"github.com/tomtom215/moodcart/internal/embedding"
	"github.com/tomtom215/moodcart/internal/enrich"
	"github.com/tomtom215/moodcart/internal/events"
	"github.com/tomtom215/moodcart/internal/history"
	"github.com/tomtom215/moodcart/internal/metrics"
	"github.com/tomtom215/moodcart/internal/models"
	"github.com/tomtom215/moodcart/internal/recommend"
	"github.com/tomtom215/moodcart/internal/recommend/collaborative"
)

// components is everything built from the artifacts at startup.
type components struct {
	engine        *recommend.Engine
	history       *history.Store
	collaborative *collaborative.Guarded
	cache         cache.Store
	publisher     *events.Publisher
}

// close releases the cache and flushes the publisher.
func (c *components) close(logger *zerolog.Logger) {
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing event publisher")
		}
	}
	if c.cache != nil {
		if err := c.cache.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing cache")
		}
	}
}

// buildComponents loads the artifacts and assembles the engine. Any failure
// aborts startup; the caller owns closing what was returned.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func buildComponents(ctx context.Context, cfg *config.Config, db *database.DB, logger zerolog.Logger) (*components, error) {
	artifacts, err := db.LoadArtifacts(ctx, &cfg.Artifacts)
	if err != nil {
		return nil, fmt.Errorf("load artifacts: %w", err)
	}

	cat, err := catalog.Build(artifacts.Catalog, logger)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	vectors, err := embedding.New(artifacts.ProductEmbeddings, artifacts.UserEmbeddings)
	if err != nil {
		return nil, fmt.Errorf("embeddings: %w", err)
	}
	publishInventory(cat, vectors)

	hist := history.New(artifacts.PurchaseCounts, cat, logger)

	model, err := collaborative.NewFactorModel(artifacts.UserFactors, artifacts.ItemFactors,
		collaborative.WithPurchasedFiltering(cfg.Collaborative.FilterPurchased))
	if err != nil {
		return nil, fmt.Errorf("collaborative model: %w", err)
	}
	guarded := collaborative.NewGuarded(model, cfg.Breakers.Collaborative, logger)

	c := &components{history: hist, collaborative: guarded}

	c.cache, err = cache.New(cfg.Cache, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}
	enricher := enrich.New(cfg.Enrichment, c.cache, cfg.Breakers.Enrichment, logger)
	if !enricher.LookupsEnabled() {
		logger.Warn().Msg("Search lookups disabled (GOOGLE_API_KEY not set), using fallback presentation")
	}

	deps := recommend.Dependencies{
		Catalog:  cat,
		Vectors:  vectors,
		History:  hist,
		Source:   guarded,
		Enricher: enricher,
	}
	if cfg.Events.Enabled {
		c.publisher, err = events.NewPublisher(cfg.Events, logger)
		if err != nil {
			c.close(&logger)
			return nil, fmt.Errorf("event publisher: %w", err)
		}
		deps.Events = c.publisher
	}

	c.engine, err = recommend.NewEngine(&cfg.Engine, deps, logger)
	if err != nil {
		c.close(&logger)
		return nil, fmt.Errorf("engine: %w", err)
	}

	stats := cat.Stats()
	logger.Info().
		Int("products", stats.Products).
		Int("vectors", vectors.Len()).
		Int("users", hist.Users()).
		Int("purchase_records", hist.Len()).
		Msg("Artifacts loaded")
	return c, nil
}

// publishInventory exports what the catalog joins kept and dropped.
func publishInventory(cat *catalog.Catalog, vectors *embedding.Store) {
	stats := cat.Stats()
	moods := cat.MoodCounts()

	metrics.CatalogProducts.WithLabelValues("all").Set(float64(stats.Products))
	metrics.CatalogProducts.WithLabelValues("mood_positive").Set(float64(moods[models.MoodPositive]))
	metrics.CatalogProducts.WithLabelValues("mood_negative").Set(float64(moods[models.MoodNegative]))
	metrics.CatalogProducts.WithLabelValues("mood_unclassified").Set(float64(moods[models.MoodUnclassified]))
	metrics.CatalogProducts.WithLabelValues("with_expiration").Set(float64(stats.WithExpiration))

	metrics.CatalogDroppedRows.WithLabelValues("unknown_aisle").Set(float64(stats.DroppedUnknownAisle))
	metrics.CatalogDroppedRows.WithLabelValues("unknown_department").Set(float64(stats.DroppedUnknownDept))
	metrics.CatalogDroppedRows.WithLabelValues("invalid_mood").Set(float64(stats.InvalidMoodRows))
	metrics.CatalogDroppedRows.WithLabelValues("orphan_expiration").Set(float64(stats.OrphanExpirationRows))
	metrics.CatalogDroppedRows.WithLabelValues("duplicate_expiration").Set(float64(stats.DuplicateExpirationRows))

	metrics.EmbeddingVectors.WithLabelValues("product").Set(float64(vectors.Len()))
	metrics.EmbeddingVectors.WithLabelValues("user").Set(float64(vectors.UserLen()))
}

// errBreakerOpen fails readiness while collaborative calls are rejected.
var errBreakerOpen = errors.New("collaborative circuit open")

func (c *components) collaborativeReady(context.Context) error {
	if c.collaborative.State() == "open" {
		return errBreakerOpen
	}
	return nil
}
