// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package api

import (
	"context"
	"time"

	"github.com/tomtom215/moodcart/internal/models"
	"github.com/tomtom215/moodcart/internal/recommend"
)

// Recommender composes recommendation responses. *recommend.Engine
// satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

// AisleRanker ranks aisles by total purchases. *history.Store satisfies it.
type AisleRanker interface {
	TopAisles(limit int) []models.AisleTotal
}

// ReadinessCheck is one named dependency checked by /health/ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Defaults for the aisle ranking endpoint.
const (
	defaultTopAisles = 50
	maxTopAisles     = 500
)

// readinessTimeout bounds all readiness checks together.
const readinessTimeout = 2 * time.Second

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_recommend.go: /predict and /api/v1/recommendations
//   - handlers_catalog.go: aisle ranking and mood labels
//   - handlers_health.go: liveness and readiness
type Handler struct {
	engine    Recommender
	aisles    AisleRanker
	checks    []ReadinessCheck
	startTime time.Time
}

// NewHandler creates a handler. aisles may be nil, in which case the
// aisle ranking endpoint answers 503.
func NewHandler(engine Recommender, aisles AisleRanker, checks ...ReadinessCheck) *Handler {
	return &Handler{
		engine:    engine,
		aisles:    aisles,
		checks:    checks,
		startTime: time.Now(),
	}
}
