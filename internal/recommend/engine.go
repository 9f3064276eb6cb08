// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/moodcart/internal/models"
)

// Dependencies are the read-only stores and collaborators an Engine composes.
// Catalog, Vectors, History and Source are required.
type Dependencies struct {
	Catalog  Catalog
	Vectors  Vectors
	History  PurchaseHistory
	Source   CandidateSource
	Enricher Enricher
	Events   EventSink
}

// Engine composes the initial, mood-related, close-to-expiration and history
// groups for a request. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	config    *Config
	logger    zerolog.Logger
	catalog   Catalog
	vectors   Vectors
	history   PurchaseHistory
	source    CandidateSource
	enricher  Enricher
	events    EventSink
	coldStart *ColdStart
	now       func() time.Time
}

// NewEngine creates a fusion engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	switch {
	case deps.Catalog == nil:
		return nil, errors.New("catalog is required")
	case deps.Vectors == nil:
		return nil, errors.New("embedding store is required")
	case deps.History == nil:
		return nil, errors.New("purchase history is required")
	case deps.Source == nil:
		return nil, errors.New("candidate source is required")
	}

	return &Engine{
		config:    cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
		catalog:   deps.Catalog,
		vectors:   deps.Vectors,
		history:   deps.History,
		source:    deps.Source,
		enricher:  deps.Enricher,
		events:    deps.Events,
		coldStart: NewColdStart(deps.History),
		now:       time.Now,
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// validated is a request after entry checks and defaults.
type validated struct {
	Request
	category models.MoodCategory
}

// Validate applies entry checks and defaults. It fails fast with
// MissingParameterError or InvalidRequestError and performs no lookups.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Validate(req Request) (Request, error) {
	v, err := e.validate(req)
	if err != nil {
		return Request{}, err
	}
	return v.Request, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) validate(req Request) (validated, error) {
	if req.Mood == "" {
		return validated{}, &models.MissingParameterError{Param: "mood", Message: "Mood parameter is missing"}
	}
	if req.UserID == nil && len(req.Aisles) == 0 && req.RawAisles == "" {
		return validated{}, &models.MissingParameterError{
			Param:   "userId",
			Message: "user_id and interested_aisles parameters are missing",
		}
	}
	category, ok := models.CategoryForEmotion(req.Mood)
	if !ok {
		return validated{}, &models.MissingParameterError{Param: "mood", Message: fmt.Sprintf("unknown mood %q", req.Mood)}
	}

	switch {
	case req.N < 0:
		return validated{}, &models.InvalidRequestError{Field: "N", Value: fmt.Sprint(req.N), Reason: "must be positive"}
	case req.N == 0:
		req.N = e.config.Limits.DefaultN
	case req.N > e.config.Limits.MaxN:
		req.N = e.config.Limits.MaxN
	}

	if req.UserID == nil && len(req.Aisles) == 0 {
		aisles, err := ParseAisles(req.RawAisles)
		if err != nil {
			return validated{}, err
		}
		req.Aisles = aisles
	}

	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	return validated{Request: req, category: category}, nil
}

// Recommend validates req and composes the four result groups.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := e.now()

	v, err := e.validate(req)
	if err != nil {
		return nil, err
	}

	path := PathNewUser
	if v.UserID != nil {
		path = PathKnownUser
	}
	logger := e.requestLogger(v, path)
	logger.Debug().Msg("processing recommendation request")

	candidates, err := e.candidates(ctx, v, path)
	if err != nil {
		return nil, fmt.Errorf("get candidates: %w", err)
	}

	fusion := e.config.Fusion
	mood, err := FuseNeighbors(e.vectors, candidates, e.catalog.ViewByMood(v.category), fusion.MoodLimit, fusion.Threshold)
	if err != nil {
		return nil, fmt.Errorf("mood fusion: %w", err)
	}
	expiring, err := FuseNeighbors(e.vectors, candidates, e.catalog.ViewByExpiration(start, fusion.ExpirationWindowDays), fusion.ExpirationLimit, fusion.Threshold)
	if err != nil {
		return nil, fmt.Errorf("expiration fusion: %w", err)
	}

	initial := e.catalog.LookupMany(candidates)
	if limit := e.config.initialLimit(v.N); len(initial) > limit {
		initial = initial[:limit]
	}

	resp := &Response{
		Initial:           productRows(initial),
		MoodRelated:       neighborRows(mood),
		CloseToExpiration: expiringRows(expiring),
	}
	if path == PathKnownUser {
		resp.ActualPurchased = productRows(e.catalog.LookupMany(e.history.PurchasesByUser(*v.UserID)))
	}

	e.enrich(ctx, resp)

	resp.Metadata = ResponseMetadata{
		RequestID:    v.RequestID,
		Path:         path,
		UserID:       v.UserID,
		Mood:         v.Mood,
		MoodCategory: v.category,
		N:            v.N,
		Candidates:   candidates,
		LatencyMS:    e.now().Sub(start).Milliseconds(),
		Timestamp:    start,
	}

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("initial", len(resp.Initial)).
		Int("mood_related", len(resp.MoodRelated)).
		Int("close_to_exp", len(resp.CloseToExpiration)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	if e.events != nil {
		e.events.RecommendationServed(ctx, resp)
	}
	return resp, nil
}

//nolint:gocritic // hugeParam: v passed by value for immutability
func (e *Engine) requestLogger(v validated, path Path) zerolog.Logger {
	lc := e.logger.With().
		Str("request_id", v.RequestID).
		Str("path", string(path)).
		Str("mood", v.Mood).
		Int("n", v.N)
	if v.UserID != nil {
		lc = lc.Int("user_id", *v.UserID)
	}
	return lc.Logger()
}

// candidates runs the collaborative model for known users and the cold-start
// aggregator otherwise.
//
//nolint:gocritic // hugeParam: v passed by value for immutability
func (e *Engine) candidates(ctx context.Context, v validated, path Path) ([]int, error) {
	if path == PathNewUser {
		return e.coldStart.Generate(v.Aisles, v.N)
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.CandidateTimeout)
	defer cancel()

	userID := *v.UserID
	ids, _, err := e.source.Recommend(ctx, userID, e.history.InteractionRow(userID), v.N)
	if err != nil {
		return nil, err
	}
	if len(ids) > v.N {
		ids = ids[:v.N]
	}
	return ids, nil
}

// enrich fills presentation metadata on every row, one lookup per distinct
// product name. Lookups never fail, so neither does enrich.
func (e *Engine) enrich(ctx context.Context, resp *Response) {
	if e.enricher == nil || !e.config.Enrichment.Enabled {
		return
	}

	groups := [][]Row{resp.Initial, resp.MoodRelated, resp.CloseToExpiration, resp.ActualPurchased}
	names := make(map[string]*Presentation)
	for _, rows := range groups {
		for i := range rows {
			if _, ok := names[rows[i].ProductName]; !ok {
				names[rows[i].ProductName] = &Presentation{}
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Enrichment.Concurrency)
	for name, out := range names {
		g.Go(func() error {
			*out = e.enricher.Enrich(gctx, name)
			return nil
		})
	}
	_ = g.Wait()

	for _, rows := range groups {
		for i := range rows {
			rows[i].Presentation = *names[rows[i].ProductName]
		}
	}
}

func productRow(p *models.Product) Row {
	return Row{
		ProductID:   p.ID,
		ProductName: p.Name,
		Aisle:       p.Aisle,
		Department:  p.Department,
	}
}

func productRows(products []models.Product) []Row {
	rows := make([]Row, len(products))
	for i := range products {
		rows[i] = productRow(&products[i])
	}
	return rows
}

func neighborRows(neighbors []Neighbor[models.Product]) []Row {
	rows := make([]Row, len(neighbors))
	for i := range neighbors {
		rows[i] = productRow(&neighbors[i].Item)
		d := neighbors[i].Distance
		rows[i].Distance = &d
	}
	return rows
}

func expiringRows(neighbors []Neighbor[models.ExpiringProduct]) []Row {
	rows := make([]Row, len(neighbors))
	for i := range neighbors {
		item := neighbors[i].Item
		rows[i] = productRow(&item.Product)
		d, days := neighbors[i].Distance, item.DaysUntilExpiration
		rows[i].Distance = &d
		rows[i].DaysUntilExpiration = &days
	}
	return rows
}
