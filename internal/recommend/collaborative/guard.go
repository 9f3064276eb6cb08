// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package collaborative

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodcart/internal/breaker"
	"github.com/tomtom215/moodcart/internal/models"
	"github.com/tomtom215/moodcart/internal/recommend"
)

// ErrUnavailable is returned while the circuit around the model is open.
var ErrUnavailable = errors.New("collaborative model unavailable")

type candidates struct {
	ids    []int
	scores []float64
}

// Guarded wraps a CandidateSource in a circuit breaker. Unknown users and
// cancelled requests do not count as failures.
type Guarded struct {
	source  recommend.CandidateSource
	breaker *breaker.Breaker[candidates]
}

// NewGuarded wraps source.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGuarded(source recommend.CandidateSource, cfg breaker.Config, logger zerolog.Logger) *Guarded {
	return &Guarded{
		source:  source,
		breaker: breaker.New[candidates]("collaborative", cfg, benign, logger),
	}
}

func benign(err error) bool {
	return errors.Is(err, models.ErrUnknownUser) ||
		errors.Is(err, context.Canceled)
}

// Recommend implements recommend.CandidateSource.
func (g *Guarded) Recommend(ctx context.Context, userID int, row map[int]float64, n int) ([]int, []float64, error) {
	result, err := g.breaker.Execute(func() (candidates, error) {
		ids, scores, err := g.source.Recommend(ctx, userID, row, n)
		return candidates{ids: ids, scores: scores}, err
	})
	if breaker.IsRejected(err) {
		return nil, nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err != nil {
		return nil, nil, err
	}
	return result.ids, result.scores, nil
}

// State returns the breaker state.
func (g *Guarded) State() string {
	return g.breaker.State()
}
