// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

// Package collaborative serves candidates from a pretrained implicit-feedback
// matrix factorization model.
//
// The model is the pair of factor tables produced offline by alternating
// least squares: one vector per user (X) and one per product (Y), sharing a
// dimension. A user's score for a product is the dot product x_u' * y_i.
// Training happens elsewhere; this package only ranks.
package collaborative

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/moodcart/internal/models"
)

// ctxCheckInterval is how many items are scored between context checks.
const ctxCheckInterval = 4096

// FactorModel ranks products for a user by factor dot product.
type FactorModel struct {
	// X maps user id to user factors.
	X map[int][]float64

	// Y maps product id to item factors.
	Y map[int][]float64

	// items holds the ids of Y in ascending order so scans are deterministic.
	items []int

	dim int

	// filterPurchased drops products already in the user's interaction row.
	filterPurchased bool
}

// Option configures a FactorModel.
type Option func(*FactorModel)

// WithPurchasedFiltering controls whether products the user already bought
// are excluded from the ranking. Enabled by default.
func WithPurchasedFiltering(enabled bool) Option {
	return func(m *FactorModel) {
		m.filterPurchased = enabled
	}
}

// NewFactorModel validates the factor tables. Every vector in both tables
// must have the same non-zero dimension.
func NewFactorModel(userFactors, itemFactors map[int][]float64, opts ...Option) (*FactorModel, error) {
	if len(userFactors) == 0 || len(itemFactors) == 0 {
		return nil, fmt.Errorf("factor tables must not be empty: %d users, %d items", len(userFactors), len(itemFactors))
	}

	dim := -1
	check := func(kind string, id int, v []float64) error {
		if dim == -1 {
			dim = len(v)
		}
		if len(v) == 0 || len(v) != dim {
			return fmt.Errorf("%s %d has %d factors, want %d", kind, id, len(v), dim)
		}
		return nil
	}
	for id, v := range userFactors {
		if err := check("user", id, v); err != nil {
			return nil, err
		}
	}
	for id, v := range itemFactors {
		if err := check("item", id, v); err != nil {
			return nil, err
		}
	}

	items := make([]int, 0, len(itemFactors))
	for id := range itemFactors {
		items = append(items, id)
	}
	sort.Ints(items)

	m := &FactorModel{
		X:               userFactors,
		Y:               itemFactors,
		items:           items,
		dim:             dim,
		filterPurchased: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Factors returns the latent dimension.
func (m *FactorModel) Factors() int { return m.dim }

// Users returns the number of users with factors.
func (m *FactorModel) Users() int { return len(m.X) }

// Items returns the number of products with factors.
func (m *FactorModel) Items() int { return len(m.Y) }

type scored struct {
	id    int
	score float64
}

// Recommend returns up to n product ids ranked by descending score, ties by
// ascending id, with their scores. A user without factors is an
// UnknownUserError.
func (m *FactorModel) Recommend(ctx context.Context, userID int, row map[int]float64, n int) ([]int, []float64, error) {
	userVec, ok := m.X[userID]
	if !ok {
		return nil, nil, &models.UnknownUserError{UserID: userID, Source: "collaborative model"}
	}
	if n <= 0 {
		return []int{}, []float64{}, nil
	}

	ranked := make([]scored, 0, len(m.items))
	for i, itemID := range m.items {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, fmt.Errorf("scoring user %d: %w", userID, err)
			}
		}
		if m.filterPurchased && row[itemID] > 0 {
			continue
		}

		// score = x_u' * y_i
		itemVec := m.Y[itemID]
		var score float64
		for f := range userVec {
			score += userVec[f] * itemVec[f]
		}
		ranked = append(ranked, scored{id: itemID, score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	ids := make([]int, len(ranked))
	scores := make([]float64, len(ranked))
	for i, s := range ranked {
		ids[i] = s.id
		scores[i] = s.score
	}
	return ids, scores, nil
}
