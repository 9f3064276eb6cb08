// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

// Package history indexes the purchase-count table by aisle and by user.
//
// Records whose product is not in the catalog have no aisle and are left out
// of the aisle index, matching a left join followed by an aisle filter.
// They stay in the user index.
package history

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodcart/internal/models"
)

// AisleResolver returns the aisle of a catalog product.
type AisleResolver interface {
	AisleOf(productID int) (int, bool)
}

// AisleNamer resolves aisle names for TopAisles.
type AisleNamer interface {
	Aisle(id int) (models.Aisle, bool)
}

// Store is the read-only purchase history.
type Store struct {
	byAisle     map[int][]models.PurchaseCount
	byUser      map[int][]models.PurchaseCount
	aisleTotals []models.AisleTotal
	records     int
}

// New indexes records. Aisle names are taken from resolver when it also
// implements AisleNamer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(records []models.PurchaseCount, resolver AisleResolver, logger zerolog.Logger) *Store {
	s := &Store{
		byAisle: make(map[int][]models.PurchaseCount),
		byUser:  make(map[int][]models.PurchaseCount),
		records: len(records),
	}

	totals := make(map[int]int)
	unresolved := 0
	for _, r := range records {
		s.byUser[r.UserID] = append(s.byUser[r.UserID], r)
		aisle, ok := resolver.AisleOf(r.ProductID)
		if !ok {
			unresolved++
			continue
		}
		s.byAisle[aisle] = append(s.byAisle[aisle], r)
		totals[aisle] += r.Count
	}

	namer, _ := resolver.(AisleNamer)
	s.aisleTotals = make([]models.AisleTotal, 0, len(totals))
	for id, total := range totals {
		a := models.Aisle{ID: id}
		if namer != nil {
			if named, ok := namer.Aisle(id); ok {
				a = named
			}
		}
		s.aisleTotals = append(s.aisleTotals, models.AisleTotal{Aisle: a, TotalPurchases: total})
	}
	sort.Slice(s.aisleTotals, func(i, j int) bool {
		if s.aisleTotals[i].TotalPurchases != s.aisleTotals[j].TotalPurchases {
			return s.aisleTotals[i].TotalPurchases > s.aisleTotals[j].TotalPurchases
		}
		return s.aisleTotals[i].ID < s.aisleTotals[j].ID
	})

	logger.Info().
		Int("records", len(records)).
		Int("users", len(s.byUser)).
		Int("aisles", len(s.byAisle)).
		Int("unresolved_products", unresolved).
		Msg("purchase history indexed")
	return s
}

// Len returns the number of purchase-count records.
func (s *Store) Len() int { return s.records }

// Users returns the number of distinct users.
func (s *Store) Users() int { return len(s.byUser) }

// PurchaseCountsByAisle returns the records of products in aisle, in table order.
func (s *Store) PurchaseCountsByAisle(aisleID int) []models.PurchaseCount {
	return s.byAisle[aisleID]
}

// PurchasesByUser returns the product ids a user has purchased, in table order.
func (s *Store) PurchasesByUser(userID int) []int {
	rows := s.byUser[userID]
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.ProductID
	}
	return out
}

// InteractionRow returns the user's row of the user-product matrix as
// product id to summed purchase count.
func (s *Store) InteractionRow(userID int) map[int]float64 {
	rows := s.byUser[userID]
	row := make(map[int]float64, len(rows))
	for _, r := range rows {
		row[r.ProductID] += float64(r.Count)
	}
	return row
}

// TopAisles returns up to limit aisles by total purchases, ties by aisle id.
func (s *Store) TopAisles(limit int) []models.AisleTotal {
	if limit <= 0 || limit > len(s.aisleTotals) {
		limit = len(s.aisleTotals)
	}
	out := make([]models.AisleTotal, limit)
	copy(out, s.aisleTotals[:limit])
	return out
}
