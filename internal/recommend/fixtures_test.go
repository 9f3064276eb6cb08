// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package recommend

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/moodcart/internal/models"
)

var testNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func expiresIn(days int) *time.Time {
	t := time.Date(2026, 6, 1+days, 12, 0, 0, 0, time.UTC)
	return &t
}

// testProducts is a small catalog. Products 1, 2, 3, 4 and 6 sit within
// 0.01 of each other in embedding space; 5 and 7 are far away.
func testProducts() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Banana", AisleID: 1, Aisle: "fresh fruits", Department: "produce", Mood: models.MoodPositive, ExpiresOn: expiresIn(3)},
		{ID: 2, Name: "Honeycrisp Apple", AisleID: 1, Aisle: "fresh fruits", Department: "produce", Mood: models.MoodPositive, ExpiresOn: expiresIn(10)},
		{ID: 3, Name: "Strawberries", AisleID: 1, Aisle: "fresh fruits", Department: "produce", Mood: models.MoodPositive, ExpiresOn: expiresIn(40)},
		{ID: 4, Name: "Sharp Cheddar", AisleID: 2, Aisle: "packaged cheese", Department: "dairy eggs", Mood: models.MoodNegative, ExpiresOn: expiresIn(5)},
		{ID: 5, Name: "Brie", AisleID: 2, Aisle: "packaged cheese", Department: "dairy eggs", Mood: models.MoodNegative},
		{ID: 6, Name: "Tomato Soup", AisleID: 3, Aisle: "soup broth bouillon", Department: "canned goods", Mood: models.MoodUnclassified, ExpiresOn: expiresIn(-2)},
		{ID: 7, Name: "Dried Mango", AisleID: 1, Aisle: "fresh fruits", Department: "produce", Mood: models.MoodPositive, ExpiresOn: expiresIn(4)},
	}
}

func testVectors() fakeVectors {
	return fakeVectors{
		1: {0.5, 0.5},
		2: {0.505, 0.5},
		3: {0.5, 0.508},
		4: {0.502, 0.5},
		5: {0.9, 0.9},
		6: {0.501, 0.501},
		7: {0.1, 0.1},
	}
}

func testRecords() []models.PurchaseCount {
	return []models.PurchaseCount{
		{UserID: 1, ProductID: 1, Count: 5},
		{UserID: 1, ProductID: 2, Count: 7},
		{UserID: 1, ProductID: 3, Count: 2},
		{UserID: 2, ProductID: 1, Count: 4},
		{UserID: 2, ProductID: 4, Count: 3},
		{UserID: 2, ProductID: 5, Count: 3},
		{UserID: 42, ProductID: 1, Count: 3},
		{UserID: 42, ProductID: 6, Count: 1},
		{UserID: 43, ProductID: 6, Count: 0},
	}
}

type fakeVectors map[int][]float64

func (v fakeVectors) VectorOf(id int) ([]float64, error) {
	vec, ok := v[id]
	if !ok {
		return nil, &models.UnknownProductError{ProductID: id, Source: "test embeddings"}
	}
	return vec, nil
}

func (v fakeVectors) VectorsOf(ids []int) ([][]float64, error) {
	out := make([][]float64, len(ids))
	for i, id := range ids {
		vec, err := v.VectorOf(id)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

type fakeCatalog struct {
	products []models.Product
}

func (c *fakeCatalog) LookupMany(ids []int) []models.Product {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]models.Product, 0, len(ids))
	for _, p := range c.products {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func (c *fakeCatalog) ViewByMood(category models.MoodCategory) []models.Product {
	var out []models.Product
	for _, p := range c.products {
		if p.Mood == category {
			out = append(out, p)
		}
	}
	return out
}

func (c *fakeCatalog) ViewByExpiration(now time.Time, maxDays int) []models.ExpiringProduct {
	var out []models.ExpiringProduct
	for i := range c.products {
		days, ok := c.products[i].DaysUntilExpiration(now)
		if ok && days > 0 && days <= maxDays {
			out = append(out, models.ExpiringProduct{Product: c.products[i], DaysUntilExpiration: days})
		}
	}
	return out
}

func (c *fakeCatalog) aisleOf(productID int) (int, bool) {
	for _, p := range c.products {
		if p.ID == productID {
			return p.AisleID, true
		}
	}
	return 0, false
}

type fakeHistory struct {
	records []models.PurchaseCount
	catalog *fakeCatalog
}

func (h *fakeHistory) PurchaseCountsByAisle(aisleID int) []models.PurchaseCount {
	var out []models.PurchaseCount
	for _, r := range h.records {
		if aisle, ok := h.catalog.aisleOf(r.ProductID); ok && aisle == aisleID {
			out = append(out, r)
		}
	}
	return out
}

func (h *fakeHistory) PurchasesByUser(userID int) []int {
	out := []int{}
	for _, r := range h.records {
		if r.UserID == userID {
			out = append(out, r.ProductID)
		}
	}
	return out
}

func (h *fakeHistory) InteractionRow(userID int) map[int]float64 {
	row := make(map[int]float64)
	for _, r := range h.records {
		if r.UserID == userID {
			row[r.ProductID] += float64(r.Count)
		}
	}
	return row
}

// fakeSource returns fixed candidates per user and counts calls.
type fakeSource struct {
	candidates map[int][]int
	err        error
	calls      atomic.Int32
}

func (s *fakeSource) Recommend(_ context.Context, userID int, _ map[int]float64, n int) ([]int, []float64, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, nil, s.err
	}
	ids, ok := s.candidates[userID]
	if !ok {
		return nil, nil, &models.UnknownUserError{UserID: userID, Source: "test model"}
	}
	if len(ids) > n {
		ids = ids[:n]
	}
	scores := make([]float64, len(ids))
	for i := range ids {
		scores[i] = float64(len(ids) - i)
	}
	return ids, scores, nil
}

type fakeEnricher struct {
	calls atomic.Int32
}

func (f *fakeEnricher) Enrich(_ context.Context, name string) Presentation {
	f.calls.Add(1)
	price := "$1.99"
	return Presentation{ImageURL: "https://img.example/" + name, Price: &price}
}

type fakeSink struct {
	mu    sync.Mutex
	resps []*Response
}

func (s *fakeSink) RecommendationServed(_ context.Context, resp *Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resps = append(s.resps, resp)
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.resps)
}
