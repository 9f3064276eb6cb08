// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

// Package catalog holds the immutable product catalog and its facet views.
//
// Build joins the raw tables once at startup:
//
//	products ⋈ aisles ⋈ departments      (inner joins, unmatched products dropped)
//	catalog  ⋈ mood_categorized_aisles   (mood view only)
//	catalog  ⋈ products_with_expiration  (expiration view only)
//
// The inner joins are lossy on purpose: a product whose aisle or department
// does not resolve is left out of the catalog entirely. A product whose aisle
// has no mood mapping stays in the catalog but never appears in a mood view.
// Dropped rows are counted in BuildStats.
//
// A Catalog is never mutated after Build and is safe for concurrent readers.
// Slices returned by the view methods are shared and must not be modified.
package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodcart/internal/models"
)

// ProductRow is a row of the products table before any join.
type ProductRow struct {
	ID           int
	Name         string
	AisleID      int
	DepartmentID int
}

// MoodRow maps an aisle to a mood category.
type MoodRow struct {
	AisleID int
	Mood    string
}

// ExpirationRow assigns an expiration date to a product.
type ExpirationRow struct {
	ProductID int
	Date      time.Time
}

// Source is the set of raw tables a Catalog is built from.
type Source struct {
	Products    []ProductRow
	Aisles      []models.Aisle
	Departments []models.Department
	Moods       []MoodRow
	Expirations []ExpirationRow
}

// BuildStats counts what the joins kept and dropped.
type BuildStats struct {
	Products                int `json:"products"`
	DroppedUnknownAisle     int `json:"dropped_unknown_aisle"`
	DroppedUnknownDept      int `json:"dropped_unknown_department"`
	WithoutMood             int `json:"without_mood"`
	InvalidMoodRows         int `json:"invalid_mood_rows"`
	WithExpiration          int `json:"with_expiration"`
	OrphanExpirationRows    int `json:"orphan_expiration_rows"`
	DuplicateExpirationRows int `json:"duplicate_expiration_rows"`
}

// Catalog is the read-only product catalog.
type Catalog struct {
	products []models.Product
	index    map[int]int
	aisles   map[int]models.Aisle
	moods    map[models.MoodCategory][]models.Product
	expiring []int
	stats    BuildStats
}

// Build joins src into a Catalog. Product ids must be unique.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Build(src *Source, logger zerolog.Logger) (*Catalog, error) {
	aisles := make(map[int]models.Aisle, len(src.Aisles))
	for _, a := range src.Aisles {
		aisles[a.ID] = a
	}
	departments := make(map[int]models.Department, len(src.Departments))
	for _, d := range src.Departments {
		departments[d.ID] = d
	}

	c := &Catalog{
		products: make([]models.Product, 0, len(src.Products)),
		index:    make(map[int]int, len(src.Products)),
		aisles:   aisles,
		moods:    make(map[models.MoodCategory][]models.Product),
	}

	// products ⋈ aisles ⋈ departments
	for _, row := range src.Products {
		if _, dup := c.index[row.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d in products table", row.ID)
		}
		aisle, ok := aisles[row.AisleID]
		if !ok {
			c.stats.DroppedUnknownAisle++
			continue
		}
		dept, ok := departments[row.DepartmentID]
		if !ok {
			c.stats.DroppedUnknownDept++
			continue
		}
		c.index[row.ID] = len(c.products)
		c.products = append(c.products, models.Product{
			ID:           row.ID,
			Name:         row.Name,
			AisleID:      aisle.ID,
			Aisle:        aisle.Name,
			DepartmentID: dept.ID,
			Department:   dept.Name,
		})
	}

	c.joinMoods(src.Moods)
	c.joinExpirations(src.Expirations)
	c.buildMoodViews()

	c.stats.Products = len(c.products)
	logger.Info().
		Int("products", c.stats.Products).
		Int("dropped_unknown_aisle", c.stats.DroppedUnknownAisle).
		Int("dropped_unknown_department", c.stats.DroppedUnknownDept).
		Int("without_mood", c.stats.WithoutMood).
		Int("with_expiration", c.stats.WithExpiration).
		Msg("catalog built")
	if c.stats.InvalidMoodRows > 0 {
		logger.Warn().Int("rows", c.stats.InvalidMoodRows).Msg("ignored mood rows with unknown category")
	}
	return c, nil
}

// joinMoods attaches the first valid mood mapping of each aisle.
func (c *Catalog) joinMoods(rows []MoodRow) {
	byAisle := make(map[int]models.MoodCategory, len(rows))
	for _, row := range rows {
		mood := models.MoodCategory(row.Mood)
		if !mood.Valid() {
			c.stats.InvalidMoodRows++
			continue
		}
		if _, seen := byAisle[row.AisleID]; !seen {
			byAisle[row.AisleID] = mood
		}
	}
	for i := range c.products {
		mood, ok := byAisle[c.products[i].AisleID]
		if !ok {
			c.stats.WithoutMood++
			continue
		}
		c.products[i].Mood = mood
	}
}

// joinExpirations attaches the first expiration date of each product.
func (c *Catalog) joinExpirations(rows []ExpirationRow) {
	for _, row := range rows {
		i, ok := c.index[row.ProductID]
		if !ok {
			c.stats.OrphanExpirationRows++
			continue
		}
		if c.products[i].ExpiresOn != nil {
			c.stats.DuplicateExpirationRows++
			continue
		}
		date := row.Date
		c.products[i].ExpiresOn = &date
		c.expiring = append(c.expiring, i)
	}
	sort.Ints(c.expiring)
	c.stats.WithExpiration = len(c.expiring)
}

func (c *Catalog) buildMoodViews() {
	for _, p := range c.products {
		if p.Mood != "" {
			c.moods[p.Mood] = append(c.moods[p.Mood], p)
		}
	}
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Stats returns the join statistics recorded by Build.
func (c *Catalog) Stats() BuildStats {
	return c.stats
}

// Product returns the product with the given id.
func (c *Catalog) Product(id int) (models.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// AisleOf returns the aisle id of a catalog product.
func (c *Catalog) AisleOf(productID int) (int, bool) {
	i, ok := c.index[productID]
	if !ok {
		return 0, false
	}
	return c.products[i].AisleID, true
}

// Aisle returns an aisle row by id.
func (c *Catalog) Aisle(id int) (models.Aisle, bool) {
	a, ok := c.aisles[id]
	return a, ok
}

// LookupMany returns the catalog products whose id is in ids, in catalog
// row order. Unknown ids are skipped and duplicates collapse.
func (c *Catalog) LookupMany(ids []int) []models.Product {
	if len(ids) == 0 {
		return []models.Product{}
	}
	rows := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		i, ok := c.index[id]
		if !ok {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		rows = append(rows, i)
	}
	sort.Ints(rows)

	out := make([]models.Product, len(rows))
	for j, i := range rows {
		out[j] = c.products[i]
	}
	return out
}

// ViewByMood returns the products whose aisle maps to category.
func (c *Catalog) ViewByMood(category models.MoodCategory) []models.Product {
	return c.moods[category]
}

// ViewByExpiration returns products expiring within maxDays of now, that is
// with 0 < days_until_expiration <= maxDays. Days are computed per call.
func (c *Catalog) ViewByExpiration(now time.Time, maxDays int) []models.ExpiringProduct {
	out := make([]models.ExpiringProduct, 0)
	for _, i := range c.expiring {
		p := c.products[i]
		days, _ := p.DaysUntilExpiration(now)
		if days > 0 && days <= maxDays {
			out = append(out, models.ExpiringProduct{Product: p, DaysUntilExpiration: days})
		}
	}
	return out
}

// MoodCounts returns the size of each mood view.
func (c *Catalog) MoodCounts() map[models.MoodCategory]int {
	counts := make(map[models.MoodCategory]int, len(c.moods))
	for mood, products := range c.moods {
		counts[mood] = len(products)
	}
	return counts
}
