// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

// Package expiration assigns synthetic expiration dates to the catalog.
//
// Every product first gets a date up to a year out. Perishable departments
// then have most of their products pulled into the coming week, and a small
// share of every other department is pulled into the coming month, so the
// close-to-expiration group always has something to show.
package expiration

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodcart/internal/database"
)

// Rule pulls a share of one department's products forward. Dates are drawn
// uniformly from [1, MaxDays] days after today.
type Rule struct {
	Share   float64
	MaxDays int
}

// Config controls the assignment.
type Config struct {
	// DefaultMaxDays bounds the initial date for every product.
	DefaultMaxDays int

	// Perishable departments get PerishableRules, applied in order.
	Perishable      []string
	PerishableRules []Rule

	// OtherRule applies to every department not in Perishable.
	OtherRule Rule
}

// DefaultConfig returns the dataset's standard assignment.
func DefaultConfig() Config {
	return Config{
		DefaultMaxDays: 364,
		Perishable:     []string{"produce", "bakery", "meat seafood"},
		PerishableRules: []Rule{
			{Share: 0.045, MaxDays: 2},
			{Share: 0.955, MaxDays: 6},
		},
		OtherRule: Rule{Share: 0.02, MaxDays: 29},
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.DefaultMaxDays < 1 {
		return fmt.Errorf("default max days must be at least 1, got %d", c.DefaultMaxDays)
	}
	rules := append([]Rule{c.OtherRule}, c.PerishableRules...)
	for _, r := range rules {
		if r.Share < 0 || r.Share > 1 {
			return fmt.Errorf("rule share must be within [0, 1], got %v", r.Share)
		}
		if r.MaxDays < 1 {
			return fmt.Errorf("rule max days must be at least 1, got %d", r.MaxDays)
		}
	}
	return nil
}

// Assigner draws expiration dates from a seeded source.
type Assigner struct {
	cfg    Config
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewAssigner creates an Assigner. The same seed yields the same dates.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAssigner(cfg Config, seed uint64, logger zerolog.Logger) (*Assigner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid expiration config: %w", err)
	}
	return &Assigner{
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger: logger.With().Str("component", "expiration").Logger(),
	}, nil
}

// Assign returns products with an expiration date relative to today's
// calendar day. Input order is preserved.
func (a *Assigner) Assign(products []database.ProductDepartment, today time.Time) []database.ExpirationAssignment {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	out := make([]database.ExpirationAssignment, len(products))
	byDept := make(map[string][]int)
	var order []string
	for i, p := range products {
		out[i] = database.ExpirationAssignment{
			ProductDepartment: p,
			ExpirationDate:    a.draw(day, a.cfg.DefaultMaxDays),
		}
		if _, seen := byDept[p.Department]; !seen {
			order = append(order, p.Department)
		}
		byDept[p.Department] = append(byDept[p.Department], i)
	}

	perishable := make(map[string]bool, len(a.cfg.Perishable))
	for _, d := range a.cfg.Perishable {
		perishable[d] = true
	}

	// Perishable rules run before the others, each sampling independently
	// from the whole department.
	for _, dept := range a.cfg.Perishable {
		for _, rule := range a.cfg.PerishableRules {
			a.apply(out, byDept[dept], rule, day)
		}
	}
	for _, dept := range order {
		if perishable[dept] {
			continue
		}
		a.apply(out, byDept[dept], a.cfg.OtherRule, day)
	}

	a.logger.Debug().Int("products", len(out)).Int("departments", len(order)).Msg("expiration dates assigned")
	return out
}

// apply redraws the dates of a sample of size floor(len(indices)*share),
// chosen without replacement.
func (a *Assigner) apply(out []database.ExpirationAssignment, indices []int, rule Rule, day time.Time) {
	size := int(float64(len(indices)) * rule.Share)
	if size == 0 {
		return
	}
	for _, idx := range a.sample(indices, size) {
		out[idx].ExpirationDate = a.draw(day, rule.MaxDays)
	}
}

// sample picks k distinct elements with a partial Fisher-Yates shuffle.
func (a *Assigner) sample(indices []int, k int) []int {
	pool := append([]int(nil), indices...)
	for i := 0; i < k; i++ {
		j := i + a.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

func (a *Assigner) draw(day time.Time, maxDays int) time.Time {
	return day.AddDate(0, 0, 1+a.rng.IntN(maxDays))
}
