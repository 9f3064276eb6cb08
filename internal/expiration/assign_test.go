// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package expiration

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodcart/internal/database"
)

var today = time.Date(2026, 6, 1, 15, 30, 0, 0, time.UTC)

func catalogOf(counts map[string]int) []database.ProductDepartment {
	var out []database.ProductDepartment
	id := 1
	for _, dept := range []string{"produce", "bakery", "meat seafood", "dairy eggs", "pantry"} {
		for i := 0; i < counts[dept]; i++ {
			out = append(out, database.ProductDepartment{ProductID: id, ProductName: dept, Department: dept})
			id++
		}
	}
	return out
}

func daysOut(r database.ExpirationAssignment) int {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(r.ExpirationDate.Sub(day).Hours() / 24)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"zero max days", func(c *Config) { c.DefaultMaxDays = 0 }, true},
		{"share above one", func(c *Config) { c.OtherRule.Share = 1.5 }, true},
		{"negative share", func(c *Config) { c.PerishableRules[0].Share = -0.1 }, true},
		{"rule without days", func(c *Config) { c.PerishableRules[1].MaxDays = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if _, err := NewAssigner(cfg, 1, zerolog.Nop()); (err != nil) != tt.wantErr {
				t.Errorf("NewAssigner() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAssign_Ranges(t *testing.T) {
	a, err := NewAssigner(DefaultConfig(), 7, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAssigner() error = %v", err)
	}
	products := catalogOf(map[string]int{"produce": 200, "bakery": 40, "meat seafood": 40, "dairy eggs": 100, "pantry": 100})
	got := a.Assign(products, today)

	if len(got) != len(products) {
		t.Fatalf("Assign() returned %d rows, want %d", len(got), len(products))
	}

	withinWeek := make(map[string]int)
	withinMonth := 0
	for i, r := range got {
		if r.ProductID != products[i].ProductID {
			t.Fatalf("row %d is product %d, want input order", i, r.ProductID)
		}
		d := daysOut(r)
		if d < 1 || d > 364 {
			t.Errorf("product %d expires in %d days, want [1, 364]", r.ProductID, d)
		}
		if r.ExpirationDate.Hour() != 0 || r.ExpirationDate.Minute() != 0 {
			t.Errorf("product %d date %v is not a calendar day", r.ProductID, r.ExpirationDate)
		}
		switch r.Department {
		case "produce", "bakery", "meat seafood":
			if d <= 6 {
				withinWeek[r.Department]++
			}
		default:
			if d <= 29 {
				withinMonth++
			}
		}
	}

	// floor(n*0.955) perishables per department are redrawn into the week.
	for dept, want := range map[string]int{"produce": 191, "bakery": 38, "meat seafood": 38} {
		if withinWeek[dept] < want {
			t.Errorf("%s within a week = %d, want at least %d", dept, withinWeek[dept], want)
		}
	}
	// 2% of 100 is 2 per non-perishable department.
	if withinMonth < 4 {
		t.Errorf("near-expiry non-perishables = %d, want at least 4", withinMonth)
	}
}

func TestAssign_PerishablesMostlyWithinWeek(t *testing.T) {
	a, err := NewAssigner(DefaultConfig(), 11, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAssigner() error = %v", err)
	}
	got := a.Assign(catalogOf(map[string]int{"produce": 1000}), today)

	week := 0
	for _, r := range got {
		if daysOut(r) <= 6 {
			week++
		}
	}
	// floor(1000*0.955) = 955 products are redrawn into [1, 6].
	if week < 955 {
		t.Errorf("%d produce items within a week, want at least 955", week)
	}
}

func TestAssign_Deterministic(t *testing.T) {
	products := catalogOf(map[string]int{"produce": 30, "pantry": 70})

	a1, _ := NewAssigner(DefaultConfig(), 42, zerolog.Nop())
	a2, _ := NewAssigner(DefaultConfig(), 42, zerolog.Nop())
	first := a1.Assign(products, today)
	second := a2.Assign(products, today)

	for i := range first {
		if !first[i].ExpirationDate.Equal(second[i].ExpirationDate) {
			t.Fatalf("row %d differs between runs with the same seed", i)
		}
	}
}

func TestAssign_SmallDepartmentsUnchanged(t *testing.T) {
	cfg := Config{
		DefaultMaxDays:  1,
		Perishable:      []string{"produce"},
		PerishableRules: []Rule{{Share: 0.5, MaxDays: 1}},
		OtherRule:       Rule{Share: 0.02, MaxDays: 1},
	}
	a, err := NewAssigner(cfg, 3, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAssigner() error = %v", err)
	}
	// int(10 * 0.02) is 0, so pantry keeps its default draw.
	got := a.Assign(catalogOf(map[string]int{"pantry": 10}), today)
	for _, r := range got {
		if daysOut(r) != 1 {
			t.Errorf("product %d expires in %d days, want 1", r.ProductID, daysOut(r))
		}
	}
}

func TestSample_Distinct(t *testing.T) {
	a, _ := NewAssigner(DefaultConfig(), 5, zerolog.Nop())
	indices := []int{10, 11, 12, 13, 14, 15}
	picked := a.sample(indices, 6)

	seen := make(map[int]bool)
	for _, i := range picked {
		if seen[i] {
			t.Fatalf("sample() repeated %d: %v", i, picked)
		}
		seen[i] = true
	}
	if indices[0] != 10 || indices[5] != 15 {
		t.Errorf("sample() mutated its input: %v", indices)
	}
}
