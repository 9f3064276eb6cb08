// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package recommend

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/moodcart/internal/models"
)

func TestQuota(t *testing.T) {
	tests := []struct {
		n, k, want int
	}{
		{5, 2, 2},
		{10, 3, 3},
		{2, 5, 1},
		{0, 1, 1},
		{10, 1, 10},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := Quota(tt.n, tt.k); got != tt.want {
			t.Errorf("Quota(%d, %d) = %d, want %d", tt.n, tt.k, got, tt.want)
		}
	}
}

func TestParseAisles(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []int
		wantErr bool
	}{
		{"pair", "3,7", []int{3, 7}, false},
		{"spaces", " 3 , 7 ", []int{3, 7}, false},
		{"blank entries", "3,,7,", []int{3, 7}, false},
		{"duplicates", "7,3,7", []int{7, 3}, false},
		{"single", "24", []int{24}, false},
		{"not a number", "3,seven", nil, true},
		{"float", "3.5", nil, true},
		{"only commas", ",,", nil, true},
		{"empty", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAisles(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, models.ErrInvalidRequest) {
					t.Errorf("ParseAisles(%q) error = %v, want ErrInvalidRequest", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAisles(%q) error = %v", tt.raw, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseAisles(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestColdStart_Generate(t *testing.T) {
	c := &fakeCatalog{products: testProducts()}
	cs := NewColdStart(&fakeHistory{records: testRecords(), catalog: c})

	tests := []struct {
		name   string
		aisles []int
		n      int
		want   []int
	}{
		// Aisle 1 totals: 1→12, 2→7, 3→2. Aisle 2: 4→3, 5→3.
		{"two aisles", []int{1, 2}, 5, []int{1, 2, 4, 5}},
		{"aisle order kept", []int{2, 1}, 5, []int{4, 5, 1, 2}},
		{"quota one", []int{1, 2, 3}, 2, []int{1, 4, 6}},
		{"large quota", []int{1}, 10, []int{1, 2, 3}},
		{"aisle without history", []int{1, 9}, 4, []int{1, 2}},
		{"only unknown aisles", []int{8, 9}, 4, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cs.Generate(tt.aisles, tt.n)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Generate(%v, %d) = %v, want %v", tt.aisles, tt.n, got, tt.want)
			}
			if limit := Quota(tt.n, len(tt.aisles)) * len(tt.aisles); len(got) > limit {
				t.Errorf("Generate() returned %d ids, more than %d", len(got), limit)
			}
		})
	}
}

func TestColdStart_GenerateNoAisles(t *testing.T) {
	cs := NewColdStart(&fakeHistory{catalog: &fakeCatalog{}})
	if _, err := cs.Generate(nil, 5); !errors.Is(err, models.ErrInvalidRequest) {
		t.Errorf("Generate(nil) error = %v, want ErrInvalidRequest", err)
	}
}
