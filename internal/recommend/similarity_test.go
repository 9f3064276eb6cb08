// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package recommend

import (
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/moodcart/internal/models"
)

func TestSquaredDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"unit step", []float64{0, 0}, []float64{1, 0}, 1},
		{"pythagorean", []float64{0, 0}, []float64{3, 4}, 25},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SquaredDistance(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("SquaredDistance() = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestNeighbors(t *testing.T) {
	c := &fakeCatalog{products: testProducts()}
	view := c.ViewByMood(models.MoodPositive)

	got, err := Neighbors(testVectors(), 1, view, DefaultThreshold)
	if err != nil {
		t.Fatalf("Neighbors() error = %v", err)
	}

	wantIDs := []int{2, 3}
	if len(got) != len(wantIDs) {
		t.Fatalf("Neighbors() returned %d rows, want %d", len(got), len(wantIDs))
	}
	for i, n := range got {
		if n.Item.ID != wantIDs[i] {
			t.Errorf("row %d id = %d, want %d", i, n.Item.ID, wantIDs[i])
		}
		if n.Anchor != 1 {
			t.Errorf("row %d anchor = %d, want 1", i, n.Anchor)
		}
		if n.Distance <= 0 || n.Distance > DefaultThreshold {
			t.Errorf("row %d distance %g outside (0, %g]", i, n.Distance, DefaultThreshold)
		}
	}
}

func TestNeighbors_EmptyView(t *testing.T) {
	got, err := Neighbors[models.Product](testVectors(), 1, nil, DefaultThreshold)
	if err != nil {
		t.Fatalf("Neighbors() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Neighbors() = %v, want empty", got)
	}
}

func TestFuseNeighbors(t *testing.T) {
	c := &fakeCatalog{products: testProducts()}
	view := c.ViewByMood(models.MoodPositive)

	tests := []struct {
		name    string
		anchors []int
		n       int
		want    []int
	}{
		{"two anchors", []int{1, 4}, 3, []int{1, 2, 3}},
		{"truncated", []int{1, 4}, 2, []int{1, 2}},
		{"single anchor", []int{1}, 5, []int{2, 3}},
		{"far anchor", []int{5}, 3, []int{}},
		{"no anchors", nil, 3, []int{}},
		{"zero n", []int{1, 4}, 0, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FuseNeighbors(testVectors(), tt.anchors, view, tt.n, DefaultThreshold)
			if err != nil {
				t.Fatalf("FuseNeighbors() error = %v", err)
			}
			if got == nil {
				t.Fatal("FuseNeighbors() returned nil, want empty slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("FuseNeighbors() returned %d rows, want %d", len(got), len(tt.want))
			}
			for i, n := range got {
				if n.Item.ID != tt.want[i] {
					t.Errorf("row %d id = %d, want %d", i, n.Item.ID, tt.want[i])
				}
				if i > 0 && got[i-1].Distance > n.Distance {
					t.Errorf("rows not sorted: %g before %g", got[i-1].Distance, n.Distance)
				}
			}
		})
	}
}

func TestFuseNeighbors_KeepsClosestPerProduct(t *testing.T) {
	c := &fakeCatalog{products: testProducts()}
	view := c.ViewByMood(models.MoodPositive)

	got, err := FuseNeighbors(testVectors(), []int{1, 4}, view, 10, DefaultThreshold)
	if err != nil {
		t.Fatalf("FuseNeighbors() error = %v", err)
	}

	seen := make(map[int]bool)
	for _, n := range got {
		if seen[n.Item.ID] {
			t.Errorf("product %d appears twice", n.Item.ID)
		}
		seen[n.Item.ID] = true
	}

	// Product 2 is 9e-6 from anchor 4 and 2.5e-5 from anchor 1.
	for _, n := range got {
		if n.Item.ID == 2 && n.Anchor != 4 {
			t.Errorf("product 2 anchored to %d, want 4", n.Anchor)
		}
	}
}

func TestFuseNeighbors_StableTies(t *testing.T) {
	c := &fakeCatalog{products: testProducts()}
	view := c.ViewByExpiration(testNow, 15)

	// Products 4 and 1 are equidistant from anchors 1 and 4; anchor order wins.
	got, err := FuseNeighbors(testVectors(), []int{1, 4}, view, 3, DefaultThreshold)
	if err != nil {
		t.Fatalf("FuseNeighbors() error = %v", err)
	}
	want := []int{4, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("FuseNeighbors() returned %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Item.ID != want[i] {
			t.Errorf("row %d id = %d, want %d", i, got[i].Item.ID, want[i])
		}
	}
}

func TestFuseNeighbors_Errors(t *testing.T) {
	c := &fakeCatalog{products: testProducts()}
	view := c.ViewByMood(models.MoodPositive)

	t.Run("unknown anchor", func(t *testing.T) {
		_, err := FuseNeighbors(testVectors(), []int{1, 99}, view, 3, DefaultThreshold)
		if !errors.Is(err, models.ErrUnknownProduct) {
			t.Errorf("error = %v, want ErrUnknownProduct", err)
		}
	})

	t.Run("view row without embedding", func(t *testing.T) {
		vectors := testVectors()
		delete(vectors, 3)
		_, err := FuseNeighbors(vectors, []int{1}, view, 3, DefaultThreshold)
		if !errors.Is(err, models.ErrUnknownProduct) {
			t.Errorf("error = %v, want ErrUnknownProduct", err)
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		vectors := testVectors()
		vectors[1] = []float64{0.5, 0.5, 0.5}
		_, err := FuseNeighbors(vectors, []int{1}, view, 3, DefaultThreshold)
		if err == nil {
			t.Error("expected dimension mismatch error")
		}
	})
}
