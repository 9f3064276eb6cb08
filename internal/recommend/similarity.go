// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package recommend

import (
	"fmt"
	"sort"
)

// DefaultThreshold is the largest squared distance treated as similar.
const DefaultThreshold = 0.0001

// Keyed is a facet view row identified by product id.
type Keyed interface {
	Key() int
}

// Neighbor pairs a view row with its distance to an anchor product.
// Rows are never modified; the distance lives beside them.
type Neighbor[T Keyed] struct {
	Item     T
	Anchor   int
	Distance float64
}

// SquaredDistance returns the squared Euclidean distance between a and b.
// The vectors must have equal length.
func SquaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Neighbors scans view for rows whose embedding lies within threshold of the
// anchor's embedding, excluding exact matches (distance 0). Result rows keep
// view order. A missing embedding for the anchor or any view row is an error.
func Neighbors[T Keyed](vectors Vectors, anchor int, view []T, threshold float64) ([]Neighbor[T], error) {
	if len(view) == 0 {
		return nil, nil
	}
	viewVectors, err := vectors.VectorsOf(keys(view))
	if err != nil {
		return nil, fmt.Errorf("view embeddings: %w", err)
	}
	return neighborsOf(vectors, anchor, view, viewVectors, threshold)
}

// FuseNeighbors runs Neighbors for every anchor against the same view,
// concatenates the rows, sorts them by ascending distance (stable, so ties
// keep anchor order then view order), keeps the closest row per product and
// truncates to n.
func FuseNeighbors[T Keyed](vectors Vectors, anchors []int, view []T, n int, threshold float64) ([]Neighbor[T], error) {
	if len(anchors) == 0 || len(view) == 0 || n <= 0 {
		return []Neighbor[T]{}, nil
	}

	viewVectors, err := vectors.VectorsOf(keys(view))
	if err != nil {
		return nil, fmt.Errorf("view embeddings: %w", err)
	}

	var all []Neighbor[T]
	for _, anchor := range anchors {
		rows, err := neighborsOf(vectors, anchor, view, viewVectors, threshold)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Distance < all[j].Distance
	})

	out := make([]Neighbor[T], 0, min(n, len(all)))
	seen := make(map[int]struct{}, n)
	for _, row := range all {
		if len(out) == n {
			break
		}
		id := row.Item.Key()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, row)
	}
	return out, nil
}

func neighborsOf[T Keyed](vectors Vectors, anchor int, view []T, viewVectors [][]float64, threshold float64) ([]Neighbor[T], error) {
	origin, err := vectors.VectorOf(anchor)
	if err != nil {
		return nil, fmt.Errorf("anchor embedding: %w", err)
	}

	var out []Neighbor[T]
	for i, v := range viewVectors {
		if len(v) != len(origin) {
			return nil, fmt.Errorf("embedding dimension mismatch: product %d has %d, anchor %d has %d",
				view[i].Key(), len(v), anchor, len(origin))
		}
		d := SquaredDistance(origin, v)
		if d > 0 && d <= threshold {
			out = append(out, Neighbor[T]{Item: view[i], Anchor: anchor, Distance: d})
		}
	}
	return out, nil
}

func keys[T Keyed](view []T) []int {
	out := make([]int, len(view))
	for i, row := range view {
		out[i] = row.Key()
	}
	return out
}
