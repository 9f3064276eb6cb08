// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package embedding

import (
	"errors"
	"testing"

	"github.com/tomtom215/moodcart/internal/models"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		products map[int][]float64
		users    map[int][]float64
		wantDim  int
		wantErr  bool
	}{
		{
			name:     "uniform",
			products: map[int][]float64{1: {0, 1}, 2: {1, 0}},
			users:    map[int][]float64{42: {0.5, 0.5, 0.5}},
			wantDim:  2,
		},
		{
			name:     "ragged products",
			products: map[int][]float64{1: {0, 1}, 2: {1, 0, 3}},
			wantErr:  true,
		},
		{
			name:     "empty vector",
			products: map[int][]float64{1: {}},
			wantErr:  true,
		},
		{
			name:    "ragged users",
			users:   map[int][]float64{1: {1}, 2: {1, 2}},
			wantErr: true,
		},
		{
			name:    "nothing loaded",
			wantDim: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.products, tt.users)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && s.Dim() != tt.wantDim {
				t.Errorf("Dim() = %d, want %d", s.Dim(), tt.wantDim)
			}
		})
	}
}

func TestVectorsOf(t *testing.T) {
	t.Parallel()

	s, err := New(map[int][]float64{1: {1, 1}, 2: {2, 2}, 3: {3, 3}}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := s.VectorsOf([]int{3, 1, 3})
	if err != nil {
		t.Fatalf("VectorsOf() error = %v", err)
	}
	want := []float64{3, 1, 3}
	for i, v := range got {
		if v[0] != want[i] {
			t.Errorf("VectorsOf()[%d][0] = %v, want %v", i, v[0], want[i])
		}
	}

	_, err = s.VectorsOf([]int{1, 99})
	var unknown *models.UnknownProductError
	if !errors.As(err, &unknown) || unknown.ProductID != 99 {
		t.Errorf("VectorsOf() error = %v, want UnknownProductError for 99", err)
	}
}

func TestUserVectorOf(t *testing.T) {
	t.Parallel()

	s, _ := New(map[int][]float64{1: {1}}, map[int][]float64{42: {0.1, 0.2}})
	if v, err := s.UserVectorOf(42); err != nil || len(v) != 2 {
		t.Errorf("UserVectorOf(42) = %v, %v", v, err)
	}
	if _, err := s.UserVectorOf(7); !errors.Is(err, models.ErrUnknownUser) {
		t.Errorf("UserVectorOf(7) error = %v, want ErrUnknownUser", err)
	}
	if s.UserLen() != 1 || s.Len() != 1 || s.UserDim() != 2 {
		t.Errorf("sizes = %d users, %d products, user dim %d", s.UserLen(), s.Len(), s.UserDim())
	}
}
