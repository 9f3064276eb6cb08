// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package collaborative

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodcart/internal/breaker"
	"github.com/tomtom215/moodcart/internal/models"
	"github.com/tomtom215/moodcart/internal/recommend"
)

func testModel(t *testing.T, opts ...Option) *FactorModel {
	t.Helper()
	m, err := NewFactorModel(
		map[int][]float64{
			42: {1, 0},
			43: {0, 1},
		},
		map[int][]float64{
			1: {0.9, 0.1},
			2: {0.5, 0.5},
			3: {0.1, 0.9},
			4: {0.9, 0.0},
			5: {0.2, 0.2},
		},
		opts...,
	)
	if err != nil {
		t.Fatalf("NewFactorModel() error = %v", err)
	}
	return m
}

func TestNewFactorModel(t *testing.T) {
	tests := []struct {
		name    string
		users   map[int][]float64
		items   map[int][]float64
		wantErr bool
	}{
		{"valid", map[int][]float64{1: {1, 2}}, map[int][]float64{1: {3, 4}}, false},
		{"no users", nil, map[int][]float64{1: {3, 4}}, true},
		{"no items", map[int][]float64{1: {1, 2}}, nil, true},
		{"user item mismatch", map[int][]float64{1: {1, 2}}, map[int][]float64{1: {3}}, true},
		{"ragged items", map[int][]float64{1: {1, 2}}, map[int][]float64{1: {3, 4}, 2: {5, 6, 7}}, true},
		{"empty vector", map[int][]float64{1: {}}, map[int][]float64{1: {}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewFactorModel(tt.users, tt.items)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFactorModel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && m.Factors() != 2 {
				t.Errorf("Factors() = %d, want 2", m.Factors())
			}
		})
	}
}

func TestFactorModel_Recommend(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		user   int
		row    map[int]float64
		n      int
		want   []int
		scores []float64
	}{
		{
			name:   "ties broken by id",
			user:   42,
			n:      3,
			want:   []int{1, 4, 2},
			scores: []float64{0.9, 0.9, 0.5},
		},
		{
			name: "purchased filtered",
			user: 42,
			row:  map[int]float64{1: 3, 2: 0},
			n:    3,
			want: []int{4, 2, 5},
		},
		{
			name: "purchased kept",
			opts: []Option{WithPurchasedFiltering(false)},
			user: 42,
			row:  map[int]float64{1: 3},
			n:    2,
			want: []int{1, 4},
		},
		{
			name: "other user",
			user: 43,
			n:    2,
			want: []int{3, 2},
		},
		{
			name: "n beyond catalog",
			user: 43,
			n:    50,
			want: []int{3, 2, 5, 1, 4},
		},
		{
			name: "zero n",
			user: 42,
			n:    0,
			want: []int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(t, tt.opts...)
			ids, scores, err := m.Recommend(context.Background(), tt.user, tt.row, tt.n)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("Recommend() ids = %v, want %v", ids, tt.want)
			}
			if len(scores) != len(ids) {
				t.Errorf("scores length = %d, want %d", len(scores), len(ids))
			}
			if tt.scores != nil && !reflect.DeepEqual(scores, tt.scores) {
				t.Errorf("Recommend() scores = %v, want %v", scores, tt.scores)
			}
		})
	}
}

func TestFactorModel_UnknownUser(t *testing.T) {
	m := testModel(t)
	_, _, err := m.Recommend(context.Background(), 999, nil, 5)

	var unknown *models.UnknownUserError
	if !errors.As(err, &unknown) {
		t.Fatalf("Recommend() error = %v, want UnknownUserError", err)
	}
	if unknown.UserID != 999 {
		t.Errorf("UserID = %d, want 999", unknown.UserID)
	}
}

func TestFactorModel_Cancelled(t *testing.T) {
	m := testModel(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := m.Recommend(ctx, 42, nil, 5); !errors.Is(err, context.Canceled) {
		t.Errorf("Recommend() error = %v, want context.Canceled", err)
	}
}

func TestFactorModel_SatisfiesCandidateSource(t *testing.T) {
	var _ recommend.CandidateSource = testModel(t)
	var _ recommend.CandidateSource = &Guarded{}
}

func TestGuarded(t *testing.T) {
	cfg := breaker.Config{MaxRequests: 1, Interval: time.Minute, Timeout: time.Hour, MinRequests: 2, FailureRatio: 0.5}

	t.Run("passes results through", func(t *testing.T) {
		g := NewGuarded(testModel(t), cfg, zerolog.Nop())
		ids, _, err := g.Recommend(context.Background(), 42, nil, 2)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if !reflect.DeepEqual(ids, []int{1, 4}) {
			t.Errorf("Recommend() = %v, want [1 4]", ids)
		}
	})

	t.Run("unknown users keep the circuit closed", func(t *testing.T) {
		g := NewGuarded(testModel(t), cfg, zerolog.Nop())
		for i := 0; i < 5; i++ {
			if _, _, err := g.Recommend(context.Background(), 999, nil, 2); !errors.Is(err, models.ErrUnknownUser) {
				t.Fatalf("call %d error = %v, want ErrUnknownUser", i, err)
			}
		}
		if g.State() != "closed" {
			t.Errorf("State() = %q, want closed", g.State())
		}
	})

	t.Run("failures open the circuit", func(t *testing.T) {
		failing := recommend.CandidateSourceFunc(func(context.Context, int, map[int]float64, int) ([]int, []float64, error) {
			return nil, nil, errors.New("factor store offline")
		})
		g := NewGuarded(failing, cfg, zerolog.Nop())
		for i := 0; i < 2; i++ {
			_, _, _ = g.Recommend(context.Background(), 42, nil, 2)
		}

		_, _, err := g.Recommend(context.Background(), 42, nil, 2)
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("Recommend() error = %v, want ErrUnavailable", err)
		}
	})
}
