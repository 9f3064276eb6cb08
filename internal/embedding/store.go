// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

// Package embedding holds the content-based product and user vectors.
//
// The store is filled once at startup and is read-only afterwards, so
// lookups take no locks. Returned slices alias the stored vectors and must
// not be modified.
package embedding

import (
	"fmt"

	"github.com/tomtom215/moodcart/internal/models"
)

// Store maps product ids and user ids to fixed-length vectors.
type Store struct {
	productDim int
	userDim    int
	products   map[int][]float64
	users      map[int][]float64
}

// New validates and wraps the loaded vectors. Every product vector must have
// the same length, and likewise every user vector. users may be nil.
func New(products, users map[int][]float64) (*Store, error) {
	productDim, err := uniformDim(products, "product")
	if err != nil {
		return nil, err
	}
	userDim, err := uniformDim(users, "user")
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = map[int][]float64{}
	}
	if users == nil {
		users = map[int][]float64{}
	}
	return &Store{
		productDim: productDim,
		userDim:    userDim,
		products:   products,
		users:      users,
	}, nil
}

func uniformDim(vectors map[int][]float64, kind string) (int, error) {
	dim := -1
	for id, v := range vectors {
		if len(v) == 0 {
			return 0, fmt.Errorf("%s %d has an empty embedding", kind, id)
		}
		if dim == -1 {
			dim = len(v)
			continue
		}
		if len(v) != dim {
			return 0, fmt.Errorf("%s %d embedding has dimension %d, want %d", kind, id, len(v), dim)
		}
	}
	if dim == -1 {
		return 0, nil
	}
	return dim, nil
}

// Dim returns the product vector dimension, 0 when empty.
func (s *Store) Dim() int { return s.productDim }

// UserDim returns the user vector dimension, 0 when empty.
func (s *Store) UserDim() int { return s.userDim }

// Len returns the number of product vectors.
func (s *Store) Len() int { return len(s.products) }

// UserLen returns the number of user vectors.
func (s *Store) UserLen() int { return len(s.users) }

// VectorOf returns the embedding of a product.
func (s *Store) VectorOf(productID int) ([]float64, error) {
	v, ok := s.products[productID]
	if !ok {
		return nil, &models.UnknownProductError{ProductID: productID, Source: "product embeddings"}
	}
	return v, nil
}

// VectorsOf returns the embeddings of ids, aligned with the input order.
// The first missing id fails the whole batch.
func (s *Store) VectorsOf(ids []int) ([][]float64, error) {
	out := make([][]float64, len(ids))
	for i, id := range ids {
		v, err := s.VectorOf(id)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// UserVectorOf returns the content embedding of a user.
func (s *Store) UserVectorOf(userID int) ([]float64, error) {
	v, ok := s.users[userID]
	if !ok {
		return nil, &models.UnknownUserError{UserID: userID, Source: "user embeddings"}
	}
	return v, nil
}
