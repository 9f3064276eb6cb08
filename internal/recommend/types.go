// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/moodcart/internal/models"
)

// CandidateSource is the pretrained collaborative model. It returns at most
// n product ids ranked best first with a parallel slice of scores. A user
// the model has never seen yields a *models.UnknownUserError.
type CandidateSource interface {
	Recommend(ctx context.Context, userID int, row map[int]float64, n int) ([]int, []float64, error)
}

// CandidateSourceFunc adapts a function to CandidateSource.
type CandidateSourceFunc func(ctx context.Context, userID int, row map[int]float64, n int) ([]int, []float64, error)

// Recommend implements CandidateSource.
func (f CandidateSourceFunc) Recommend(ctx context.Context, userID int, row map[int]float64, n int) ([]int, []float64, error) {
	return f(ctx, userID, row, n)
}

// Catalog is the read side of the product catalog the engine needs.
type Catalog interface {
	LookupMany(ids []int) []models.Product
	ViewByMood(category models.MoodCategory) []models.Product
	ViewByExpiration(now time.Time, maxDays int) []models.ExpiringProduct
}

// Vectors returns product embeddings.
type Vectors interface {
	VectorOf(productID int) ([]float64, error)
	VectorsOf(ids []int) ([][]float64, error)
}

// PurchaseHistory is the purchase-count table seen by aisle and by user.
type PurchaseHistory interface {
	PurchaseCountsByAisle(aisleID int) []models.PurchaseCount
	PurchasesByUser(userID int) []int
	InteractionRow(userID int) map[int]float64
}

// Presentation is display metadata for one product row.
type Presentation struct {
	ImageURL      string  `json:"image_url"`
	Price         *string `json:"price,omitempty"`
	DiscountPrice *string `json:"discount_price,omitempty"`
}

// Enricher supplies presentation metadata. Enrich must not fail: any
// internal error resolves to the implementation's fallback value.
type Enricher interface {
	Enrich(ctx context.Context, productName string) Presentation
}

// EventSink receives every successfully composed response.
type EventSink interface {
	RecommendationServed(ctx context.Context, resp *Response)
}

// Path is the candidate generation branch taken for a request.
type Path string

// Candidate generation paths.
const (
	PathKnownUser Path = "known_user"
	PathNewUser   Path = "new_user"
)

// Request is a validated-on-entry recommendation request.
type Request struct {
	// UserID selects the known-user path when set.
	UserID *int `json:"user_id,omitempty"`

	// Mood is the detected emotion label, e.g. "happy".
	Mood string `json:"mood"`

	// N is the number of candidates to generate. Zero means the default.
	N int `json:"n,omitempty"`

	// Aisles are the aisles of interest for new users.
	Aisles []int `json:"interested_aisles,omitempty"`

	// RawAisles is the unparsed comma-separated form of Aisles. It is parsed
	// only when Aisles is empty and no UserID is given.
	RawAisles string `json:"-"`

	// RequestID is propagated into the response metadata.
	RequestID string `json:"request_id,omitempty"`
}

// Row is one product in a result group.
type Row struct {
	ProductID           int      `json:"product_id"`
	ProductName         string   `json:"product_name"`
	Aisle               string   `json:"aisle"`
	Department          string   `json:"department"`
	DaysUntilExpiration *int     `json:"days_until_expiration,omitempty"`
	Distance            *float64 `json:"distance,omitempty"`
	Presentation
}

// Response holds the four result groups of a request.
type Response struct {
	// Initial is the candidate list resolved against the catalog.
	Initial []Row `json:"initial_recommendations"`

	// MoodRelated are catalog products near the candidates in the mood view.
	MoodRelated []Row `json:"mood_related_recommendations"`

	// CloseToExpiration are products near the candidates that expire soon.
	CloseToExpiration []Row `json:"close_to_exp_recommendations"`

	// ActualPurchased is the user's purchase history; nil for new users.
	ActualPurchased []Row `json:"actual_purchased_products"`

	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	RequestID    string              `json:"request_id"`
	Path         Path                `json:"path"`
	UserID       *int                `json:"user_id,omitempty"`
	Mood         string              `json:"mood"`
	MoodCategory models.MoodCategory `json:"mood_category"`
	N            int                 `json:"n"`
	Candidates   []int               `json:"candidates"`
	LatencyMS    int64               `json:"latency_ms"`
	Timestamp    time.Time           `json:"timestamp"`
}
