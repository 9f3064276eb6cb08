// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/moodcart/internal/metrics"
	"github.com/tomtom215/moodcart/internal/recommend"
)

// legacyResponse is the flat body served by /predict. ActualPurchased is
// null for new users; the other groups are always arrays.
type legacyResponse struct {
	Initial           []recommend.Row `json:"initial_recommendations"`
	MoodRelated       []recommend.Row `json:"mood_related_recommendations"`
	CloseToExpiration []recommend.Row `json:"close_to_exp_recommendations"`
	ActualPurchased   []recommend.Row `json:"actual_purchased_products"`
}

func newLegacyResponse(resp *recommend.Response) legacyResponse {
	return legacyResponse{
		Initial:           nonNil(resp.Initial),
		MoodRelated:       nonNil(resp.MoodRelated),
		CloseToExpiration: nonNil(resp.CloseToExpiration),
		ActualPurchased:   resp.ActualPurchased,
	}
}

func nonNil(rows []recommend.Row) []recommend.Row {
	if rows == nil {
		return []recommend.Row{}
	}
	return rows
}

// Predict handles GET /predict.
//
// Query: userId, mood, N (default 10, also used when N is not an integer),
// interested_aisles (comma-separated). Errors are returned as {"error": "..."}.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	req, verr := parseRecommendationQuery(r, true)
	if verr != nil {
		metrics.RecordRecommendationError("invalid_request")
		writeJSON(w, http.StatusBadRequest, legacyError{Error: verr.Error()})
		return
	}

	resp, err := h.recommend(r.Context(), req)
	if err != nil {
		f := fail(r, err)
		writeJSON(w, f.status, legacyError{Error: f.message})
		return
	}
	writeJSON(w, http.StatusOK, newLegacyResponse(resp))
}

// Recommendations handles GET /api/v1/recommendations. It takes the same
// query as /predict and returns the groups with their metadata in the
// APIResponse envelope.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, verr := parseRecommendationQuery(r, false)
	if verr != nil {
		metrics.RecordRecommendationError("invalid_request")
		rw.Invalid(verr)
		return
	}

	resp, err := h.recommend(r.Context(), req)
	if err != nil {
		rw.Failure(fail(r, err))
		return
	}
	resp.Initial = nonNil(resp.Initial)
	resp.MoodRelated = nonNil(resp.MoodRelated)
	resp.CloseToExpiration = nonNil(resp.CloseToExpiration)
	rw.Success(resp)
}

// recommend runs the engine and records the response shape.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (h *Handler) recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error) {
	start := time.Now()
	resp, err := h.engine.Recommend(ctx, req)
	if err != nil {
		return nil, err
	}

	history := -1
	if resp.ActualPurchased != nil {
		history = len(resp.ActualPurchased)
	}
	metrics.RecordRecommendation(string(resp.Metadata.Path), time.Since(start),
		len(resp.Initial), len(resp.MoodRelated), len(resp.CloseToExpiration), history)
	return resp, nil
}
