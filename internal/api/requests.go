// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/moodcart/internal/logging"
	"github.com/tomtom215/moodcart/internal/recommend"
	"github.com/tomtom215/moodcart/internal/validation"
)

// recommendationQuery is the raw query string of a recommendation request.
// Presence rules (mood required, userId or interested_aisles) are applied by
// the engine so both routes report them the same way.
type recommendationQuery struct {
	UserID string `query:"userId" validate:"omitempty,integer"`
	Mood   string `query:"mood" validate:"omitempty,max=32"`
	N      string `query:"N" validate:"omitempty,integer"`
	Aisles string `query:"interested_aisles" validate:"omitempty,max=1024,idlist"`
}

// parseRecommendationQuery validates the query string and builds an engine
// request carrying the request id from the context. With lenientN an N that
// is not an integer is dropped, so the engine default applies.
func parseRecommendationQuery(r *http.Request, lenientN bool) (recommend.Request, *validation.RequestValidationError) {
	q := r.URL.Query()
	query := recommendationQuery{
		UserID: strings.TrimSpace(q.Get("userId")),
		Mood:   strings.TrimSpace(q.Get("mood")),
		N:      strings.TrimSpace(q.Get("N")),
		Aisles: strings.TrimSpace(q.Get("interested_aisles")),
	}
	if lenientN {
		if _, err := strconv.Atoi(query.N); err != nil {
			query.N = ""
		}
	}
	if err := validation.ValidateStruct(&query); err != nil {
		return recommend.Request{}, err
	}

	req := recommend.Request{
		Mood:      query.Mood,
		RawAisles: query.Aisles,
		RequestID: logging.RequestIDFromContext(r.Context()),
	}
	// Both conversions were checked by the integer tag.
	if query.UserID != "" {
		id, _ := strconv.Atoi(query.UserID)
		req.UserID = &id
	}
	if query.N != "" {
		req.N, _ = strconv.Atoi(query.N)
	}
	return req, nil
}

type topAislesQuery struct {
	Limit string `query:"limit" validate:"omitempty,integer"`
}

// parseLimit returns the limit query parameter, defaulting to
// defaultTopAisles and bounded to [1, maxTopAisles].
func parseLimit(r *http.Request) (int, *validation.RequestValidationError) {
	query := topAislesQuery{Limit: strings.TrimSpace(r.URL.Query().Get("limit"))}
	if err := validation.ValidateStruct(&query); err != nil {
		return 0, err
	}
	if query.Limit == "" {
		return defaultTopAisles, nil
	}
	limit, _ := strconv.Atoi(query.Limit)
	switch {
	case limit < 1:
		return 1, nil
	case limit > maxTopAisles:
		return maxTopAisles, nil
	}
	return limit, nil
}
