// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/moodcart/internal/logging"
	"github.com/tomtom215/moodcart/internal/metrics"
	"github.com/tomtom215/moodcart/internal/models"
	"github.com/tomtom215/moodcart/internal/recommend/collaborative"
)

// failure is an engine error resolved to its HTTP form.
type failure struct {
	status  int
	code    string
	kind    string // metrics label
	message string
}

// classify maps an engine error to status, code and a client-safe message.
// Unknown users and products are data defects between loaded artifacts and
// are reported as server errors.
func classify(err error) failure {
	var (
		missing *models.MissingParameterError
		invalid *models.InvalidRequestError
		user    *models.UnknownUserError
		product *models.UnknownProductError
	)
	switch {
	case errors.As(err, &missing):
		return failure{http.StatusBadRequest, ErrCodeMissingParameter, "missing_parameter", missing.Error()}
	case errors.As(err, &invalid):
		return failure{http.StatusBadRequest, ErrCodeInvalidRequest, "invalid_request", invalid.Error()}
	case errors.Is(err, collaborative.ErrUnavailable):
		return failure{http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "unavailable", "Recommendation model temporarily unavailable"}
	case errors.Is(err, context.DeadlineExceeded):
		return failure{http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "timeout", "Recommendation timed out"}
	case errors.As(err, &user):
		return failure{http.StatusInternalServerError, ErrCodeUnknownUser, "unknown_user", user.Error()}
	case errors.As(err, &product):
		return failure{http.StatusInternalServerError, ErrCodeUnknownProduct, "unknown_product", product.Error()}
	default:
		return failure{http.StatusInternalServerError, ErrCodeInternalError, "internal", "Failed to generate recommendations"}
	}
}

// fail classifies err, counts it and logs it at a level matching its status.
func fail(r *http.Request, err error) failure {
	f := classify(err)
	metrics.RecordRecommendationError(f.kind)

	logger := logging.Ctx(r.Context())
	event := logger.Debug()
	if f.status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Str("kind", f.kind).Int("status", f.status).Msg("recommendation failed")
	return f
}
