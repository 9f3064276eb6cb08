// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package api

import (
	"net/http"

	"github.com/tomtom215/moodcart/internal/models"
)

// MoodLabel is one accepted emotion label.
type MoodLabel struct {
	Emotion  string              `json:"emotion"`
	Category models.MoodCategory `json:"category"`
}

// TopAisles handles GET /api/v1/aisles/top.
//
// Query: limit (default 50, clamped to [1, 500]). Aisles are ordered by
// total purchases, ties by aisle id.
func (h *Handler) TopAisles(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.aisles == nil {
		rw.ServiceUnavailable("Purchase history not loaded")
		return
	}

	limit, verr := parseLimit(r)
	if verr != nil {
		rw.Invalid(verr)
		return
	}

	aisles := h.aisles.TopAisles(limit)
	count := len(aisles)
	rw.SuccessWithMeta(aisles, &APIMeta{Count: &count})
}

// Moods handles GET /api/v1/moods.
func (h *Handler) Moods(w http.ResponseWriter, r *http.Request) {
	labels := models.EmotionLabels()
	moods := make([]MoodLabel, 0, len(labels))
	for _, label := range labels {
		category, _ := models.CategoryForEmotion(label)
		moods = append(moods, MoodLabel{Emotion: label, Category: category})
	}
	NewResponseWriter(w, r).Success(moods)
}
