// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

// Package events publishes a "recommendation served" event for every
// successful request.
//
// Events are queued without blocking the request and drained by the
// Publisher's Serve loop, which runs under the supervisor. When the queue
// is full the event is dropped and counted.
//
// Transports, in order of preference:
//   - an external NATS server at NATS_URL
//   - an embedded NATS JetStream server (the default), which retains events
//     in the MOODCART_EVENTS stream for later consumers
//   - a Watermill GoChannel whose events are written to the log
package events

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodcart/internal/models"
	"github.com/tomtom215/moodcart/internal/recommend"
)

// DefaultTopic is the subject served events are published on.
const DefaultTopic = "moodcart.recommendations.served"

// RecommendationServed summarizes one composed response. It carries ids
// rather than rows so that consumers join against their own catalog copy.
type RecommendationServed struct {
	EventID           string              `json:"event_id"`
	RequestID         string              `json:"request_id"`
	Path              recommend.Path      `json:"path"`
	UserID            *int                `json:"user_id,omitempty"`
	Mood              string              `json:"mood"`
	MoodCategory      models.MoodCategory `json:"mood_category"`
	N                 int                 `json:"n"`
	Candidates        []int               `json:"candidates"`
	Initial           []int               `json:"initial"`
	MoodRelated       []int               `json:"mood_related"`
	CloseToExpiration []int               `json:"close_to_expiration"`
	HistorySize       int                 `json:"history_size"`
	LatencyMS         int64               `json:"latency_ms"`
	Timestamp         time.Time           `json:"timestamp"`
}

// NewRecommendationServed builds the event for resp.
func NewRecommendationServed(eventID string, resp *recommend.Response) *RecommendationServed {
	md := resp.Metadata
	return &RecommendationServed{
		EventID:           eventID,
		RequestID:         md.RequestID,
		Path:              md.Path,
		UserID:            md.UserID,
		Mood:              md.Mood,
		MoodCategory:      md.MoodCategory,
		N:                 md.N,
		Candidates:        md.Candidates,
		Initial:           productIDs(resp.Initial),
		MoodRelated:       productIDs(resp.MoodRelated),
		CloseToExpiration: productIDs(resp.CloseToExpiration),
		HistorySize:       len(resp.ActualPurchased),
		LatencyMS:         md.LatencyMS,
		Timestamp:         md.Timestamp,
	}
}

func productIDs(rows []recommend.Row) []int {
	ids := make([]int, len(rows))
	for i := range rows {
		ids[i] = rows[i].ProductID
	}
	return ids
}

// Marshal encodes the event as JSON.
func (e *RecommendationServed) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Unmarshal decodes a JSON event.
func Unmarshal(data []byte) (*RecommendationServed, error) {
	var e RecommendationServed
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
