// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

/*
Package api exposes the recommendation engine over HTTP.

Routes:

	GET /predict                      legacy flat response, {"error": "..."} on 400
	GET /api/v1/recommendations       same groups inside the APIResponse envelope
	GET /api/v1/aisles/top?limit=50   aisles ranked by total purchases
	GET /api/v1/moods                 accepted emotion labels and their categories
	GET /api/v1/health/live           liveness
	GET /api/v1/health/ready          readiness of the loaded stores
	GET /metrics                      Prometheus exposition

Both recommendation routes take the same query parameters: userId, mood, N
and interested_aisles. Validation of the raw strings happens here with the
validation package; the engine applies the request rules (mood first, then
userId or interested_aisles).

Every JSON body is encoded with goccy/go-json. Versioned routes use the
APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}}
	{"success": false, "error": {"code": "MISSING_PARAMETER", "message": "..."}, "meta": {...}}
*/
package api
