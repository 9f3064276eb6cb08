// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

/*
Package middleware provides the HTTP middleware shared by every Moodcart route.

  - RequestID: accepts or generates X-Request-ID and puts it in the request
    context and the logging context
  - PrometheusMetrics: request counter, latency histogram and in-flight gauge,
    labelled by chi route pattern so ids in paths do not explode cardinality
  - AccessLog: one zerolog line per request

They are plain func(http.Handler) http.Handler values and plug into chi's
r.Use directly.
*/
package middleware
