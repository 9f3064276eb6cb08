// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

/*
Package services adapts Moodcart components to suture.Service.

HTTPServerService turns the blocking ListenAndServe/Shutdown pair into a
context-aware Serve. CacheGCService runs periodic value log garbage
collection on the badger enrichment cache. Both implement fmt.Stringer so
supervisor events name them.
*/
package services
