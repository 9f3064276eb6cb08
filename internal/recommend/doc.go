// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

/*
Package recommend implements the recommendation fusion engine.

A request is answered in three stages:

 1. Candidate generation. Users with a user id go through the collaborative
    model (a CandidateSource). Users without one get cold-start candidates:
    the most purchased products of each requested aisle, Quota(N, k) per
    aisle.

 2. Similarity fusion. The candidates become anchors in embedding space.
    FuseNeighbors collects every product of a facet view whose squared
    Euclidean distance to some anchor lies in (0, Threshold], sorts the
    union by distance, keeps the closest row per product and truncates.
    The engine runs it twice: against the mood view of the requested
    emotion's category and against the products expiring within the
    expiration window.

 3. Composition. The initial group is the candidate list resolved against
    the catalog and capped at min(N, InitialCap). Known users also get their
    purchase history. Every row is enriched with presentation metadata;
    enrichment never fails a request.

Validation happens once, on entry, and fails with the error types in
package models:

	resp, err := engine.Recommend(ctx, recommend.Request{Mood: "happy", UserID: &id})
	if errors.Is(err, models.ErrMissingParameter) {
	    // 400
	}

The Engine and everything it reads are immutable after construction, so
one Engine serves concurrent requests.
*/
package recommend
