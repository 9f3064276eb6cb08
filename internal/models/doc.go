// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

/*
Package models defines the grocery domain types shared by the stores, the
fusion engine and the API layer, plus the error taxonomy they report.

Catalog types:

  - Product: one catalog row with its aisle, department and facets
  - Aisle, Department: id to name lookup rows
  - MoodCategory: positive, negative or unclassified
  - ExpiringProduct: a Product with days until expiration relative to a given now

History types:

  - PurchaseCount: (user, product, count) from the purchase-count table
  - AisleTotal: an aisle with its total purchases

Errors:

  - MissingParameterError: request field absent or not recognised (client error)
  - InvalidRequestError: malformed request field such as an aisle list (client error)
  - UnknownUserError, UnknownProductError: referential gaps in the loaded
    artifacts (server error)

All error types match their sentinel with errors.Is:

	if errors.Is(err, models.ErrUnknownProduct) { ... }
*/
package models
