// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared. On top of the
// built-in tags it registers:
//
//   - integer: a base-10 integer string, e.g. the N query parameter
//   - idlist:  comma-separated positive ids, e.g. interested_aisles=1,2,3
//
// Fields are reported by their query or json tag name, and failures convert
// to the API's VALIDATION_ERROR shape with ToAPIError.
//
//	type PredictQuery struct {
//	    UserID string `query:"userId" validate:"omitempty,integer"`
//	    N      string `query:"N" validate:"omitempty,integer"`
//	}
//
//	if err := validation.ValidateStruct(&q); err != nil {
//	    apiErr := err.ToAPIError()
//	    ...
//	}
package validation
