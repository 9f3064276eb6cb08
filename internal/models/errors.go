// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package models

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below.
var (
	ErrMissingParameter = errors.New("missing parameter")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUnknownUser      = errors.New("unknown user")
	ErrUnknownProduct   = errors.New("unknown product")
)

// MissingParameterError reports a required request field that is absent or
// carries a value outside its known set.
type MissingParameterError struct {
	Param   string
	Message string
}

func (e *MissingParameterError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s parameter is missing", e.Param)
}

// Is matches ErrMissingParameter.
func (e *MissingParameterError) Is(target error) bool { return target == ErrMissingParameter }

// InvalidRequestError reports a malformed request field.
type InvalidRequestError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is matches ErrInvalidRequest.
func (e *InvalidRequestError) Is(target error) bool { return target == ErrInvalidRequest }

// UnknownUserError reports a user id absent from a loaded artifact.
type UnknownUserError struct {
	UserID int
	Source string
}

func (e *UnknownUserError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("unknown user %d", e.UserID)
	}
	return fmt.Sprintf("unknown user %d in %s", e.UserID, e.Source)
}

// Is matches ErrUnknownUser.
func (e *UnknownUserError) Is(target error) bool { return target == ErrUnknownUser }

// UnknownProductError reports a product id absent from a loaded artifact.
type UnknownProductError struct {
	ProductID int
	Source    string
}

func (e *UnknownProductError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("unknown product %d", e.ProductID)
	}
	return fmt.Sprintf("unknown product %d in %s", e.ProductID, e.Source)
}

// Is matches ErrUnknownProduct.
func (e *UnknownProductError) Is(target error) bool { return target == ErrUnknownProduct }

// IsClientError reports whether err stems from the request rather than the data.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingParameter) || errors.Is(err, ErrInvalidRequest)
}
