// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type predictQuery struct {
	UserID string `query:"userId" validate:"omitempty,integer"`
	Mood   string `query:"mood" validate:"omitempty,max=32"`
	N      string `query:"N" validate:"omitempty,integer"`
	Aisles string `query:"interested_aisles" validate:"omitempty,max=1024,idlist"`
}

type bodyRequest struct {
	Limit int    `json:"limit" validate:"min=1,max=1000"`
	Name  string `json:"-" validate:"required"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input predictQuery
	}{
		{"empty", predictQuery{}},
		{"known user", predictQuery{UserID: "42", Mood: "happy", N: "10"}},
		{"negative n passes format check", predictQuery{N: "-1"}},
		{"aisles", predictQuery{Aisles: "24,83, 123"}},
		{"trailing comma", predictQuery{Aisles: "24,"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     predictQuery
		wantField string
		wantTag   string
	}{
		{"user id not integer", predictQuery{UserID: "abc"}, "userId", "integer"},
		{"n fractional", predictQuery{N: "2.5"}, "N", "integer"},
		{"aisle not a number", predictQuery{Aisles: "24,fruit"}, "interested_aisles", "idlist"},
		{"aisle zero", predictQuery{Aisles: "0"}, "interested_aisles", "idlist"},
		{"only commas", predictQuery{Aisles: ",,"}, "interested_aisles", "idlist"},
		{"mood too long", predictQuery{Mood: strings.Repeat("x", 33)}, "mood", "max"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() expected error, got nil")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestFieldName_Fallbacks(t *testing.T) {
	err := ValidateStruct(&bodyRequest{})
	if err == nil {
		t.Fatal("ValidateStruct() expected error, got nil")
	}
	fields := map[string]bool{}
	for _, e := range err.Errors() {
		fields[e.Field()] = true
	}
	if !fields["limit"] {
		t.Errorf("json name not used: %v", fields)
	}
	if !fields["Name"] {
		t.Errorf(`json:"-" field should fall back to the Go name: %v`, fields)
	}
}

func TestTranslatedMessages(t *testing.T) {
	tests := []struct {
		input predictQuery
		want  string
	}{
		{predictQuery{N: "x"}, "N must be an integer"},
		{predictQuery{Aisles: "a"}, "interested_aisles must be a comma-separated list of positive ids"},
		{predictQuery{Mood: strings.Repeat("x", 40)}, "mood must be at most 32 characters"},
	}
	for _, tt := range tests {
		err := ValidateStruct(&tt.input)
		if err == nil {
			t.Fatalf("ValidateStruct(%+v) expected error", tt.input)
		}
		if err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
		}
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	err := ValidateStruct(&predictQuery{UserID: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "userId" {
		t.Errorf("Details[field] = %v, want userId", apiErr.Details["field"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	err := ValidateStruct(&predictQuery{UserID: "x", N: "y"})
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr := err.ToAPIError()
	if !strings.Contains(apiErr.Message, "userId: ") || !strings.Contains(apiErr.Message, "N: ") {
		t.Errorf("Message = %q, want both fields", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Errorf("Details[fields] = %v, want 2 entries", apiErr.Details["fields"])
	}
}
