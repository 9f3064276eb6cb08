// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package models

import (
	"math"
	"sort"
	"strings"
	"time"
)

// MoodCategory groups aisles by the mood they suit.
type MoodCategory string

// Mood categories used in the mood-by-aisle mapping.
const (
	MoodPositive     MoodCategory = "positive"
	MoodNegative     MoodCategory = "negative"
	MoodUnclassified MoodCategory = "unclassified"
)

// Valid reports whether m is one of the known categories.
func (m MoodCategory) Valid() bool {
	switch m {
	case MoodPositive, MoodNegative, MoodUnclassified:
		return true
	}
	return false
}

// emotionCategories maps detected emotion labels to mood categories.
// "suprise" is the spelling emitted by the emotion classifier and is kept
// next to the corrected form.
var emotionCategories = map[string]MoodCategory{
	"happy":    MoodPositive,
	"angry":    MoodNegative,
	"fear":     MoodNegative,
	"sad":      MoodNegative,
	"disgust":  MoodNegative,
	"suprise":  MoodUnclassified,
	"surprise": MoodUnclassified,
	"neutral":  MoodUnclassified,
}

// CategoryForEmotion maps an emotion label to its mood category. Labels are
// matched case-insensitively after trimming; unknown labels return false.
func CategoryForEmotion(emotion string) (MoodCategory, bool) {
	c, ok := emotionCategories[strings.ToLower(strings.TrimSpace(emotion))]
	return c, ok
}

// EmotionLabels returns every accepted emotion label, sorted.
func EmotionLabels() []string {
	labels := make([]string, 0, len(emotionCategories))
	for label := range emotionCategories {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Aisle is a row of the aisles table.
type Aisle struct {
	ID   int    `json:"aisle_id"`
	Name string `json:"aisle"`
}

// Department is a row of the departments table.
type Department struct {
	ID   int    `json:"department_id"`
	Name string `json:"department"`
}

// Product is a catalog row after the aisle and department joins.
// Mood is empty when the product's aisle has no mood mapping; ExpiresOn is
// nil when no expiration date was assigned.
type Product struct {
	ID           int          `json:"product_id"`
	Name         string       `json:"product_name"`
	AisleID      int          `json:"aisle_id"`
	Aisle        string       `json:"aisle"`
	DepartmentID int          `json:"department_id"`
	Department   string       `json:"department"`
	Mood         MoodCategory `json:"mood,omitempty"`
	ExpiresOn    *time.Time   `json:"expiration_date,omitempty"`
}

// Key returns the product id.
func (p Product) Key() int { return p.ID }

// DaysUntilExpiration returns whole days from now to the expiration date,
// floored, so a date later today counts as 0 and yesterday as -1.
// The second result is false when the product has no expiration date.
func (p *Product) DaysUntilExpiration(now time.Time) (int, bool) {
	if p.ExpiresOn == nil {
		return 0, false
	}
	days := math.Floor(p.ExpiresOn.Sub(now).Hours() / 24)
	return int(days), true
}

// ExpiringProduct pairs a product with its days until expiration at query time.
type ExpiringProduct struct {
	Product
	DaysUntilExpiration int `json:"days_until_expiration"`
}

// PurchaseCount is one row of the purchase-count table.
type PurchaseCount struct {
	UserID    int `json:"user_id"`
	ProductID int `json:"product_id"`
	Count     int `json:"purchase_count"`
}

// AisleTotal is an aisle with the number of purchases recorded against it.
type AisleTotal struct {
	Aisle
	TotalPurchases int `json:"total_purchases"`
}
