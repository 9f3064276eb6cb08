// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package recommend

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/moodcart/internal/models"
)

// ParseAisles parses a comma-separated aisle id list such as "3,7".
// Blank entries are skipped, duplicates keep their first position, and any
// non-integer entry or an empty result is an InvalidRequestError.
func ParseAisles(raw string) ([]int, error) {
	var out []int
	seen := make(map[int]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, &models.InvalidRequestError{Field: "interested_aisles", Value: raw, Reason: "aisle ids must be integers"}
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, &models.InvalidRequestError{Field: "interested_aisles", Value: raw, Reason: "no aisle ids given"}
	}
	return out, nil
}

// ColdStart generates candidates for users without purchase history from
// the most purchased products of the aisles they are interested in.
type ColdStart struct {
	history PurchaseHistory
}

// NewColdStart creates a cold-start aggregator over history.
func NewColdStart(history PurchaseHistory) *ColdStart {
	return &ColdStart{history: history}
}

// Quota returns the per-aisle slot count for n candidates over k aisles.
// Every aisle gets at least one slot.
func Quota(n, k int) int {
	if k <= 0 {
		return 0
	}
	return max(1, n/k)
}

// Generate returns up to Quota(n, len(aisles)) top products per aisle, in
// aisle order. Within an aisle products are ranked by summed purchase count,
// ties by ascending product id. The result is neither padded nor truncated
// to n, and aisles without history contribute nothing.
func (c *ColdStart) Generate(aisles []int, n int) ([]int, error) {
	if len(aisles) == 0 {
		return nil, &models.InvalidRequestError{Field: "interested_aisles", Reason: "no aisle ids given"}
	}

	quota := Quota(n, len(aisles))
	out := make([]int, 0, quota*len(aisles))
	for _, aisle := range aisles {
		out = append(out, topProducts(c.history.PurchaseCountsByAisle(aisle), quota)...)
	}
	return out, nil
}

type productTotal struct {
	id    int
	count int
}

func topProducts(records []models.PurchaseCount, limit int) []int {
	if len(records) == 0 {
		return nil
	}

	totals := make(map[int]int)
	for _, r := range records {
		totals[r.ProductID] += r.Count
	}

	ranked := make([]productTotal, 0, len(totals))
	for id, count := range totals {
		ranked = append(ranked, productTotal{id: id, count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].id < ranked[j].id
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	ids := make([]int, len(ranked))
	for i, p := range ranked {
		ids[i] = p.id
	}
	return ids
}
