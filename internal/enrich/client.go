// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// maxErrorBody bounds how much of a failed response is kept for the error.
const maxErrorBody = 512

// searchResponse is the subset of a custom-search response we read.
type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Link    string `json:"link"`
	Pagemap struct {
		Offer []struct {
			Price string `json:"price"`
		} `json:"offer"`
	} `json:"pagemap"`
}

// searchResult is the first usable hit for a product name.
type searchResult struct {
	ImageURL string
	Price    *decimal.Decimal
}

// searchClient queries an image search API for a product name.
type searchClient struct {
	client   *http.Client
	endpoint string
	apiKey   string
	engineID string
}

func (c *searchClient) buildURL(productName string) string {
	params := url.Values{}
	params.Set("q", productName)
	params.Set("cx", c.engineID)
	params.Set("key", c.apiKey)
	params.Set("searchType", "image")
	params.Set("num", "1")
	return c.endpoint + "?" + params.Encode()
}

// Search returns the first hit. A response without items is an empty
// result, not an error.
func (c *searchClient) Search(ctx context.Context, productName string) (searchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(productName), http.NoBody)
	if err != nil {
		return searchResult{}, fmt.Errorf("create request failed: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return searchResult{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return searchResult{}, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return searchResult{}, fmt.Errorf("failed to decode response: %w", err)
	}

	for _, item := range data.Items {
		if item.Link == "" {
			continue
		}
		result := searchResult{ImageURL: item.Link}
		for _, offer := range item.Pagemap.Offer {
			if p, ok := parsePrice(offer.Price); ok {
				result.Price = &p
				break
			}
		}
		return result, nil
	}
	return searchResult{}, nil
}

// parsePrice reads strings such as "4.99", "$4.99" or "1,299.00".
func parsePrice(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£ ")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false
	}
	return d, true
}
