// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

// Command top-aisles ranks aisles by purchased order lines over the prior
// and train order sets and writes the top ones to CSV.
//
//	top-aisles -dir ./data -limit 50 -out top_aisles.csv
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/tomtom215/moodcart/internal/database"
	"github.com/tomtom215/moodcart/internal/logging"
)

func main() {
	dir := flag.String("dir", ".", "directory holding the order history CSVs")
	limit := flag.Int("limit", 50, "number of aisles to keep")
	out := flag.String("out", "top_aisles.csv", "output CSV")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logging.Init(logging.Config{Level: *logLevel, Format: "console", Timestamp: true, Output: os.Stderr})
	logger := logging.WithComponent("top-aisles")

	files := &database.OrderFiles{
		Products:    filepath.Join(*dir, "products.csv"),
		Aisles:      filepath.Join(*dir, "aisles.csv"),
		Departments: filepath.Join(*dir, "departments.csv"),
		Orders:      filepath.Join(*dir, "orders.csv"),
		PriorLines:  filepath.Join(*dir, "order_products__prior.csv"),
		TrainLines:  filepath.Join(*dir, "order_products__train.csv"),
	}

	db, err := database.Open(database.DefaultConfig(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing database")
		}
	}()

	if err := db.ExportTopAisles(context.Background(), files, *limit, *out); err != nil {
		logger.Error().Err(err).Msg("Failed to export top aisles")
		return
	}
	logger.Info().Int("limit", *limit).Str("out", *out).Msg("Top aisles written")
}
