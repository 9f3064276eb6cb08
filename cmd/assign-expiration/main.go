// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

// Command assign-expiration writes the synthetic expiration dates artifact.
//
// Every product gets a date within a year of today. Perishable departments
// and a small share of the rest are pulled forward so the close to
// expiration group has products to pick from. The same seed and today
// always produce the same file.
//
//	assign-expiration -products products.csv -departments departments.csv \
//	    -out products_with_expiration.csv -seed 42 -today 2026-10-18
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/tomtom215/moodcart/internal/database"
	"github.com/tomtom215/moodcart/internal/expiration"
	"github.com/tomtom215/moodcart/internal/logging"
)

func main() {
	products := flag.String("products", "products.csv", "products CSV")
	departments := flag.String("departments", "departments.csv", "departments CSV")
	out := flag.String("out", "products_with_expiration.csv", "output CSV")
	seed := flag.Uint64("seed", 42, "random seed")
	today := flag.String("today", "", "reference date as YYYY-MM-DD (default: today, UTC)")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logging.Init(logging.Config{Level: *logLevel, Format: "console", Timestamp: true, Output: os.Stderr})
	logger := logging.WithComponent("assign-expiration")

	day := time.Now().UTC().Truncate(24 * time.Hour)
	if *today != "" {
		parsed, err := time.Parse(time.DateOnly, *today)
		if err != nil {
			logger.Fatal().Err(err).Str("today", *today).Msg("Invalid -today")
		}
		day = parsed
	}

	assigner, err := expiration.NewAssigner(expiration.DefaultConfig(), *seed, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid assignment config")
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

	ctx := context.Background()
	rows, err := db.ProductsWithDepartments(ctx, *products, *departments)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read products")
		return
	}
	assigned := assigner.Assign(rows, day)
	if err := db.WriteExpirations(ctx, assigned, *out); err != nil {
		logger.Error().Err(err).Msg("Failed to write expirations")
		return
	}
	logger.Info().
		Int("products", len(assigned)).
		Str("today", day.Format(time.DateOnly)).
		Str("out", *out).
		Msg("Expiration dates written")
}
