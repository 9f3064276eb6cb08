// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moodcart/internal/metrics"
)

// BadgerStore persists entries in a badger database, using badger's
// native per-entry TTL.
type BadgerStore struct {
	db     *badger.DB
	ttl    time.Duration
	prefix string
}

// OpenBadger opens (or creates) a badger database at path. An empty path
// opens an in-memory database.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func OpenBadger(path string, ttl time.Duration, prefix string, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}

	logger.Info().Str("path", path).Dur("ttl", ttl).Msg("badger enrichment cache opened")
	return NewBadgerStore(db, ttl, prefix), nil
}

// NewBadgerStore wraps an already open database.
func NewBadgerStore(db *badger.DB, ttl time.Duration, prefix string) *BadgerStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &BadgerStore{db: db, ttl: ttl, prefix: prefix}
}

// Get implements Store.
func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(s.prefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		metrics.RecordCacheLookup(BackendBadger, false)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("badger get %q: %w", key, err)
	}
	metrics.RecordCacheLookup(BackendBadger, true)
	return value, true, nil
}

// Set implements Store.
func (s *BadgerStore) Set(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(s.prefix+key), value).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("badger set %q: %w", key, err)
	}
	return nil
}

// gcDiscardRatio is the share of stale data a value log file needs before
// it is rewritten.
const gcDiscardRatio = 0.5

// CollectGarbage rewrites value log files until badger reports nothing left
// to reclaim. It is a no-op for in-memory databases.
func (s *BadgerStore) CollectGarbage(_ context.Context) error {
	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("badger value log gc: %w", err)
		}
	}
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
