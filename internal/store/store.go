// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

// Package store owns the BadgerDB instance shared by the activity ledger and
// the advertiser budget store.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/promoscore/internal/config"
	"github.com/tomtom215/promoscore/internal/logging"
)

// DefaultGCRatio is the value log discard ratio used by RunGC.
const DefaultGCRatio = 0.5

// ErrClosed is returned by operations on a closed DB.
var ErrClosed = errors.New("store is closed")

// DB wraps a BadgerDB handle.
type DB struct {
	db       *badger.DB
	inMemory bool

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the database described by cfg.
func Open(cfg config.StoreConfig) (*DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("store path is required for on-disk storage")
		}
		opts = badger.DefaultOptions(cfg.Path)
		opts.SyncWrites = true
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("store opened")

	return &DB{db: db, inMemory: cfg.InMemory}, nil
}

// OpenInMemory opens a throwaway in-memory database. Used by tests.
func OpenInMemory() (*DB, error) {
	return Open(config.StoreConfig{InMemory: true})
}

// Badger returns the underlying handle.
func (d *DB) Badger() *badger.DB {
	return d.db
}

// Ping reports whether the database accepts read transactions.
func (d *DB) Ping(_ context.Context) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	return d.db.View(func(*badger.Txn) error { return nil })
}

// RunGC reclaims value log space until Badger reports nothing to rewrite.
// It is a no-op for in-memory databases.
func (d *DB) RunGC() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	if d.inMemory {
		return nil
	}

	for {
		err := d.db.RunValueLogGC(DefaultGCRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Close closes the database. Calling Close twice is safe.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	logging.Info().Msg("store closed")
	return nil
}
