// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package activity

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"net/url"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Key prefixes for BadgerDB storage
const (
	eventKeyPrefix = "act/"
	userKeyPrefix  = "usr/"
)

// BadgerLedger implements Ledger on BadgerDB.
//
// Event keys are act/<escaped user>/<8 byte sortable timestamp><16 byte uuid>,
// so a range count is a single forward seek within the user's prefix.
type BadgerLedger struct {
	db *badger.DB
}

// NewBadgerLedger creates a ledger on an open database.
func NewBadgerLedger(db *badger.DB) *BadgerLedger {
	return &BadgerLedger{db: db}
}

// Record implements Ledger.
func (l *BadgerLedger) Record(_ context.Context, event *Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	id := uuid.New()
	key := append(timeKey(event.UserID, event.Timestamp), id[:]...)

	return l.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set event: %w", err)
		}
		if err := txn.Set(userKey(event.UserID), []byte{}); err != nil {
			return fmt.Errorf("set user index: %w", err)
		}
		return nil
	})
}

// CountBetween implements Ledger.
func (l *BadgerLedger) CountBetween(ctx context.Context, userID string, from, to time.Time) (Counts, error) {
	var c Counts
	if !from.Before(to) {
		return c, nil
	}

	prefix := userPrefix(userID)
	start := timeKey(userID, from)
	end := timeKey(userID, to)

	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			if bytes.Compare(item.Key()[:len(end)], end) >= 0 {
				break
			}
			var ev Event
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &ev)
			}); err != nil {
				return fmt.Errorf("decode event: %w", err)
			}
			c.Add(ev.Type)
		}
		return nil
	})
	if err != nil {
		return Counts{}, err
	}
	return c, nil
}

// Users returns the IDs of every user with at least one event.
func (l *BadgerLedger) Users(_ context.Context) ([]string, error) {
	var users []string
	prefix := []byte(userKeyPrefix)

	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			escaped := string(it.Item().Key()[len(prefix):])
			id, err := url.PathUnescape(escaped)
			if err != nil {
				return fmt.Errorf("decode user key %q: %w", escaped, err)
			}
			users = append(users, id)
		}
		return nil
	})
	return users, err
}

func userKey(userID string) []byte {
	return []byte(userKeyPrefix + url.PathEscape(userID))
}

func userPrefix(userID string) []byte {
	return []byte(eventKeyPrefix + url.PathEscape(userID) + "/")
}

// timeKey returns the user prefix followed by ts encoded so that byte order
// matches time order, including instants before the Unix epoch.
func timeKey(userID string, ts time.Time) []byte {
	prefix := userPrefix(userID)
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], uint64(ts.UnixNano())^(1<<63))
	return key
}
