// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package detection

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/promoscore/internal/metrics"
)

const auditKeyPrefix = "aud/"

// BadgerAuditQueue is a durable AuditQueue. Pending reviews survive a
// restart, so a held payout is never silently released.
type BadgerAuditQueue struct {
	db *badger.DB
}

// NewBadgerAuditQueue creates a queue stored in db.
func NewBadgerAuditQueue(db *badger.DB) *BadgerAuditQueue {
	return &BadgerAuditQueue{db: db}
}

// Enqueue implements AuditQueue.
func (q *BadgerAuditQueue) Enqueue(_ context.Context, item AuditItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal audit item: %w", err)
	}
	err = q.db.Update(func(txn *badger.Txn) error {
		return txn.Set(auditKey(item.UserID), data)
	})
	if err != nil {
		return fmt.Errorf("enqueue audit item: %w", err)
	}
	q.updateDepth()
	return nil
}

// Pending implements AuditQueue.
func (q *BadgerAuditQueue) Pending(_ context.Context) ([]AuditItem, error) {
	var out []AuditItem
	err := q.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(auditKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var item AuditItem
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			}); err != nil {
				return fmt.Errorf("decode audit item: %w", err)
			}
			out = append(out, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortAuditItems(out)
	return out, nil
}

// Resolve implements AuditQueue.
func (q *BadgerAuditQueue) Resolve(_ context.Context, userID string) (bool, error) {
	found := false
	err := q.db.Update(func(txn *badger.Txn) error {
		key := auditKey(userID)
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return txn.Delete(key)
	})
	if err != nil {
		return false, fmt.Errorf("resolve audit item: %w", err)
	}
	q.updateDepth()
	return found, nil
}

// Len counts pending items.
func (q *BadgerAuditQueue) Len() int {
	n := 0
	_ = q.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(auditKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n
}

func auditKey(userID string) []byte {
	return []byte(auditKeyPrefix + url.PathEscape(userID))
}

func (q *BadgerAuditQueue) updateDepth() {
	metrics.AuditQueueDepth.Set(float64(q.Len()))
}
