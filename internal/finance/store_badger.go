// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package finance

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dgraph-io/badger/v4"
	"github.com/shopspring/decimal"
)

const budgetKeyPrefix = "bud/"

// BadgerBudgetStore keeps budgets as decimal strings under bud/<advertiser>.
type BadgerBudgetStore struct {
	db *badger.DB
}

// NewBadgerBudgetStore creates a store on an open BadgerDB.
func NewBadgerBudgetStore(db *badger.DB) *BadgerBudgetStore {
	return &BadgerBudgetStore{db: db}
}

// Balance returns the stored budget or ErrUnknownAdvertiser.
func (s *BadgerBudgetStore) Balance(_ context.Context, advertiserID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.db.View(func(txn *badger.Txn) error {
		b, ok, err := readBalance(txn, advertiserID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownAdvertiser
		}
		balance = b
		return nil
	})
	return balance, err
}

// Update runs fn and the write in one transaction. Badger aborts the commit
// on a conflicting concurrent write, which is retried.
func (s *BadgerBudgetStore) Update(ctx context.Context, advertiserID string, fn UpdateFunc) error {
	for {
		err := s.db.Update(func(txn *badger.Txn) error {
			current, ok, err := readBalance(txn, advertiserID)
			if err != nil {
				return err
			}
			next, write, err := fn(current, ok)
			if err != nil || !write {
				return err
			}
			val, err := next.MarshalText()
			if err != nil {
				return fmt.Errorf("encode balance: %w", err)
			}
			return txn.Set(budgetKey(advertiserID), val)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
}

func readBalance(txn *badger.Txn, advertiserID string) (decimal.Decimal, bool, error) {
	item, err := txn.Get(budgetKey(advertiserID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("read budget: %w", err)
	}

	var balance decimal.Decimal
	err = item.Value(func(val []byte) error {
		return balance.UnmarshalText(val)
	})
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("decode budget: %w", err)
	}
	return balance, true, nil
}

func budgetKey(advertiserID string) []byte {
	return []byte(budgetKeyPrefix + url.PathEscape(advertiserID))
}
