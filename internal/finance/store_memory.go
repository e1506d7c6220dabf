// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package finance

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// MemoryBudgetStore keeps budgets in a map. Used by tests and in-memory runs.
type MemoryBudgetStore struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
}

// NewMemoryBudgetStore creates an empty store.
func NewMemoryBudgetStore() *MemoryBudgetStore {
	return &MemoryBudgetStore{balances: make(map[string]decimal.Decimal)}
}

// Balance returns the stored budget or ErrUnknownAdvertiser.
func (s *MemoryBudgetStore) Balance(_ context.Context, advertiserID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.balances[advertiserID]
	if !ok {
		return decimal.Zero, ErrUnknownAdvertiser
	}
	return b, nil
}

// Update runs fn under the store lock.
func (s *MemoryBudgetStore) Update(_ context.Context, advertiserID string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.balances[advertiserID]
	next, write, err := fn(current, ok)
	if err != nil {
		return err
	}
	if write {
		s.balances[advertiserID] = next
	}
	return nil
}
