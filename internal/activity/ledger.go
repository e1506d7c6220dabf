// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package activity

import (
	"context"
	"sync"
	"time"
)

// Ledger records events and counts them over half-open time ranges.
type Ledger interface {
	// Record stores an event. Invalid events are rejected.
	Record(ctx context.Context, event *Event) error

	// CountBetween counts events for userID with from <= ts < to.
	CountBetween(ctx context.Context, userID string, from, to time.Time) (Counts, error)
}

// MemoryLedger is an in-process Ledger.
type MemoryLedger struct {
	mu     sync.RWMutex
	events map[string][]Event
}

// NewMemoryLedger creates an empty MemoryLedger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{events: make(map[string][]Event)}
}

// Record implements Ledger.
func (l *MemoryLedger) Record(_ context.Context, event *Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events[event.UserID] = append(l.events[event.UserID], *event)
	return nil
}

// CountBetween implements Ledger.
func (l *MemoryLedger) CountBetween(ctx context.Context, userID string, from, to time.Time) (Counts, error) {
	var c Counts
	if err := ctx.Err(); err != nil {
		return c, err
	}
	if !from.Before(to) {
		return c, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	for i := range l.events[userID] {
		ts := l.events[userID][i].Timestamp
		if !ts.Before(from) && ts.Before(to) {
			c.Add(l.events[userID][i].Type)
		}
	}
	return c, nil
}

// Users returns the IDs of every user with at least one event.
func (l *MemoryLedger) Users(_ context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	users := make([]string, 0, len(l.events))
	for id := range l.events {
		users = append(users, id)
	}
	return users, nil
}
