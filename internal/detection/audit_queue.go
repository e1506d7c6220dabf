// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package detection

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/promoscore/internal/metrics"
)

// MemoryAuditQueue is an in-process AuditQueue holding at most one pending
// item per user. Re-enqueueing a user refreshes the item.
type MemoryAuditQueue struct {
	mu    sync.Mutex
	items map[string]AuditItem
}

// NewMemoryAuditQueue creates an empty queue.
func NewMemoryAuditQueue() *MemoryAuditQueue {
	return &MemoryAuditQueue{items: make(map[string]AuditItem)}
}

// Enqueue implements AuditQueue.
func (q *MemoryAuditQueue) Enqueue(_ context.Context, item AuditItem) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items[item.UserID] = item
	metrics.AuditQueueDepth.Set(float64(len(q.items)))
	return nil
}

// Pending implements AuditQueue.
func (q *MemoryAuditQueue) Pending(_ context.Context) ([]AuditItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]AuditItem, 0, len(q.items))
	for _, it := range q.items {
		out = append(out, it)
	}
	sortAuditItems(out)
	return out, nil
}

// Resolve implements AuditQueue.
func (q *MemoryAuditQueue) Resolve(_ context.Context, userID string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.items[userID]
	delete(q.items, userID)
	metrics.AuditQueueDepth.Set(float64(len(q.items)))
	return ok, nil
}

// Len returns the number of pending items.
func (q *MemoryAuditQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// sortAuditItems orders items oldest first, ties by user ID.
func sortAuditItems(items []AuditItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].EnqueuedAt.Equal(items[j].EnqueuedAt) {
			return items[i].UserID < items[j].UserID
		}
		return items[i].EnqueuedAt.Before(items[j].EnqueuedAt)
	})
}
