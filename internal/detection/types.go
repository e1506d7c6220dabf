// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package detection

import (
	"context"
	"time"
)

// NotificationKind identifies what an enforcement notification is about.
type NotificationKind string

// Notification kinds.
const (
	NotificationAccountBlocked NotificationKind = "account_blocked"
	NotificationAuditWarning   NotificationKind = "audit_warning"
)

// Notification is sent to the user (B) or to operators (A) after classification.
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	UserID      string           `json:"user_id"`
	Level       BotLevel         `json:"level"`
	AverageRate float64          `json:"average_rate"`
	Message     string           `json:"message"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Notifier delivers enforcement notifications.
type Notifier interface {
	// Send delivers a notification.
	Send(ctx context.Context, n *Notification) error

	// Name returns the notifier name (e.g., "log", "webhook").
	Name() string

	// Enabled returns whether this notifier is enabled.
	Enabled() bool
}

// AuditItem is a suspicious user awaiting manual review.
type AuditItem struct {
	UserID      string    `json:"user_id"`
	AverageRate float64   `json:"average_rate"`
	Start       time.Time `json:"window_start"`
	Cutoff      time.Time `json:"window_cutoff"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

// AuditQueue holds users whose payout is withheld pending manual review.
type AuditQueue interface {
	// Enqueue adds or refreshes the pending item for item.UserID.
	Enqueue(ctx context.Context, item AuditItem) error

	// Pending returns all pending items, oldest first.
	Pending(ctx context.Context) ([]AuditItem, error)

	// Resolve removes the pending item for userID. It reports whether one existed.
	Resolve(ctx context.Context, userID string) (bool, error)
}

// Evaluation is the complete record of classifying one user over one range.
type Evaluation struct {
	UserID string    `json:"user_id"`
	Start  time.Time `json:"start"`
	Cutoff time.Time `json:"cutoff"`

	WindowMinutes float64   `json:"window_minutes"`
	Rates         []float64 `json:"rates"`
	AverageRate   float64   `json:"average_rate"`

	Baseline            Baseline `json:"baseline"`
	SuspiciousThreshold float64  `json:"suspicious_threshold"`
	BotThreshold        float64  `json:"bot_threshold"`

	Level    BotLevel `json:"level"`
	Decision Decision `json:"decision"`

	// AuditEnqueued is true when a level B user was placed on the audit queue.
	AuditEnqueued bool      `json:"audit_enqueued"`
	EvaluatedAt   time.Time `json:"evaluated_at"`
}
