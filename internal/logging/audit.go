// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package logging

import (
	"github.com/rs/zerolog"
)

// AuditEvent is an enforcement or money-movement record. Every block,
// payout hold, withdrawal and budget charge is written as one of these so
// the audit trail can be rebuilt from logs alone.
type AuditEvent struct {
	// Event names what happened, e.g. "account_blocked", "withdrawal_processed".
	Event string
	// UserID is the subject user or creator.
	UserID string
	// CounterpartyID is the advertiser for budget charges.
	CounterpartyID string
	// Success is false when the operation was rejected.
	Success bool
	// Reason carries the rejection or enforcement reason.
	Reason string
	// Amounts holds decimal amounts rendered as strings.
	Amounts map[string]string
}

// AuditLogger writes AuditEvents with sanitized identifiers.
type AuditLogger struct {
	logger zerolog.Logger
}

// NewAuditLogger creates an audit logger on the global logger.
func NewAuditLogger() *AuditLogger {
	return &AuditLogger{logger: WithComponent("audit")}
}

// NewAuditLoggerWithLogger creates an audit logger on a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAuditLoggerWithLogger(logger zerolog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger.With().Str("component", "audit").Logger()}
}

// Log writes event at info level, or warn level when it was rejected.
func (l *AuditLogger) Log(event *AuditEvent) {
	e := l.logger.Info()
	status := "success"
	if !event.Success {
		e = l.logger.Warn()
		status = "rejected"
	}

	e = e.Str("event", event.Event).Str("status", status)
	if event.UserID != "" {
		e = e.Str("user_id", SanitizeID(event.UserID))
	}
	if event.CounterpartyID != "" {
		e = e.Str("counterparty_id", SanitizeID(event.CounterpartyID))
	}
	if event.Reason != "" {
		e = e.Str("reason", truncateString(event.Reason, 200))
	}
	if len(event.Amounts) > 0 {
		e = e.Interface("amounts", event.Amounts)
	}
	e.Msg("audit event")
}

// SanitizeID bounds an externally supplied identifier to 64 printable
// characters before it reaches the log stream.
func SanitizeID(id string) string {
	clean := make([]rune, 0, len(id))
	for _, r := range id {
		if r < 0x20 || r == 0x7f {
			continue
		}
		clean = append(clean, r)
	}
	return truncateString(string(clean), 64)
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
