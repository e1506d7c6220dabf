// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package detection

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/promoscore/internal/logging"
)

// LogNotifier writes notifications to the structured log. It stands in for
// the user-facing messaging channel.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a LogNotifier on the global logger.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: logging.WithComponent("notifier")}
}

// NewLogNotifierWithLogger creates a LogNotifier on a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewLogNotifierWithLogger(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Name returns the notifier name.
func (n *LogNotifier) Name() string { return "log" }

// Enabled always returns true.
func (n *LogNotifier) Enabled() bool { return true }

// Send logs the notification.
func (n *LogNotifier) Send(_ context.Context, note *Notification) error {
	n.logger.Warn().
		Str("kind", string(note.Kind)).
		Str("user_id", logging.SanitizeID(note.UserID)).
		Str("level", note.Level.String()).
		Float64("average_rate", note.AverageRate).
		Msg(note.Message)
	return nil
}
