// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

// Package activity turns recorded engagement events into per-minute rates.
//
// Rate and Average are pure and never fail. Ledgers count events over
// half-open intervals [from, to), and WindowRates splits a session into
// fixed measurement windows so the detection package can average them.
package activity

import (
	"github.com/montanaflynn/stats"
)

// Rate returns (views+likes+comments)/durationMinutes.
// A non-positive duration yields exactly 0.
func Rate(views, likes, comments int64, durationMinutes float64) float64 {
	if durationMinutes <= 0 {
		return 0
	}
	return float64(views+likes+comments) / durationMinutes
}

// Average returns the arithmetic mean of rates, or 0 for an empty slice.
func Average(rates []float64) float64 {
	if len(rates) == 0 {
		return 0
	}
	mean, err := stats.Mean(rates)
	if err != nil {
		return 0
	}
	return mean
}

// Window is one measurement interval. It is derived, never persisted.
type Window struct {
	Counts
	DurationMinutes float64 `json:"duration_minutes"`
}

// Rate returns the per-minute rate of the window.
func (w Window) Rate() float64 {
	return Rate(w.Views, w.Likes, w.Comments, w.DurationMinutes)
}
