// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package activity

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// MaxWindows bounds the number of windows a single range may be split into.
// Each window costs one ledger scan.
const MaxWindows = 50_000

var (
	// ErrInvalidWindow is returned when the window length is not positive.
	ErrInvalidWindow = errors.New("measurement window must be positive")

	// ErrRangeTooLong is returned when a range would split into more than
	// MaxWindows windows.
	ErrRangeTooLong = errors.New("evaluation range too long")
)

// WindowRates splits [start, cutoff) into consecutive windows of
// windowMinutes and returns the rate of each. A trailing partial window is
// measured over its actual length. An empty range yields no rates.
func WindowRates(ctx context.Context, ledger Ledger, userID string, start, cutoff time.Time, windowMinutes float64) ([]float64, error) {
	windows, err := Windows(ctx, ledger, userID, start, cutoff, windowMinutes)
	if err != nil {
		return nil, err
	}
	rates := make([]float64, len(windows))
	for i, w := range windows {
		rates[i] = w.Rate()
	}
	return rates, nil
}

// Windows is WindowRates without the final division, for itemised reports.
func Windows(ctx context.Context, ledger Ledger, userID string, start, cutoff time.Time, windowMinutes float64) ([]Window, error) {
	if windowMinutes <= 0 {
		return nil, ErrInvalidWindow
	}
	if !start.Before(cutoff) {
		return nil, nil
	}

	step := time.Duration(windowMinutes * float64(time.Minute))
	if step <= 0 {
		return nil, ErrInvalidWindow
	}

	n := WindowCount(cutoff.Sub(start), step)
	if n > MaxWindows {
		return nil, fmt.Errorf("%w: %d windows of %s exceeds %d", ErrRangeTooLong, n, step, MaxWindows)
	}

	windows := make([]Window, 0, n)
	for from := start; from.Before(cutoff); from = from.Add(step) {
		to := from.Add(step)
		if to.After(cutoff) {
			to = cutoff
		}
		counts, err := ledger.CountBetween(ctx, userID, from, to)
		if err != nil {
			return nil, fmt.Errorf("count window starting %s: %w", from.Format(time.RFC3339), err)
		}
		windows = append(windows, Window{Counts: counts, DurationMinutes: to.Sub(from).Minutes()})
	}
	return windows, nil
}

// WindowCount is the number of windows of length step covering span,
// counting a trailing partial window.
func WindowCount(span, step time.Duration) int64 {
	if span <= 0 || step <= 0 {
		return 0
	}
	n := int64(span / step)
	if span%step != 0 {
		n++
	}
	return n
}
