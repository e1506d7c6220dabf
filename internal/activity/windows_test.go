// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWindowRates(t *testing.T) {
	t.Parallel()

	l := NewMemoryLedger()
	// Minute 0: 10 events, minute 1: 12 events, minute 2 (half): 3 events.
	for i := 0; i < 10; i++ {
		record(t, l, "u1", EventView, epoch.Add(time.Duration(i)*time.Second))
	}
	for i := 0; i < 12; i++ {
		record(t, l, "u1", EventLike, epoch.Add(time.Minute+time.Duration(i)*time.Second))
	}
	for i := 0; i < 3; i++ {
		record(t, l, "u1", EventComment, epoch.Add(2*time.Minute+time.Duration(i)*time.Second))
	}

	rates, err := WindowRates(context.Background(), l, "u1", epoch, epoch.Add(150*time.Second), 1.0)
	if err != nil {
		t.Fatalf("WindowRates() error = %v", err)
	}

	want := []float64{10, 12, 6}
	if len(rates) != len(want) {
		t.Fatalf("expected %d windows, got %d (%v)", len(want), len(rates), rates)
	}
	for i := range want {
		if rates[i] != want[i] {
			t.Errorf("window %d rate = %v, want %v", i, rates[i], want[i])
		}
	}
	if avg := Average(rates); avg != 28.0/3.0 {
		t.Errorf("Average() = %v, want %v", avg, 28.0/3.0)
	}
}

func TestWindowRates_EmptyRange(t *testing.T) {
	t.Parallel()

	rates, err := WindowRates(context.Background(), NewMemoryLedger(), "u1", epoch, epoch, 1.0)
	if err != nil {
		t.Fatalf("WindowRates() error = %v", err)
	}
	if len(rates) != 0 {
		t.Errorf("expected no rates, got %v", rates)
	}
	if Average(rates) != 0 {
		t.Error("expected average of no windows to be 0")
	}
}

func TestWindowRates_InvalidWindow(t *testing.T) {
	t.Parallel()

	_, err := WindowRates(context.Background(), NewMemoryLedger(), "u1", epoch, epoch.Add(time.Minute), 0)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}
}

// countingLedger counts CountBetween calls.
type countingLedger struct {
	Ledger
	calls int
}

func (l *countingLedger) CountBetween(ctx context.Context, userID string, from, to time.Time) (Counts, error) {
	l.calls++
	return l.Ledger.CountBetween(ctx, userID, from, to)
}

func TestWindows_RangeTooLong(t *testing.T) {
	t.Parallel()

	cutoff := epoch.Add(24 * time.Hour)
	tests := []struct {
		name  string
		start time.Time
	}{
		{"five years of minutes", cutoff.AddDate(-5, 0, 0)},
		{"year one", time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"one window over", cutoff.Add(-time.Duration(MaxWindows)*time.Minute - time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l := &countingLedger{Ledger: NewMemoryLedger()}
			windows, err := Windows(context.Background(), l, "u1", tt.start, cutoff, 1)
			if !errors.Is(err, ErrRangeTooLong) {
				t.Fatalf("expected ErrRangeTooLong, got %v", err)
			}
			if windows != nil {
				t.Errorf("expected no windows, got %d", len(windows))
			}
			if l.calls != 0 {
				t.Errorf("expected no ledger scans, got %d", l.calls)
			}
		})
	}
}

func TestWindows_AtCap(t *testing.T) {
	t.Parallel()

	cutoff := epoch.Add(time.Duration(MaxWindows) * time.Minute)
	l := &countingLedger{Ledger: NewMemoryLedger()}
	windows, err := Windows(context.Background(), l, "u1", epoch, cutoff, 1)
	if err != nil {
		t.Fatalf("Windows() error = %v", err)
	}
	if len(windows) != MaxWindows || l.calls != MaxWindows {
		t.Errorf("got %d windows and %d scans, want %d", len(windows), l.calls, MaxWindows)
	}
}

func TestWindowCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		span, step time.Duration
		want       int64
	}{
		{0, time.Minute, 0},
		{-time.Minute, time.Minute, 0},
		{time.Minute, 0, 0},
		{time.Minute, time.Minute, 1},
		{150 * time.Second, time.Minute, 3},
		{31 * 24 * time.Hour, time.Minute, 44_640},
	}
	for _, tt := range tests {
		if got := WindowCount(tt.span, tt.step); got != tt.want {
			t.Errorf("WindowCount(%s, %s) = %d, want %d", tt.span, tt.step, got, tt.want)
		}
	}
}
