// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package settlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/promoscore/internal/activity"
	"github.com/tomtom215/promoscore/internal/config"
	"github.com/tomtom215/promoscore/internal/detection"
	"github.com/tomtom215/promoscore/internal/gateway"
	"github.com/tomtom215/promoscore/internal/payout"
)

var epoch = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func seed(t *testing.T, l activity.Ledger, userID string, perMinute []int) {
	t.Helper()
	for m, n := range perMinute {
		for i := 0; i < n; i++ {
			ts := epoch.Add(time.Duration(m)*time.Minute + time.Duration(i)*time.Millisecond)
			if err := l.Record(context.Background(), &activity.Event{UserID: userID, Type: activity.EventLike, Timestamp: ts}); err != nil {
				t.Fatalf("Record() error = %v", err)
			}
		}
	}
}

type failingDisburser struct{}

func (failingDisburser) Disburse(context.Context, gateway.Disbursement) (gateway.Receipt, error) {
	return gateway.Receipt{}, errors.New("provider unavailable")
}

func newService(t *testing.T, disburser gateway.Disburser) (*Service, *activity.MemoryLedger) {
	t.Helper()

	ledger := activity.NewMemoryLedger()
	seed(t, ledger, "valid", []int{10, 12, 11, 13, 9})
	seed(t, ledger, "suspicious", []int{15, 15, 15, 15, 15})
	seed(t, ledger, "bot", []int{20, 22, 21, 21, 21})

	ev, err := detection.NewEvaluator(ledger, detection.NewMemoryAuditQueue(), detection.EvaluatorConfig{
		Baseline:      detection.Baseline{Mean: 10, StdDev: 2},
		WindowMinutes: 1,
	})
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}

	engine := payout.NewEngineWithFee(decimal.NewFromFloat(1.5))
	svc := NewService(ev, engine, disburser, ledger, config.SettlementConfig{
		Workers:  2,
		Lookback: 5 * time.Minute,
	})
	svc.now = func() time.Time { return epoch.Add(5 * time.Minute) }
	return svc, ledger
}

func TestSettle(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, gateway.NewLogGateway())
	cutoff := epoch.Add(5 * time.Minute)

	tests := []struct {
		user       string
		wantStatus Status
		wantLevel  detection.BotLevel
		wantPayout string
	}{
		{"valid", StatusPaid, detection.LevelC, "23760"},
		{"suspicious", StatusHeld, detection.LevelB, "0"},
		{"bot", StatusCancelled, detection.LevelA, "0"},
		{"idle", StatusNothingDue, detection.LevelC, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			t.Parallel()

			st, err := svc.Settle(context.Background(), tt.user, epoch, cutoff)
			if err != nil {
				t.Fatalf("Settle() error = %v", err)
			}
			if st.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", st.Status, tt.wantStatus)
			}
			if st.Level != tt.wantLevel {
				t.Errorf("Level = %v, want %v", st.Level, tt.wantLevel)
			}
			if !st.DailyPayout.Equal(decimal.RequireFromString(tt.wantPayout)) {
				t.Errorf("DailyPayout = %s, want %s", st.DailyPayout, tt.wantPayout)
			}
			if (st.Receipt != nil) != (tt.wantStatus == StatusPaid) {
				t.Errorf("receipt presence mismatch for status %q", st.Status)
			}
		})
	}
}

func TestSettle_DisbursementFailure(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, failingDisburser{})
	st, err := svc.Settle(context.Background(), "valid", epoch, epoch.Add(5*time.Minute))
	if err == nil {
		t.Fatal("expected disbursement error")
	}
	if st.Status != StatusFailed || st.Reason == "" {
		t.Errorf("got status %q reason %q, want failed with reason", st.Status, st.Reason)
	}
	if st.Level != detection.LevelC {
		t.Errorf("Level = %v, want C", st.Level)
	}
}

func TestSweep_ContinuesPastFailures(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, failingDisburser{})
	users := []string{"bot", "valid", "suspicious", ""}
	results := svc.Sweep(context.Background(), users, epoch, epoch.Add(5*time.Minute))

	if len(results) != len(users) {
		t.Fatalf("got %d results, want %d", len(results), len(users))
	}
	want := []Status{StatusCancelled, StatusFailed, StatusHeld, StatusFailed}
	for i, r := range results {
		if r.UserID != users[i] {
			t.Errorf("result %d is for %q, want %q", i, r.UserID, users[i])
		}
		if r.Status != want[i] {
			t.Errorf("result %d status = %q, want %q", i, r.Status, want[i])
		}
	}
}

func TestSweepAll(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, gateway.NewLogGateway())
	results, err := svc.SweepAll(context.Background())
	if err != nil {
		t.Fatalf("SweepAll() error = %v", err)
	}

	byUser := make(map[string]Status)
	for _, r := range results {
		byUser[r.UserID] = r.Status
	}
	want := map[string]Status{"valid": StatusPaid, "suspicious": StatusHeld, "bot": StatusCancelled}
	for user, status := range want {
		if byUser[user] != status {
			t.Errorf("%s: status %q, want %q", user, byUser[user], status)
		}
	}
	if len(byUser) != len(want) {
		t.Errorf("swept %d users, want %d", len(byUser), len(want))
	}
}

func TestSweep_CancelledContext(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, gateway.NewLogGateway())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := svc.Sweep(ctx, []string{"valid", "bot"}, epoch, epoch.Add(5*time.Minute))
	for _, r := range results {
		if r.Status != StatusFailed {
			t.Errorf("%s: status %q, want failed", r.UserID, r.Status)
		}
	}
}
