// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package detection

import (
	"errors"
	"math"
	"testing"
)

func TestClassify_Boundaries(t *testing.T) {
	t.Parallel()

	// μ = 10, σ = 2 gives μ+2σ = 14 and μ+3σ = 16.
	tests := []struct {
		name string
		rbar float64
		want BotLevel
	}{
		{"well below", 10.0, LevelC},
		{"zero", 0, LevelC},
		{"at suspicious boundary", 14.0, LevelC},
		{"just above suspicious boundary", 14.001, LevelB},
		{"inside band", 15.0, LevelB},
		{"at bot boundary", 16.0, LevelB},
		{"just above bot boundary", 16.001, LevelA},
		{"far above", 100.0, LevelA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.rbar, 10.0, 2.0); got != tt.want {
				t.Errorf("Classify(%v, 10, 2) = %v, want %v", tt.rbar, got, tt.want)
			}
		})
	}
}

func TestClassify_ZeroStdDev(t *testing.T) {
	t.Parallel()

	// With σ = 0 the B band is empty: anything above μ is A.
	if got := Classify(10.0, 10.0, 0); got != LevelC {
		t.Errorf("Classify(μ) = %v, want C", got)
	}
	if got := Classify(10.0001, 10.0, 0); got != LevelA {
		t.Errorf("Classify(μ+ε) = %v, want A", got)
	}
}

func TestClassify_Monotonic(t *testing.T) {
	t.Parallel()

	// Severity never decreases as the rate increases: C(3) > B(2) > A(1)
	// in enum order, so the enum value must never increase.
	prev := Classify(0, 10, 2)
	for r := 0.0; r <= 30; r += 0.25 {
		got := Classify(r, 10, 2)
		if got > prev {
			t.Fatalf("classification became less severe at r=%v: %v after %v", r, got, prev)
		}
		prev = got
	}
}

func TestBaseline_Thresholds(t *testing.T) {
	t.Parallel()

	b := Baseline{Mean: 10, StdDev: 2}
	suspicious, bot := b.Thresholds()
	if suspicious != 14 || bot != 16 {
		t.Errorf("Thresholds() = (%v, %v), want (14, 16)", suspicious, bot)
	}
	if b.Classify(15) != LevelB {
		t.Error("Baseline.Classify(15) should be B")
	}
}

func TestBaseline_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		b       Baseline
		wantErr bool
	}{
		{"default", Baseline{Mean: 10, StdDev: 2}, false},
		{"zero sigma", Baseline{Mean: 10, StdDev: 0}, false},
		{"negative sigma", Baseline{Mean: 10, StdDev: -1}, true},
		{"NaN mean", Baseline{Mean: math.NaN(), StdDev: 1}, true},
		{"infinite sigma", Baseline{Mean: 1, StdDev: math.Inf(1)}, true},
	}
	for _, tt := range tests {
		err := tt.b.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidBaseline) {
			t.Errorf("%s: expected ErrInvalidBaseline, got %v", tt.name, err)
		}
	}
}

func TestEstimateBaseline(t *testing.T) {
	t.Parallel()

	b, err := EstimateBaseline([]float64{9, 11, 9, 11})
	if err != nil {
		t.Fatalf("EstimateBaseline() error = %v", err)
	}
	if b.Mean != 10 || b.StdDev != 1 {
		t.Errorf("EstimateBaseline() = %+v, want mean 10 std dev 1", b)
	}

	if _, err := EstimateBaseline(nil); !errors.Is(err, ErrNoSamples) {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
}
