// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package detection

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

var (
	// ErrInvalidBaseline is returned for a baseline with a negative or non-finite parameter.
	ErrInvalidBaseline = errors.New("invalid activity baseline")

	// ErrNoSamples is returned by EstimateBaseline for an empty sample.
	ErrNoSamples = errors.New("baseline estimation requires at least one sample")
)

// Baseline is the normal-activity distribution: mean μ and standard deviation σ
// of the per-minute activity rate of a normal user.
type Baseline struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Validate rejects σ < 0 and non-finite parameters.
func (b Baseline) Validate() error {
	if math.IsNaN(b.Mean) || math.IsInf(b.Mean, 0) {
		return fmt.Errorf("%w: mean %v", ErrInvalidBaseline, b.Mean)
	}
	if math.IsNaN(b.StdDev) || math.IsInf(b.StdDev, 0) || b.StdDev < 0 {
		return fmt.Errorf("%w: std dev %v", ErrInvalidBaseline, b.StdDev)
	}
	return nil
}

// Thresholds returns the suspicious boundary μ+2σ and the bot boundary μ+3σ.
func (b Baseline) Thresholds() (suspicious, bot float64) {
	return b.Mean + 2*b.StdDev, b.Mean + 3*b.StdDev
}

// Classify classifies rbar against this baseline.
func (b Baseline) Classify(rbar float64) BotLevel {
	return Classify(rbar, b.Mean, b.StdDev)
}

// Classify maps an averaged activity rate to a level:
//
//	rbar >  μ+3σ        -> A
//	μ+2σ < rbar <= μ+3σ -> B
//	rbar <= μ+2σ        -> C
//
// Boundaries are compared exactly, with no tolerance.
func Classify(rbar, mean, stdDev float64) BotLevel {
	suspicious := mean + 2*stdDev
	bot := mean + 3*stdDev

	switch {
	case rbar > bot:
		return LevelA
	case rbar > suspicious:
		return LevelB
	default:
		return LevelC
	}
}

// EstimateBaseline derives μ and the population σ from per-minute rates
// observed for known-normal users.
func EstimateBaseline(samples []float64) (Baseline, error) {
	if len(samples) == 0 {
		return Baseline{}, ErrNoSamples
	}
	mean, err := stats.Mean(samples)
	if err != nil {
		return Baseline{}, fmt.Errorf("mean: %w", err)
	}
	sd, err := stats.StandardDeviationPopulation(samples)
	if err != nil {
		return Baseline{}, fmt.Errorf("standard deviation: %w", err)
	}
	b := Baseline{Mean: mean, StdDev: sd}
	return b, b.Validate()
}
