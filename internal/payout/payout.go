// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

// Package payout computes the daily payout owed for validated activity.
package payout

import (
	"github.com/shopspring/decimal"

	"github.com/tomtom215/promoscore/internal/config"
	"github.com/tomtom215/promoscore/internal/metrics"
)

// MinutesPerDay is the daily evaluation horizon.
const MinutesPerDay = 1440

var minutesPerDay = decimal.NewFromInt(MinutesPerDay)

// Daily returns rbar * MinutesPerDay * rateFee without rounding.
//
// rbar must be the average rate of activity already classified as valid;
// Daily does not re-check it.
func Daily(rbar float64, rateFee decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(rbar).Mul(minutesPerDay).Mul(rateFee)
}

// Engine applies the configured per-activity fee.
type Engine struct {
	rateFee decimal.Decimal
}

// NewEngine creates an Engine from the payout configuration.
func NewEngine(cfg config.PayoutConfig) *Engine {
	return &Engine{rateFee: decimal.NewFromFloat(cfg.RateFeePerActivity)}
}

// NewEngineWithFee creates an Engine with an explicit fee.
func NewEngineWithFee(rateFee decimal.Decimal) *Engine {
	return &Engine{rateFee: rateFee}
}

// RateFee returns the fee paid per unit of validated activity.
func (e *Engine) RateFee() decimal.Decimal {
	return e.rateFee
}

// Daily computes the daily payout for rbar and records it.
func (e *Engine) Daily(rbar float64) decimal.Decimal {
	amount := Daily(rbar, e.rateFee)
	metrics.RecordDailyPayout(amount.InexactFloat64())
	return amount
}

// Breakdown is the itemised form of a daily payout.
type Breakdown struct {
	AverageRate     float64         `json:"average_rate"`
	DailyActivities decimal.Decimal `json:"daily_activities"`
	RateFee         decimal.Decimal `json:"rate_fee"`
	Amount          decimal.Decimal `json:"amount"`
}

// Explain returns the daily payout together with the activity count it pays for.
func (e *Engine) Explain(rbar float64) Breakdown {
	return Breakdown{
		AverageRate:     rbar,
		DailyActivities: decimal.NewFromFloat(rbar).Mul(minutesPerDay),
		RateFee:         e.rateFee,
		Amount:          e.Daily(rbar),
	}
}
