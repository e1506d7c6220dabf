// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

// Package finance computes promoter withdrawals and creator payouts charged
// against advertiser budgets.
//
// All money is shopspring/decimal. Components are rounded to two places
// (half away from zero) before they are combined, and the order of those
// roundings is part of the result contract. Rejections are carried in the
// result's Err field and never leave a stored balance modified.
package finance

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is carried by a result whose monetary input was negative.
	ErrInvalidAmount = errors.New("amount must not be negative")

	// ErrInsufficientBudget is carried by a budget payout whose payout plus
	// platform fee exceeds the advertiser budget.
	ErrInsufficientBudget = errors.New("advertiser budget is insufficient")
)

const moneyPlaces = 2

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}
