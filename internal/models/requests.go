// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActivityRequest records one engagement event. Timestamp defaults to the
// server time when omitted.
type ActivityRequest struct {
	UserID    string    `json:"user_id" validate:"required,identifier"`
	SessionID string    `json:"session_id,omitempty" validate:"omitempty,max=128"`
	Type      string    `json:"type" validate:"required,eventtype"`
	ContentID string    `json:"content_id,omitempty" validate:"omitempty,max=256"`
	Timestamp time.Time `json:"timestamp"`
}

// EvaluationQuery selects the range of an evaluation or settlement.
type EvaluationQuery struct {
	UserID string    `json:"user_id" validate:"required,identifier"`
	Start  time.Time `json:"start" validate:"required"`
	Cutoff time.Time `json:"cutoff" validate:"required,gtefield=Start"`
}

// DailyPayoutRequest asks for the daily payout of a validated average rate.
// RateFee overrides the configured fee when set.
type DailyPayoutRequest struct {
	AverageRate float64          `json:"average_rate" validate:"gte=0"`
	RateFee     *decimal.Decimal `json:"rate_fee,omitempty"`
}

// WithdrawalRequest is a promoter withdrawal. The amount is not range
// checked here; a negative amount yields an INVALID_AMOUNT result.
type WithdrawalRequest struct {
	UserID      string          `json:"user_id" validate:"required,identifier"`
	GrossAmount decimal.Decimal `json:"gross_amount"`
}

// CreatorPayoutRequest charges a creator payout to an advertiser budget.
type CreatorPayoutRequest struct {
	AdvertiserID    string          `json:"advertiser_id" validate:"required,identifier"`
	CreatorID       string          `json:"creator_id" validate:"required,identifier"`
	PayoutToCreator decimal.Decimal `json:"payout_to_creator"`
}

// BudgetDepositRequest tops up an advertiser budget through the gateway.
type BudgetDepositRequest struct {
	AdvertiserID string          `json:"advertiser_id" validate:"required,identifier"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description,omitempty" validate:"omitempty,max=256"`
}

// PricingRequest quotes usage billing. A nil CreditLimit means no overage.
type PricingRequest struct {
	TotalUnits  int64  `json:"total_units"`
	CreditLimit *int64 `json:"credit_limit,omitempty"`
}

// CreatorPayoutQuoteRequest runs the budget payout computation against a
// caller-supplied budget without touching stored balances. FeeRate
// overrides the configured creator platform fee when set.
type CreatorPayoutQuoteRequest struct {
	CreatorID       string           `json:"creator_id" validate:"required,identifier"`
	PayoutToCreator decimal.Decimal  `json:"payout_to_creator"`
	Budget          decimal.Decimal  `json:"budget"`
	FeeRate         *decimal.Decimal `json:"fee_rate,omitempty"`
}
