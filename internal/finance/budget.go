// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package finance

import (
	"github.com/shopspring/decimal"

	"github.com/tomtom215/promoscore/internal/config"
)

// BudgetPayoutResult is the outcome of charging a creator payout, plus the
// platform fee on top of it, to an advertiser budget.
type BudgetPayoutResult struct {
	CreatorID               string          `json:"creator_id"`
	PayoutToCreator         decimal.Decimal `json:"payout_to_creator"`
	PlatformFeeCharged      decimal.Decimal `json:"platform_fee_charged"`
	TotalDeductedFromBudget decimal.Decimal `json:"total_deducted_from_budget"`
	InitialBudget           decimal.Decimal `json:"initial_advertiser_budget"`
	RemainingBudget         decimal.Decimal `json:"remaining_advertiser_budget"`

	Err          error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// ProcessCreatorPayout computes the fee and the remaining budget after a
// creator payout. The fee is charged on top of the payout. Rounding happens
// only on the returned fields, in every branch; the remaining budget is
// computed from the unrounded total.
//
// A negative payout yields ErrInvalidAmount with the budget reported
// unchanged. A total above the budget yields ErrInsufficientBudget with the
// would-be fee and total for diagnostics and the budget unchanged.
func ProcessCreatorPayout(creatorID string, payout, budget, feeRate decimal.Decimal) BudgetPayoutResult {
	if payout.IsNegative() {
		return BudgetPayoutResult{
			CreatorID:       creatorID,
			InitialBudget:   round2(budget),
			RemainingBudget: round2(budget),
			Err:             ErrInvalidAmount,
			ErrorMessage:    ErrInvalidAmount.Error(),
		}
	}

	fee := payout.Mul(feeRate)
	total := payout.Add(fee)

	if total.GreaterThan(budget) {
		return BudgetPayoutResult{
			CreatorID:               creatorID,
			PayoutToCreator:         round2(payout),
			PlatformFeeCharged:      round2(fee),
			TotalDeductedFromBudget: round2(total),
			InitialBudget:           round2(budget),
			RemainingBudget:         round2(budget),
			Err:                     ErrInsufficientBudget,
			ErrorMessage:            ErrInsufficientBudget.Error(),
		}
	}

	return BudgetPayoutResult{
		CreatorID:               creatorID,
		PayoutToCreator:         round2(payout),
		PlatformFeeCharged:      round2(fee),
		TotalDeductedFromBudget: round2(total),
		InitialBudget:           round2(budget),
		RemainingBudget:         round2(budget.Sub(total)),
	}
}

// BudgetPayoutProcessor applies the configured creator platform fee rate.
type BudgetPayoutProcessor struct {
	feeRate decimal.Decimal
}

// NewBudgetPayoutProcessor creates a processor from the finance configuration.
func NewBudgetPayoutProcessor(cfg config.FinanceConfig) *BudgetPayoutProcessor {
	return &BudgetPayoutProcessor{feeRate: decimal.NewFromFloat(cfg.CreatorPlatformFeeRateOnAdvertiserBudget)}
}

// FeeRate returns the platform fee rate charged on top of creator payouts.
func (p *BudgetPayoutProcessor) FeeRate() decimal.Decimal {
	return p.feeRate
}

// Process runs ProcessCreatorPayout with the configured fee rate. It does
// not touch any stored budget; see BudgetLedger for that.
func (p *BudgetPayoutProcessor) Process(creatorID string, payout, budget decimal.Decimal) BudgetPayoutResult {
	return ProcessCreatorPayout(creatorID, payout, budget, p.feeRate)
}
