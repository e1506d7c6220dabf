// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/promoscore/internal/logging"
	"github.com/tomtom215/promoscore/internal/metrics"
)

// ErrUnknownAdvertiser is returned when no budget has been deposited for an
// advertiser.
var ErrUnknownAdvertiser = errors.New("advertiser has no budget")

// UpdateFunc receives the stored balance and returns the balance to store.
// Returning write=false, or a non-nil error, leaves the stored value as is.
type UpdateFunc func(current decimal.Decimal, exists bool) (next decimal.Decimal, write bool, err error)

// BudgetStore persists advertiser budgets. Update must run fn and the write
// atomically with respect to other updates of the same advertiser.
type BudgetStore interface {
	Balance(ctx context.Context, advertiserID string) (decimal.Decimal, error)
	Update(ctx context.Context, advertiserID string, fn UpdateFunc) error
}

// BudgetLedger charges creator payouts against stored advertiser budgets.
type BudgetLedger struct {
	store     BudgetStore
	processor *BudgetPayoutProcessor
	trail     *logging.AuditLogger
}

// NewBudgetLedger creates a ledger over store.
func NewBudgetLedger(store BudgetStore, processor *BudgetPayoutProcessor) *BudgetLedger {
	return &BudgetLedger{
		store:     store,
		processor: processor,
		trail:     logging.NewAuditLogger(),
	}
}

// Balance returns the current budget of advertiserID.
func (l *BudgetLedger) Balance(ctx context.Context, advertiserID string) (decimal.Decimal, error) {
	return l.store.Balance(ctx, advertiserID)
}

// Deposit adds a strictly positive amount to an advertiser budget, creating
// it if needed, and returns the new balance.
func (l *BudgetLedger) Deposit(ctx context.Context, advertiserID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: deposit must be positive, got %s", ErrInvalidAmount, amount)
	}

	var balance decimal.Decimal
	err := l.store.Update(ctx, advertiserID, func(current decimal.Decimal, _ bool) (decimal.Decimal, bool, error) {
		balance = round2(current.Add(amount))
		return balance, true, nil
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("deposit for %s: %w", advertiserID, err)
	}

	l.trail.Log(&logging.AuditEvent{
		Event:          "budget_deposited",
		CounterpartyID: advertiserID,
		Success:        true,
		Amounts:        map[string]string{"amount": amount.String(), "balance": balance.StringFixed(moneyPlaces)},
	})
	return balance, nil
}

// ChargeCreatorPayout reads the advertiser budget, runs the payout
// computation and stores the remaining budget only when the result carries
// no error. The returned error reports storage failures and unknown
// advertisers; business rejections are in the result's Err.
func (l *BudgetLedger) ChargeCreatorPayout(ctx context.Context, advertiserID, creatorID string, payout decimal.Decimal) (BudgetPayoutResult, error) {
	var res BudgetPayoutResult
	err := l.store.Update(ctx, advertiserID, func(current decimal.Decimal, exists bool) (decimal.Decimal, bool, error) {
		if !exists {
			return decimal.Zero, false, ErrUnknownAdvertiser
		}
		res = l.processor.Process(creatorID, payout, current)
		if res.Err != nil {
			return current, false, nil
		}
		return res.RemainingBudget, true, nil
	})
	if err != nil {
		metrics.RecordCreatorPayout("error")
		return BudgetPayoutResult{}, fmt.Errorf("charge advertiser %s: %w", advertiserID, err)
	}

	metrics.RecordCreatorPayout(payoutOutcome(res.Err))
	l.trail.Log(&logging.AuditEvent{
		Event:          "creator_payout_charged",
		UserID:         creatorID,
		CounterpartyID: advertiserID,
		Success:        res.Err == nil,
		Reason:         res.ErrorMessage,
		Amounts: map[string]string{
			"payout":    res.PayoutToCreator.StringFixed(moneyPlaces),
			"fee":       res.PlatformFeeCharged.StringFixed(moneyPlaces),
			"total":     res.TotalDeductedFromBudget.StringFixed(moneyPlaces),
			"remaining": res.RemainingBudget.StringFixed(moneyPlaces),
		},
	})
	return res, nil
}

// Quote runs the payout computation against the current budget without
// charging it.
func (l *BudgetLedger) Quote(ctx context.Context, advertiserID, creatorID string, payout decimal.Decimal) (BudgetPayoutResult, error) {
	budget, err := l.store.Balance(ctx, advertiserID)
	if err != nil {
		return BudgetPayoutResult{}, err
	}
	return l.processor.Process(creatorID, payout, budget), nil
}

func payoutOutcome(err error) string {
	switch {
	case err == nil:
		return "charged"
	case errors.Is(err, ErrInsufficientBudget):
		return "insufficient_budget"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	default:
		return "error"
	}
}
