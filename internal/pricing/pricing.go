// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

// Package pricing bills advertiser usage in rate units with a volume
// discount and an overage surcharge above a prepaid credit limit.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/tomtom215/promoscore/internal/config"
	"github.com/tomtom215/promoscore/internal/metrics"
)

// DefaultDiscountPercent applies when a Pricer has no discount percentage set.
const DefaultDiscountPercent = 10

// ErrInvalidAmount is carried by a quote for negative usage or a negative
// credit limit.
var ErrInvalidAmount = errors.New("usage must not be negative")

var (
	thousand = decimal.NewFromInt(1000)
	hundred  = decimal.NewFromInt(100)
)

// Pricer holds the billing parameters.
type Pricer struct {
	CostPer1000       decimal.Decimal
	DiscountThreshold int64
	// DiscountPercent falls back to DefaultDiscountPercent when not Valid.
	DiscountPercent   decimal.NullDecimal
	OverageMultiplier decimal.Decimal
}

// NewPricer creates a Pricer from the pricing configuration.
func NewPricer(cfg config.PricingConfig) *Pricer {
	return &Pricer{
		CostPer1000:       decimal.NewFromFloat(cfg.CostPer1000RateUnits),
		DiscountThreshold: cfg.PrepaidCreditDiscountThresholdRateUnits,
		DiscountPercent:   decimal.NewNullDecimal(decimal.NewFromFloat(cfg.PrepaidDiscountPercentage)),
		OverageMultiplier: decimal.NewFromFloat(cfg.OverageFeeMultiplier),
	}
}

// PricingResult is a priced usage quote. Lines is the itemised breakdown
// and Explanation is Lines joined by newlines.
type PricingResult struct {
	TotalUnits  int64  `json:"total_units"`
	CreditLimit *int64 `json:"credit_limit,omitempty"`

	UnitCost          decimal.Decimal `json:"unit_cost"`
	EffectiveUnitCost decimal.Decimal `json:"effective_unit_cost"`
	DiscountApplied   bool            `json:"discount_applied"`

	CreditedUnits int64           `json:"credited_units"`
	CreditedCost  decimal.Decimal `json:"credited_cost"`
	OverageUnits  int64           `json:"overage_units"`
	OverageRate   decimal.Decimal `json:"overage_rate"`
	OverageCost   decimal.Decimal `json:"overage_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Lines         []string        `json:"lines"`
	Explanation   string          `json:"explanation"`
	ErrorMessage  string          `json:"error,omitempty"`
	Err           error           `json:"-"`
}

func (p *Pricer) discountPercent() decimal.Decimal {
	if p.DiscountPercent.Valid {
		return p.DiscountPercent.Decimal
	}
	return decimal.NewFromInt(DefaultDiscountPercent)
}

// Price bills totalUnits. When totalUnits exceeds the discount threshold,
// every unit inside the credit uses the discounted rate. Units above
// creditLimit are always billed at the undiscounted rate times the overage
// multiplier. A nil creditLimit means no overage applies.
func (p *Pricer) Price(totalUnits int64, creditLimit *int64) PricingResult {
	res := PricingResult{TotalUnits: totalUnits, CreditLimit: creditLimit}
	if totalUnits < 0 || (creditLimit != nil && *creditLimit < 0) {
		res.Err = ErrInvalidAmount
		res.ErrorMessage = ErrInvalidAmount.Error()
		res.Lines = []string{}
		return res
	}

	unit := p.CostPer1000.Div(thousand)
	effective := unit
	res.UnitCost = unit

	lines := []string{fmt.Sprintf("Base cost per rate unit: %s", money(unit))}

	if totalUnits > p.DiscountThreshold {
		pct := p.discountPercent()
		effective = unit.Mul(hundred.Sub(pct)).Div(hundred)
		res.DiscountApplied = true
		lines = append(lines,
			fmt.Sprintf("Usage above %s units, %s%% volume discount applied.", humanize.Comma(p.DiscountThreshold), pct),
			fmt.Sprintf("Effective cost per unit after volume discount: %s", money(effective)),
		)
	} else {
		lines = append(lines, fmt.Sprintf("Effective cost per unit (no volume discount): %s", money(effective)))
	}
	res.EffectiveUnitCost = effective
	lines = append(lines, fmt.Sprintf("Total rate units used: %s", humanize.Comma(totalUnits)))

	if creditLimit != nil && totalUnits > *creditLimit {
		res.CreditedUnits = *creditLimit
		res.OverageUnits = totalUnits - *creditLimit
		res.CreditedCost = decimal.NewFromInt(res.CreditedUnits).Mul(effective)
		res.OverageRate = unit.Mul(p.OverageMultiplier)
		res.OverageCost = decimal.NewFromInt(res.OverageUnits).Mul(res.OverageRate)
		res.TotalCost = res.CreditedCost.Add(res.OverageCost)

		lines = append(lines,
			fmt.Sprintf("Credit limit: %s units.", humanize.Comma(*creditLimit)),
			fmt.Sprintf("  Units within credit (%s) x %s = %s",
				humanize.Comma(res.CreditedUnits), money(effective), money(res.CreditedCost)),
			fmt.Sprintf("  Overage units (%s) x %s (%sx base rate) = %s",
				humanize.Comma(res.OverageUnits), money(res.OverageRate), p.OverageMultiplier, money(res.OverageCost)),
			fmt.Sprintf("Total cost (with overage): %s", money(res.TotalCost)),
		)
	} else {
		res.CreditedUnits = totalUnits
		res.CreditedCost = decimal.NewFromInt(totalUnits).Mul(effective)
		res.TotalCost = res.CreditedCost
		if creditLimit != nil {
			lines = append(lines, fmt.Sprintf("Usage within credit limit (%s units).", humanize.Comma(*creditLimit)))
		}
		lines = append(lines, fmt.Sprintf("Total cost: %s", money(res.TotalCost)))
	}

	res.Lines = lines
	res.Explanation = strings.Join(lines, "\n")
	metrics.RecordPricingQuote(res.DiscountApplied, res.OverageUnits > 0)
	return res
}

// money renders d with two decimals and thousands separators.
func money(d decimal.Decimal) string {
	r := d.Round(2)
	whole := r.Truncate(0)
	frac := r.Sub(whole).Abs().StringFixed(2)
	sign := ""
	if r.IsNegative() {
		sign = "-"
	}
	return sign + humanize.BigComma(whole.Abs().BigInt()) + strings.TrimPrefix(frac, "0")
}
