// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package finance

import (
	"github.com/shopspring/decimal"

	"github.com/tomtom215/promoscore/internal/config"
	"github.com/tomtom215/promoscore/internal/logging"
	"github.com/tomtom215/promoscore/internal/metrics"
)

// WithdrawalResult is the outcome of one promoter withdrawal.
type WithdrawalResult struct {
	UserID      string          `json:"user_id"`
	GrossAmount decimal.Decimal `json:"gross_amount"`
	PlatformFee decimal.Decimal `json:"platform_fee"`
	TaxDeducted decimal.Decimal `json:"tax_deducted"`
	NetPayout   decimal.Decimal `json:"net_payout"`

	Err          error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// ProcessWithdrawal computes tax, platform fee and net payout for a gross
// withdrawal. Tax and fee are rounded before they are subtracted, so the net
// can differ from round(gross - rawTax - rawFee) by up to a cent. A negative
// net is clamped to zero. A negative gross yields ErrInvalidAmount with every
// monetary field zero.
func ProcessWithdrawal(userID string, gross, pphRate, feeRate decimal.Decimal) WithdrawalResult {
	if gross.IsNegative() {
		return WithdrawalResult{
			UserID:       userID,
			Err:          ErrInvalidAmount,
			ErrorMessage: ErrInvalidAmount.Error(),
		}
	}

	tax := round2(gross.Mul(pphRate))
	fee := round2(gross.Mul(feeRate))

	net := gross.Sub(tax).Sub(fee)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return WithdrawalResult{
		UserID:      userID,
		GrossAmount: round2(gross),
		PlatformFee: fee,
		TaxDeducted: tax,
		NetPayout:   round2(net),
	}
}

// WithdrawalProcessor applies the configured withholding tax and platform
// fee rates and writes every outcome to the audit trail.
type WithdrawalProcessor struct {
	pphRate decimal.Decimal
	feeRate decimal.Decimal
	trail   *logging.AuditLogger
}

// NewWithdrawalProcessor creates a processor from the finance configuration.
func NewWithdrawalProcessor(cfg config.FinanceConfig) *WithdrawalProcessor {
	return &WithdrawalProcessor{
		pphRate: decimal.NewFromFloat(cfg.PromoterWithdrawalPPHRate),
		feeRate: decimal.NewFromFloat(cfg.PromoterPlatformFeeRate),
		trail:   logging.NewAuditLogger(),
	}
}

// Process runs ProcessWithdrawal with the configured rates.
func (p *WithdrawalProcessor) Process(userID string, gross decimal.Decimal) WithdrawalResult {
	res := ProcessWithdrawal(userID, gross, p.pphRate, p.feeRate)

	outcome := "processed"
	if res.Err != nil {
		outcome = "rejected"
	}
	metrics.RecordWithdrawal(outcome)

	p.trail.Log(&logging.AuditEvent{
		Event:   "withdrawal_processed",
		UserID:  userID,
		Success: res.Err == nil,
		Reason:  res.ErrorMessage,
		Amounts: map[string]string{
			"gross":        gross.String(),
			"platform_fee": res.PlatformFee.StringFixed(moneyPlaces),
			"tax":          res.TaxDeducted.StringFixed(moneyPlaces),
			"net":          res.NetPayout.StringFixed(moneyPlaces),
		},
	})
	return res
}
