// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

// Package api exposes activity recording, bot evaluation, payouts, withdrawals,
// advertiser budgets and usage pricing over a Chi-routed JSON API.
//
// Every response uses the models.APIResponse envelope. Money values are
// serialized as decimal strings.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/promoscore/internal/activity"
	"github.com/tomtom215/promoscore/internal/detection"
	"github.com/tomtom215/promoscore/internal/finance"
	"github.com/tomtom215/promoscore/internal/gateway"
	"github.com/tomtom215/promoscore/internal/payout"
	"github.com/tomtom215/promoscore/internal/pricing"
	"github.com/tomtom215/promoscore/internal/settlement"
)

// TransactionLookup returns a previously issued gateway receipt.
type TransactionLookup interface {
	Status(ctx context.Context, transactionID string) (gateway.Receipt, error)
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Dependencies are the components the handlers call into. Settlement,
// Depositor and Transactions may be nil; their endpoints then answer 404.
type Dependencies struct {
	Ledger          activity.Ledger
	Evaluator       *detection.Evaluator
	AuditQueue      detection.AuditQueue
	Payout          *payout.Engine
	Withdrawals     *finance.WithdrawalProcessor
	CreatorPayouts  *finance.BudgetPayoutProcessor
	Budgets         *finance.BudgetLedger
	Pricer          *pricing.Pricer
	Settlement      *settlement.Service
	Depositor       gateway.Depositor
	Transactions    TransactionLookup
	HealthChecks    map[string]HealthCheck
	Version         string
	MaxRequestBytes int64

	// MaxEvaluationRange bounds start..cutoff on evaluation and settlement
	// requests. Defaults to 31 days.
	MaxEvaluationRange time.Duration
}

// Handler serves the API endpoints.
type Handler struct {
	deps      Dependencies
	startTime time.Time
	now       func() time.Time
}

const (
	defaultMaxRequestBytes    = 1 << 20
	defaultMaxEvaluationRange = 31 * 24 * time.Hour
)

// NewHandler validates deps and creates a Handler.
func NewHandler(deps *Dependencies) (*Handler, error) {
	if deps == nil {
		return nil, errors.New("api: dependencies are required")
	}
	switch {
	case deps.Ledger == nil:
		return nil, errors.New("api: activity ledger is required")
	case deps.Evaluator == nil:
		return nil, errors.New("api: evaluator is required")
	case deps.Payout == nil:
		return nil, errors.New("api: payout engine is required")
	case deps.Withdrawals == nil:
		return nil, errors.New("api: withdrawal processor is required")
	case deps.CreatorPayouts == nil:
		return nil, errors.New("api: creator payout processor is required")
	case deps.Budgets == nil:
		return nil, errors.New("api: budget ledger is required")
	case deps.Pricer == nil:
		return nil, errors.New("api: pricer is required")
	}
	d := *deps
	if d.MaxRequestBytes <= 0 {
		d.MaxRequestBytes = defaultMaxRequestBytes
	}
	if d.MaxEvaluationRange <= 0 {
		d.MaxEvaluationRange = defaultMaxEvaluationRange
	}
	if d.Version == "" {
		d.Version = "dev"
	}
	return &Handler{deps: d, startTime: time.Now(), now: time.Now}, nil
}
