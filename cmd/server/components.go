// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/promoscore/internal/activity"
	"github.com/tomtom215/promoscore/internal/api"
	"github.com/tomtom215/promoscore/internal/config"
	"github.com/tomtom215/promoscore/internal/detection"
	"github.com/tomtom215/promoscore/internal/finance"
	"github.com/tomtom215/promoscore/internal/gateway"
	"github.com/tomtom215/promoscore/internal/logging"
	"github.com/tomtom215/promoscore/internal/payout"
	"github.com/tomtom215/promoscore/internal/pricing"
	"github.com/tomtom215/promoscore/internal/settlement"
	"github.com/tomtom215/promoscore/internal/store"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// components holds everything main wires into the supervisor tree.
type components struct {
	settlement *settlement.Service
	handler    *api.Handler
}

// buildComponents constructs the domain services on top of db.
func buildComponents(cfg *config.Config, db *store.DB) (*components, error) {
	ledger := activity.NewBadgerLedger(db.Badger())
	queue := detection.NewBadgerAuditQueue(db.Badger())

	evaluator, err := detection.NewEvaluator(ledger, queue, detection.EvaluatorConfig{
		Baseline: detection.Baseline{
			Mean:   cfg.Detection.MeanNormalActivity,
			StdDev: cfg.Detection.StdDevNormalActivity,
		},
		WindowMinutes: cfg.Detection.DefaultMeasurementDurationMinutes,
	})
	if err != nil {
		return nil, fmt.Errorf("create evaluator: %w", err)
	}
	evaluator.RegisterNotifier(detection.NewLogNotifier())
	if cfg.Detection.WebhookURL != "" {
		evaluator.RegisterNotifier(detection.NewWebhookNotifier(detection.WebhookConfig{
			WebhookURL: cfg.Detection.WebhookURL,
		}))
	}

	logGateway := gateway.NewLogGateway()
	disburser := gateway.NewBreakerDisburser(logGateway, cfg.Gateway)

	engine := payout.NewEngine(cfg.Payout)
	creatorPayouts := finance.NewBudgetPayoutProcessor(cfg.Finance)
	settlements := settlement.NewService(evaluator, engine, disburser, ledger, cfg.Settlement)

	handler, err := api.NewHandler(&api.Dependencies{
		Ledger:         ledger,
		Evaluator:      evaluator,
		AuditQueue:     queue,
		Payout:         engine,
		Withdrawals:    finance.NewWithdrawalProcessor(cfg.Finance),
		CreatorPayouts: creatorPayouts,
		Budgets:        finance.NewBudgetLedger(finance.NewBadgerBudgetStore(db.Badger()), creatorPayouts),
		Pricer:         pricing.NewPricer(cfg.Pricing),
		Settlement:     settlements,
		Depositor:      logGateway,
		Transactions:   logGateway,
		HealthChecks: map[string]api.HealthCheck{
			"store": db.Ping,
			"gateway": func(context.Context) error {
				if state := disburser.State(); state == "open" {
					return fmt.Errorf("payout breaker is %s", state)
				}
				return nil
			},
		},
		Version:            version,
		MaxEvaluationRange: cfg.Detection.MaxEvaluationRange,
	})
	if err != nil {
		return nil, fmt.Errorf("create API handler: %w", err)
	}

	logging.Info().
		Float64("mean_normal_activity", cfg.Detection.MeanNormalActivity).
		Float64("std_dev_normal_activity", cfg.Detection.StdDevNormalActivity).
		Str("rate_fee_per_activity", engine.RateFee().String()).
		Bool("webhook", cfg.Detection.WebhookURL != "").
		Msg("components initialized")

	return &components{settlement: settlements, handler: handler}, nil
}
