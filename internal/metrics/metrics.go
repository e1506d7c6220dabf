// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

// Package metrics registers the Prometheus collectors for Promoscore and
// exposes small Record* helpers so callers never touch label ordering.
//
// Collectors are registered on the default registry through promauto and
// served by promhttp on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Detection Metrics
	BotClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_classifications_total",
			Help: "Total number of activity classifications by bot level",
		},
		[]string{"level"}, // "A", "B", "C"
	)

	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bot_evaluation_duration_seconds",
			Help:    "Time to count activity, classify and decide for one user",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	EvaluationErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_evaluation_errors_total",
			Help: "Total number of evaluations that failed before classification",
		},
	)

	AuditQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "audit_queue_depth",
			Help: "Number of suspicious users waiting for manual audit",
		},
	)

	ActivityEventsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_events_recorded_total",
			Help: "Total number of activity events recorded by type",
		},
		[]string{"type"}, // "view", "like", "comment"
	)

	// Money Metrics
	DailyPayoutAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "payout_daily_amount",
			Help:    "Distribution of computed daily payouts in currency units",
			Buckets: prometheus.ExponentialBuckets(100, 4, 8),
		},
	)

	WithdrawalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "withdrawals_total",
			Help: "Total number of promoter withdrawals by outcome",
		},
		[]string{"outcome"}, // "processed", "invalid_amount"
	)

	CreatorPayoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creator_payouts_total",
			Help: "Total number of creator payouts against advertiser budgets by outcome",
		},
		[]string{"outcome"}, // "charged", "invalid_amount", "insufficient_budget"
	)

	PricingQuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_quotes_total",
			Help: "Total number of usage price quotes",
		},
		[]string{"discounted", "overage"},
	)

	// Settlement Metrics
	SettlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlements_total",
			Help: "Total number of user settlements by status",
		},
		[]string{"status"}, // "paid", "held", "cancelled", "failed"
	)

	SettlementSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "settlement_sweep_duration_seconds",
			Help:    "Duration of a full settlement sweep",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Gateway Metrics
	GatewayDisbursementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_disbursements_total",
			Help: "Total number of payment gateway disbursement attempts by outcome",
		},
		[]string{"outcome"}, // "success", "error", "rejected"
	)

	GatewayBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gateway_breaker_state",
			Help: "Payment gateway circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)
)

// RecordClassification counts one classification at level ("A", "B", "C").
func RecordClassification(level string, duration time.Duration) {
	BotClassificationsTotal.WithLabelValues(level).Inc()
	EvaluationDuration.Observe(duration.Seconds())
}

// RecordEvaluationError counts an evaluation that could not reach a level.
func RecordEvaluationError() {
	EvaluationErrors.Inc()
}

// RecordActivityEvent counts a recorded activity event.
func RecordActivityEvent(eventType string) {
	ActivityEventsRecorded.WithLabelValues(eventType).Inc()
}

// RecordDailyPayout observes a computed daily payout amount.
func RecordDailyPayout(amount float64) {
	DailyPayoutAmount.Observe(amount)
}

// RecordWithdrawal counts a withdrawal by outcome.
func RecordWithdrawal(outcome string) {
	WithdrawalsTotal.WithLabelValues(outcome).Inc()
}

// RecordCreatorPayout counts a budget-backed creator payout by outcome.
func RecordCreatorPayout(outcome string) {
	CreatorPayoutsTotal.WithLabelValues(outcome).Inc()
}

// RecordPricingQuote counts a usage quote.
func RecordPricingQuote(discounted, overage bool) {
	PricingQuotesTotal.WithLabelValues(boolLabel(discounted), boolLabel(overage)).Inc()
}

// RecordSettlement counts a per-user settlement by status.
func RecordSettlement(status string) {
	SettlementsTotal.WithLabelValues(status).Inc()
}

// RecordSettlementSweep observes a completed sweep.
func RecordSettlementSweep(duration time.Duration) {
	SettlementSweepDuration.Observe(duration.Seconds())
}

// RecordDisbursement counts a gateway attempt by outcome.
func RecordDisbursement(outcome string) {
	GatewayDisbursementsTotal.WithLabelValues(outcome).Inc()
}

// SetBreakerState publishes the gateway breaker state.
func SetBreakerState(state int) {
	GatewayBreakerState.Set(float64(state))
}

// RecordAPIRequest records API request metrics.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
