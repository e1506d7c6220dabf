// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package gateway

import (
	"context"
	"errors"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/promoscore/internal/config"
	"github.com/tomtom215/promoscore/internal/logging"
	"github.com/tomtom215/promoscore/internal/metrics"
)

// BreakerDisburser guards a Disburser with a circuit breaker. After
// BreakerMaxFailures consecutive failures further payouts are rejected
// without reaching the provider until BreakerTimeout has passed.
//
// Invalid amounts are caller errors and do not count as provider failures.
type BreakerDisburser struct {
	next Disburser
	cb   *gobreaker.CircuitBreaker[Receipt]
}

// NewBreakerDisburser wraps next.
func NewBreakerDisburser(next Disburser, cfg config.GatewayConfig) *BreakerDisburser {
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	metrics.SetBreakerState(stateToInt(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[Receipt](gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 1,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrInvalidAmount)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("gateway circuit breaker state change")
			metrics.SetBreakerState(stateToInt(to))
		},
	})

	return &BreakerDisburser{next: next, cb: cb}
}

// Disburse forwards to the wrapped Disburser unless the breaker is open.
func (b *BreakerDisburser) Disburse(ctx context.Context, d Disbursement) (Receipt, error) {
	r, err := b.cb.Execute(func() (Receipt, error) {
		return b.next.Disburse(ctx, d)
	})

	switch {
	case err == nil:
		metrics.RecordDisbursement("success")
	case IsUnavailable(err):
		metrics.RecordDisbursement("rejected")
	default:
		metrics.RecordDisbursement("failure")
	}
	return r, err
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *BreakerDisburser) State() string {
	return b.cb.State().String()
}

func stateToInt(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// IsUnavailable reports whether err means the breaker refused the call.
func IsUnavailable(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
