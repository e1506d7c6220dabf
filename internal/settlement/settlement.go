// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

// Package settlement gates daily payouts on bot classification and hands
// payable amounts to the payment gateway.
//
// A user classified C is paid, B is held for audit and A is cancelled. The
// classification and the payout always use the same [start, cutoff) range.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tomtom215/promoscore/internal/config"
	"github.com/tomtom215/promoscore/internal/detection"
	"github.com/tomtom215/promoscore/internal/gateway"
	"github.com/tomtom215/promoscore/internal/logging"
	"github.com/tomtom215/promoscore/internal/metrics"
	"github.com/tomtom215/promoscore/internal/payout"
)

// Status is the outcome of one settlement.
type Status string

// Settlement outcomes.
const (
	StatusPaid       Status = "paid"
	StatusHeld       Status = "held"
	StatusCancelled  Status = "cancelled"
	StatusNothingDue Status = "nothing_due"
	StatusFailed     Status = "failed"
)

// Evaluator classifies a user's activity over a range.
type Evaluator interface {
	Evaluate(ctx context.Context, userID string, start, cutoff time.Time) (*detection.Evaluation, error)
}

// UserLister enumerates users with recorded activity.
type UserLister interface {
	Users(ctx context.Context) ([]string, error)
}

// Settlement is the record of one user's daily settlement.
type Settlement struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	Start       time.Time          `json:"start"`
	Cutoff      time.Time          `json:"cutoff"`
	Level       detection.BotLevel `json:"level"`
	AverageRate float64            `json:"average_rate"`
	DailyPayout decimal.Decimal    `json:"daily_payout"`
	Status      Status             `json:"status"`
	Receipt     *gateway.Receipt   `json:"receipt,omitempty"`
	Reason      string             `json:"reason,omitempty"`
	SettledAt   time.Time          `json:"settled_at"`
}

// Service runs settlements.
type Service struct {
	evaluator Evaluator
	engine    *payout.Engine
	disburser gateway.Disburser
	lister    UserLister
	cfg       config.SettlementConfig
	now       func() time.Time
}

// NewService creates a settlement service. lister may be nil when only
// explicit user lists are swept.
func NewService(evaluator Evaluator, engine *payout.Engine, disburser gateway.Disburser, lister UserLister, cfg config.SettlementConfig) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Service{
		evaluator: evaluator,
		engine:    engine,
		disburser: disburser,
		lister:    lister,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Settle classifies userID over [start, cutoff) and acts on the level. The
// returned Settlement is always populated; the error is non-nil when the
// evaluation or the disbursement failed.
func (s *Service) Settle(ctx context.Context, userID string, start, cutoff time.Time) (Settlement, error) {
	st := Settlement{
		ID:     uuid.NewString(),
		UserID: userID,
		Start:  start,
		Cutoff: cutoff,
	}

	ev, err := s.evaluator.Evaluate(ctx, userID, start, cutoff)
	if err != nil {
		return s.finish(ctx, st, StatusFailed, err.Error()), fmt.Errorf("settle %s: %w", userID, err)
	}
	st.Level = ev.Level
	st.AverageRate = ev.AverageRate

	switch ev.Level {
	case detection.LevelA:
		return s.finish(ctx, st, StatusCancelled, ev.Decision.Description), nil
	case detection.LevelB:
		return s.finish(ctx, st, StatusHeld, ev.Decision.Description), nil
	case detection.LevelC:
	default:
		return s.finish(ctx, st, StatusFailed, detection.ErrUnknownLevel.Error()), detection.ErrUnknownLevel
	}

	st.DailyPayout = s.engine.Daily(ev.AverageRate)
	amount := st.DailyPayout.Round(2)
	if !amount.IsPositive() {
		return s.finish(ctx, st, StatusNothingDue, "no validated activity in range"), nil
	}

	receipt, err := s.disburser.Disburse(ctx, gateway.Disbursement{
		UserID:      userID,
		Amount:      amount,
		Reference:   st.ID,
		Description: fmt.Sprintf("daily payout %s", cutoff.Format(time.DateOnly)),
	})
	if err != nil {
		return s.finish(ctx, st, StatusFailed, err.Error()), fmt.Errorf("disburse to %s: %w", userID, err)
	}
	st.Receipt = &receipt
	return s.finish(ctx, st, StatusPaid, ""), nil
}

func (s *Service) finish(ctx context.Context, st Settlement, status Status, reason string) Settlement {
	st.Status = status
	st.Reason = reason
	st.SettledAt = s.now()
	metrics.RecordSettlement(string(status))

	event := logging.Ctx(ctx).Info()
	if status == StatusFailed {
		event = logging.Ctx(ctx).Warn()
	}
	event.
		Str("settlement_id", st.ID).
		Str("user_id", logging.SanitizeID(st.UserID)).
		Str("level", st.Level.String()).
		Str("status", string(status)).
		Str("amount", st.DailyPayout.StringFixed(2)).
		Msg("settlement finished")
	return st
}

// Sweep settles every user over the same range with at most cfg.Workers
// settlements in flight. One user's failure never stops the others.
// Results are in the order of users.
func (s *Service) Sweep(ctx context.Context, users []string, start, cutoff time.Time) []Settlement {
	began := time.Now()
	defer func() { metrics.RecordSettlementSweep(time.Since(began)) }()

	results := make([]Settlement, len(users))
	jobs := make(chan int)
	done := make(chan struct{})

	workers := s.cfg.Workers
	if workers > len(users) {
		workers = len(users)
	}
	for w := 0; w < workers; w++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := range jobs {
				st, err := s.Settle(ctx, users[i], start, cutoff)
				if err != nil && !errors.Is(err, context.Canceled) {
					logging.Ctx(ctx).Error().Err(err).Str("user_id", logging.SanitizeID(users[i])).Msg("settlement failed")
				}
				results[i] = st
			}
		}()
	}

	for i := range users {
		if ctx.Err() != nil {
			results[i] = s.finish(ctx, Settlement{ID: uuid.NewString(), UserID: users[i], Start: start, Cutoff: cutoff}, StatusFailed, ctx.Err().Error())
			continue
		}
		jobs <- i
	}
	close(jobs)
	for w := 0; w < workers; w++ {
		<-done
	}
	return results
}

// SweepAll settles every known user over the configured lookback ending now.
func (s *Service) SweepAll(ctx context.Context) ([]Settlement, error) {
	if s.lister == nil {
		return nil, errors.New("settlement sweep requires a user lister")
	}
	ctx = logging.ContextWithNewCorrelationID(ctx)

	users, err := s.lister.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	cutoff := s.now()
	start := cutoff.Add(-s.cfg.Lookback)
	results := s.Sweep(ctx, users, start, cutoff)

	counts := make(map[Status]int)
	for _, r := range results {
		counts[r.Status]++
	}
	logging.Ctx(ctx).Info().
		Int("users", len(users)).
		Int("paid", counts[StatusPaid]).
		Int("held", counts[StatusHeld]).
		Int("cancelled", counts[StatusCancelled]).
		Int("failed", counts[StatusFailed]).
		Msg("settlement sweep complete")
	return results, nil
}
