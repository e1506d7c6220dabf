// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package detection

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/tomtom215/promoscore/internal/activity"
	"github.com/tomtom215/promoscore/internal/logging"
	"github.com/tomtom215/promoscore/internal/metrics"
)

// ErrMissingUserID is returned when Evaluate is called without a user.
var ErrMissingUserID = errors.New("evaluation requires a user id")

// EvaluatorConfig configures the Evaluator.
type EvaluatorConfig struct {
	Baseline Baseline

	// WindowMinutes is the measurement window length T.
	WindowMinutes float64
}

// EvaluatorStats tracks evaluator throughput.
type EvaluatorStats struct {
	Evaluations int64              `json:"evaluations"`
	Errors      int64              `json:"errors"`
	ByLevel     map[BotLevel]int64 `json:"by_level"`
	LastRunAt   time.Time          `json:"last_run_at"`
}

// Evaluator runs the count, average, classify and decide chain for a user
// and performs the enforcement side effects.
type Evaluator struct {
	ledger activity.Ledger
	audit  AuditQueue
	cfg    EvaluatorConfig
	trail  *logging.AuditLogger
	now    func() time.Time

	mu        sync.RWMutex
	notifiers []Notifier
	stats     EvaluatorStats
}

// NewEvaluator creates an Evaluator. audit may be nil, in which case level B
// users are only notified.
func NewEvaluator(ledger activity.Ledger, audit AuditQueue, cfg EvaluatorConfig) (*Evaluator, error) {
	if ledger == nil {
		return nil, errors.New("evaluator requires an activity ledger")
	}
	if err := cfg.Baseline.Validate(); err != nil {
		return nil, err
	}
	if cfg.WindowMinutes <= 0 {
		return nil, activity.ErrInvalidWindow
	}
	return &Evaluator{
		ledger: ledger,
		audit:  audit,
		cfg:    cfg,
		trail:  logging.NewAuditLogger(),
		now:    time.Now,
		stats:  EvaluatorStats{ByLevel: make(map[BotLevel]int64)},
	}, nil
}

// RegisterNotifier adds a notifier.
func (e *Evaluator) RegisterNotifier(n Notifier) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifiers = append(e.notifiers, n)
	logging.Info().Str("notifier", n.Name()).Msg("registered notifier")
}

// Baseline returns the configured baseline.
func (e *Evaluator) Baseline() Baseline {
	return e.cfg.Baseline
}

// WindowMinutes returns the configured measurement window length.
func (e *Evaluator) WindowMinutes() float64 {
	return e.cfg.WindowMinutes
}

// Evaluate classifies userID over activity counted in [start, cutoff).
func (e *Evaluator) Evaluate(ctx context.Context, userID string, start, cutoff time.Time) (*Evaluation, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	began := time.Now()

	rates, err := activity.WindowRates(ctx, e.ledger, userID, start, cutoff, e.cfg.WindowMinutes)
	if err != nil {
		e.recordError()
		return nil, fmt.Errorf("window rates for %s: %w", userID, err)
	}

	ev := e.classify(userID, rates)
	ev.Start = start
	ev.Cutoff = cutoff
	e.enforce(ctx, ev)
	e.recordEvaluation(ev.Level, time.Since(began))
	return ev, nil
}

// EvaluateRates classifies precomputed window rates. It performs the same
// enforcement side effects as Evaluate.
func (e *Evaluator) EvaluateRates(ctx context.Context, userID string, rates []float64) (*Evaluation, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	began := time.Now()
	ev := e.classify(userID, rates)
	e.enforce(ctx, ev)
	e.recordEvaluation(ev.Level, time.Since(began))
	return ev, nil
}

func (e *Evaluator) classify(userID string, rates []float64) *Evaluation {
	avg := activity.Average(rates)
	level := e.cfg.Baseline.Classify(avg)
	suspicious, bot := e.cfg.Baseline.Thresholds()

	if rates == nil {
		rates = []float64{}
	}
	return &Evaluation{
		UserID:              userID,
		WindowMinutes:       e.cfg.WindowMinutes,
		Rates:               rates,
		AverageRate:         avg,
		Baseline:            e.cfg.Baseline,
		SuspiciousThreshold: suspicious,
		BotThreshold:        bot,
		Level:               level,
		Decision:            Decide(userID, level),
		EvaluatedAt:         e.now(),
	}
}

// enforce performs the side effects of a decision. Failures are logged.
func (e *Evaluator) enforce(ctx context.Context, ev *Evaluation) {
	rate := strconv.FormatFloat(ev.AverageRate, 'f', 4, 64)

	switch ev.Level {
	case LevelA:
		e.trail.Log(&logging.AuditEvent{
			Event:   "account_blocked",
			UserID:  ev.UserID,
			Success: true,
			Reason:  ev.Decision.Description,
			Amounts: map[string]string{"average_rate": rate},
		})
		e.notify(ctx, &Notification{
			Kind:        NotificationAccountBlocked,
			UserID:      ev.UserID,
			Level:       ev.Level,
			AverageRate: ev.AverageRate,
			Message:     ev.Decision.Description,
			CreatedAt:   ev.EvaluatedAt,
		})

	case LevelB:
		e.trail.Log(&logging.AuditEvent{
			Event:   "payout_held",
			UserID:  ev.UserID,
			Success: true,
			Reason:  ev.Decision.Description,
			Amounts: map[string]string{"average_rate": rate},
		})
		e.notify(ctx, &Notification{
			Kind:        NotificationAuditWarning,
			UserID:      ev.UserID,
			Level:       ev.Level,
			AverageRate: ev.AverageRate,
			Message:     ev.Decision.Description,
			CreatedAt:   ev.EvaluatedAt,
		})
		if e.audit != nil {
			err := e.audit.Enqueue(ctx, AuditItem{
				UserID:      ev.UserID,
				AverageRate: ev.AverageRate,
				Start:       ev.Start,
				Cutoff:      ev.Cutoff,
				EnqueuedAt:  ev.EvaluatedAt,
			})
			if err != nil {
				logging.Ctx(ctx).Error().Err(err).Str("user_id", ev.UserID).Msg("failed to enqueue user for audit")
			} else {
				ev.AuditEnqueued = true
			}
		}

	case LevelC:
		logging.Ctx(ctx).Debug().
			Str("user_id", ev.UserID).
			Float64("average_rate", ev.AverageRate).
			Msg("activity accepted as valid")
	}
}

func (e *Evaluator) notify(ctx context.Context, n *Notification) {
	e.mu.RLock()
	notifiers := make([]Notifier, 0, len(e.notifiers))
	for _, nf := range e.notifiers {
		if nf.Enabled() {
			notifiers = append(notifiers, nf)
		}
	}
	e.mu.RUnlock()

	for _, nf := range notifiers {
		if err := nf.Send(ctx, n); err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("notifier", nf.Name()).Str("user_id", n.UserID).Msg("failed to send notification")
		}
	}
}

func (e *Evaluator) recordEvaluation(level BotLevel, d time.Duration) {
	metrics.RecordClassification(level.String(), d)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.Evaluations++
	e.stats.ByLevel[level]++
	e.stats.LastRunAt = e.now()
}

func (e *Evaluator) recordError() {
	metrics.RecordEvaluationError()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.Errors++
}

// Stats returns a copy of the evaluator statistics.
func (e *Evaluator) Stats() EvaluatorStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := e.stats
	out.ByLevel = make(map[BotLevel]int64, len(e.stats.ByLevel))
	for k, v := range e.stats.ByLevel {
		out.ByLevel[k] = v
	}
	return out
}
