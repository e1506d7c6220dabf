// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package services

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/promoscore/internal/logging"
	"github.com/tomtom215/promoscore/internal/settlement"
)

// Sweeper settles every known user. Satisfied by *settlement.Service.
type Sweeper interface {
	SweepAll(ctx context.Context) ([]settlement.Settlement, error)
}

// GarbageCollector reclaims storage. Satisfied by *store.DB.
type GarbageCollector interface {
	RunGC() error
}

// runEvery calls fn every interval until ctx is cancelled. A failing run is
// logged and the loop continues; only cancellation ends it.
func runEvery(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) error {
	logger := logging.WithComponent(name)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("periodic run failed")
			}
		}
	}
}

// SettlementSweepService runs the settlement sweep on a fixed interval.
type SettlementSweepService struct {
	sweeper  Sweeper
	interval time.Duration
}

// NewSettlementSweepService creates the sweep service. A non-positive
// interval means daily.
func NewSettlementSweepService(sweeper Sweeper, interval time.Duration) *SettlementSweepService {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &SettlementSweepService{sweeper: sweeper, interval: interval}
}

// Serve implements suture.Service.
func (s *SettlementSweepService) Serve(ctx context.Context) error {
	return runEvery(ctx, s.String(), s.interval, func(ctx context.Context) error {
		results, err := s.sweeper.SweepAll(ctx)
		if err != nil {
			return err
		}
		logging.Ctx(ctx).Debug().Int("settlements", len(results)).Msg("scheduled sweep finished")
		return nil
	})
}

func (s *SettlementSweepService) String() string {
	return "settlement-sweep"
}

// StoreGCService reclaims BadgerDB value log space periodically.
type StoreGCService struct {
	gc       GarbageCollector
	interval time.Duration
}

// NewStoreGCService creates the GC service. A non-positive interval means
// every ten minutes.
func NewStoreGCService(gc GarbageCollector, interval time.Duration) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{gc: gc, interval: interval}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	return runEvery(ctx, s.String(), s.interval, func(context.Context) error {
		return s.gc.RunGC()
	})
}

func (s *StoreGCService) String() string {
	return "store-gc"
}
