// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/promoscore/internal/logging"
)

// LogGateway accepts every valid request as pending, logs it and keeps the
// receipt for Status lookups.
type LogGateway struct {
	logger zerolog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	receipts map[string]Receipt
}

// NewLogGateway creates a gateway on the component logger.
func NewLogGateway() *LogGateway {
	return NewLogGatewayWithLogger(logging.WithComponent("gateway"))
}

// NewLogGatewayWithLogger creates a gateway on a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewLogGatewayWithLogger(logger zerolog.Logger) *LogGateway {
	return &LogGateway{
		logger:   logger,
		now:      time.Now,
		receipts: make(map[string]Receipt),
	}
}

// Disburse records a pending payout.
func (g *LogGateway) Disburse(ctx context.Context, d Disbursement) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if !d.Amount.IsPositive() {
		return Receipt{}, fmt.Errorf("%w: payout of %s to %s", ErrInvalidAmount, d.Amount, d.UserID)
	}

	r := g.store(Receipt{
		TransactionID: newTransactionID("PAYOUT-", 12),
		UserID:        d.UserID,
		Amount:        d.Amount,
		Status:        StatusPending,
		CreatedAt:     g.now(),
	})
	g.logger.Info().
		Str("transaction_id", r.TransactionID).
		Str("user_id", logging.SanitizeID(d.UserID)).
		Str("amount", d.Amount.StringFixed(2)).
		Str("reference", d.Reference).
		Msg("payout initiated")
	return r, nil
}

// Deposit records a pending advertiser deposit.
func (g *LogGateway) Deposit(ctx context.Context, req DepositRequest) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if !req.Amount.IsPositive() {
		return Receipt{}, fmt.Errorf("%w: deposit of %s from %s", ErrInvalidAmount, req.Amount, req.AdvertiserID)
	}

	r := g.store(Receipt{
		TransactionID: newTransactionID("DEP-", 10),
		UserID:        req.AdvertiserID,
		Amount:        req.Amount,
		Status:        StatusPending,
		CreatedAt:     g.now(),
	})
	g.logger.Info().
		Str("transaction_id", r.TransactionID).
		Str("advertiser_id", logging.SanitizeID(req.AdvertiserID)).
		Str("amount", req.Amount.StringFixed(2)).
		Msg("deposit initiated")
	return r, nil
}

// Status returns the stored receipt for transactionID.
func (g *LogGateway) Status(_ context.Context, transactionID string) (Receipt, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.receipts[transactionID]
	if !ok {
		return Receipt{}, fmt.Errorf("%w: %s", ErrUnknownTransaction, transactionID)
	}
	return r, nil
}

func (g *LogGateway) store(r Receipt) Receipt {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.receipts[r.TransactionID] = r
	return r
}
