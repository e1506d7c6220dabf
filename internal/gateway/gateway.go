// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

// Package gateway is the boundary to the payment provider. Payouts leave
// through a Disburser and advertiser top-ups enter through a Depositor.
// The only implementation here logs instead of calling a provider.
package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for a disbursement or deposit that is not
// strictly positive.
var ErrInvalidAmount = errors.New("gateway amount must be positive")

// ErrUnknownTransaction is returned by Status for an ID it never issued.
var ErrUnknownTransaction = errors.New("unknown transaction")

// Status is the provider-side state of a transaction.
type Status string

// Transaction states.
const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Disbursement is a request to pay a user.
type Disbursement struct {
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference,omitempty"`
	Description string          `json:"description,omitempty"`
}

// Receipt acknowledges a disbursement or deposit.
type Receipt struct {
	TransactionID string          `json:"transaction_id"`
	UserID        string          `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// DepositRequest is a request to collect funds from an advertiser.
type DepositRequest struct {
	AdvertiserID string          `json:"advertiser_id"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description,omitempty"`
}

// Disburser pays out money.
type Disburser interface {
	Disburse(ctx context.Context, d Disbursement) (Receipt, error)
}

// Depositor collects money.
type Depositor interface {
	Deposit(ctx context.Context, req DepositRequest) (Receipt, error)
}

// Payout IDs carry 12 hex digits, deposit IDs 10.
func newTransactionID(prefix string, digits int) string {
	id := uuid.New()
	hex := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return prefix + hex[:digits]
}
