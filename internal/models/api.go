// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

// Package models defines the HTTP API envelope and request bodies.
package models

import (
	"time"
)

// APIResponse wraps every API response.
//
//	{
//	  "status": "success",
//	  "data": {"user_id": "u-1", "level": "C", ...},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "request_id": "..."}
//	}
//
// Status is "success" or "error"; Error is set only for "error".
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata accompanies every response.
type Metadata struct {
	Timestamp     time.Time `json:"timestamp"`
	RequestID     string    `json:"request_id,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// APIError is the error body.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeInvalidAmount      = "INVALID_AMOUNT"
	ErrCodeInsufficientBudget = "INSUFFICIENT_BUDGET"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	ErrCodeGatewayUnavailable = "GATEWAY_UNAVAILABLE"
	ErrCodeStorage            = "STORAGE_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
)
