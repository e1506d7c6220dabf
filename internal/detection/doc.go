// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

// Package detection classifies averaged engagement rates against a
// normal-activity baseline and maps each classification to an enforcement
// action.
//
// Architecture:
//
//	Ledger -> WindowRates -> Average -> Classify -> Decide -> Notifier / AuditQueue
//	                                       |
//	                                       v
//	                                  Evaluation (consumed by settlement)
//
// Classify and Decide are pure functions of their inputs and are safe for
// concurrent use. Side effects (notifications, audit queueing, metrics)
// happen only in the Evaluator.
//
// Levels:
//   - A: average rate above μ+3σ. Account blocked, payout cancelled.
//   - B: average rate in (μ+2σ, μ+3σ]. Warning sent, manual audit, payout held.
//   - C: average rate at or below μ+2σ. Activity valid, payout proceeds.
package detection
