// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

/*
Package main is the entry point for the Promoscore server.

Promoscore records promoter engagement, classifies each promoter's activity
rate against a normal-activity baseline, and pays validated promoters a daily
amount. It also settles promoter withdrawals, charges creator payouts to
advertiser budgets, and quotes usage billing.

# Application Architecture

	RootSupervisor ("promoscore")
	├── BackgroundSupervisor ("background-layer")
	│   ├── Settlement sweep (SETTLEMENT_ENABLED=true)
	│   └── Store GC (on-disk store only)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment
 2. Logging: zerolog, bridged to slog for the supervisor
 3. Store: BadgerDB for activity events and advertiser budgets
 4. Detection: evaluator, audit queue, log and webhook notifiers
 5. Money: payout engine, withdrawal and budget processors, pricer
 6. Gateway: log gateway behind a circuit breaker
 7. HTTP: Chi router under the supervisor tree

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests, the sweep stops between users, and the store is closed last.

# Example

	export STORE_PATH=/var/lib/promoscore
	export RATE_FEE_PER_ACTIVITY=1.5
	export SETTLEMENT_ENABLED=true
	./promoscore
*/
package main
