// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/promoscore/internal/middleware"
	"github.com/tomtom215/promoscore/internal/models"
)

// NewRouter wires the handler into a Chi router.
//
//	/health               liveness and dependency checks
//	/metrics              Prometheus exposition
//	/api/v1/...           rate limited JSON API
func NewRouter(h *Handler, mw *ChiMiddleware) http.Handler {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.PrometheusMetrics)

		r.Post("/activity", h.RecordActivity)
		r.Get("/users/{userID}/evaluation", h.Evaluation)

		r.Get("/audit/queue", h.AuditQueue)
		r.Delete("/audit/queue/{userID}", h.ResolveAudit)

		r.Post("/payouts/daily", h.DailyPayout)
		r.Post("/settlements/sweep", h.SettlementSweep)
		r.Post("/settlements/{userID}", h.Settle)

		r.Post("/withdrawals", h.Withdrawal)

		r.Post("/creator-payouts", h.CreatorPayout)
		r.Post("/creator-payouts/quote", h.CreatorPayoutQuote)

		r.Post("/budgets/deposits", h.BudgetDeposit)
		r.Get("/budgets/{advertiserID}", h.BudgetBalance)

		r.Get("/gateway/transactions/{transactionID}", h.Transaction)

		r.Post("/pricing/quote", h.PricingQuote)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, errorBody(models.ErrCodeNotFound, "no such endpoint"), nil, nil)
	})
	return r
}
