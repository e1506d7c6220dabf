// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/tomtom215/promoscore/internal/models"
)

const healthCheckTimeout = 2 * time.Second

// HealthStatus is the /health body.
type HealthStatus struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	Checks        map[string]string `json:"checks,omitempty"`
	Evaluations   int64             `json:"evaluations"`
}

// Health runs every registered check. Any failure turns the response into a
// 503 so load balancers stop routing here.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := HealthStatus{
		Status:        "healthy",
		Version:       h.deps.Version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Evaluations:   h.deps.Evaluator.Stats().Evaluations,
	}

	names := make([]string, 0, len(h.deps.HealthChecks))
	for name := range h.deps.HealthChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) > 0 {
		status.Checks = make(map[string]string, len(names))
	}
	for _, name := range names {
		if err := h.deps.HealthChecks[name](ctx); err != nil {
			status.Checks[name] = err.Error()
			status.Status = "unhealthy"
			continue
		}
		status.Checks[name] = "ok"
	}

	if status.Status != "healthy" {
		respondError(w, r, http.StatusServiceUnavailable,
			errorBody(models.ErrCodeStorage, "one or more dependencies are unhealthy"), status, nil)
		return
	}
	respondData(w, r, http.StatusOK, status)
}
