// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/promoscore/internal/api"
	"github.com/tomtom215/promoscore/internal/config"
	"github.com/tomtom215/promoscore/internal/store"
)

func TestBuildComponents(t *testing.T) {
	t.Parallel()

	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer db.Close()

	cfg := config.Default()
	cfg.Detection.WebhookURL = "http://127.0.0.1:1/hook"

	comps, err := buildComponents(cfg, db)
	if err != nil {
		t.Fatalf("buildComponents() error = %v", err)
	}
	if comps.settlement == nil || comps.handler == nil {
		t.Fatal("expected settlement service and handler")
	}

	router := api.NewRouter(comps.handler, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"store":"ok"`) {
		t.Errorf("health body missing store check: %s", rec.Body.String())
	}
}

func TestBuildComponents_InvalidBaseline(t *testing.T) {
	t.Parallel()

	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer db.Close()

	cfg := config.Default()
	cfg.Detection.StdDevNormalActivity = -1
	if _, err := buildComponents(cfg, db); err == nil {
		t.Error("expected error for negative standard deviation")
	}
}
