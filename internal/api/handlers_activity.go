// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/promoscore/internal/activity"
	"github.com/tomtom215/promoscore/internal/detection"
	"github.com/tomtom215/promoscore/internal/metrics"
	"github.com/tomtom215/promoscore/internal/models"
)

// defaultEvaluationRange is used when a query omits start.
const defaultEvaluationRange = 24 * time.Hour

// RecordActivity stores one engagement event.
func (h *Handler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	var req models.ActivityRequest
	if !h.decodeJSON(w, r, &req) || !validateRequest(w, r, &req) {
		return
	}

	eventType, err := activity.ParseEventType(req.Type)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, errorBody(models.ErrCodeValidation, err.Error()), nil, nil)
		return
	}
	ts := req.Timestamp
	if ts.IsZero() {
		ts = h.now()
	}

	event := &activity.Event{
		UserID:    req.UserID,
		SessionID: req.SessionID,
		Type:      eventType,
		ContentID: req.ContentID,
		Timestamp: ts.UTC(),
	}
	if err := h.deps.Ledger.Record(r.Context(), event); err != nil {
		if isInvalidEvent(err) {
			respondError(w, r, http.StatusBadRequest, errorBody(models.ErrCodeValidation, err.Error()), nil, nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, errorBody(models.ErrCodeStorage, "failed to record activity"), nil, err)
		return
	}
	metrics.RecordActivityEvent(string(eventType))
	respondData(w, r, http.StatusCreated, event)
}

func isInvalidEvent(err error) bool {
	return errors.Is(err, activity.ErrUnknownEventType) ||
		errors.Is(err, activity.ErrMissingUserID) ||
		errors.Is(err, activity.ErrMissingTimestamp)
}

// evaluationRange reads start and cutoff, defaulting to the day ending now.
func (h *Handler) evaluationRange(w http.ResponseWriter, r *http.Request, userID string) (models.EvaluationQuery, bool) {
	q := models.EvaluationQuery{UserID: userID}
	var err error
	if q.Cutoff, err = parseTimeParam(r, "cutoff"); err != nil {
		respondError(w, r, http.StatusBadRequest, errorBody(models.ErrCodeValidation, err.Error()), nil, nil)
		return q, false
	}
	if q.Start, err = parseTimeParam(r, "start"); err != nil {
		respondError(w, r, http.StatusBadRequest, errorBody(models.ErrCodeValidation, err.Error()), nil, nil)
		return q, false
	}
	if q.Cutoff.IsZero() {
		q.Cutoff = h.now().UTC()
	}
	if q.Start.IsZero() {
		q.Start = q.Cutoff.Add(-defaultEvaluationRange)
	}
	if !validateRequest(w, r, &q) {
		return q, false
	}
	if span := q.Cutoff.Sub(q.Start); span > h.deps.MaxEvaluationRange {
		respondError(w, r, http.StatusBadRequest, errorBody(models.ErrCodeValidation,
			fmt.Sprintf("range of %s exceeds the maximum of %s", span, h.deps.MaxEvaluationRange)), nil, nil)
		return q, false
	}
	return q, true
}

// Evaluation classifies a user over [start, cutoff) and applies the
// resulting enforcement.
func (h *Handler) Evaluation(w http.ResponseWriter, r *http.Request) {
	q, ok := h.evaluationRange(w, r, chi.URLParam(r, "userID"))
	if !ok {
		return
	}

	ev, err := h.deps.Evaluator.Evaluate(r.Context(), q.UserID, q.Start, q.Cutoff)
	if err != nil {
		if errors.Is(err, activity.ErrInvalidWindow) || errors.Is(err, activity.ErrRangeTooLong) ||
			errors.Is(err, detection.ErrMissingUserID) {
			respondError(w, r, http.StatusBadRequest, errorBody(models.ErrCodeValidation, err.Error()), nil, nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, errorBody(models.ErrCodeStorage, "evaluation failed"), nil, err)
		return
	}
	respondData(w, r, http.StatusOK, ev)
}

// AuditQueue lists users waiting for manual review.
func (h *Handler) AuditQueue(w http.ResponseWriter, r *http.Request) {
	if h.deps.AuditQueue == nil {
		respondError(w, r, http.StatusNotFound, errorBody(models.ErrCodeNotFound, "audit queue is not configured"), nil, nil)
		return
	}
	items, err := h.deps.AuditQueue.Pending(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, errorBody(models.ErrCodeStorage, "failed to read audit queue"), nil, err)
		return
	}
	if items == nil {
		items = []detection.AuditItem{}
	}
	respondData(w, r, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// ResolveAudit removes a reviewed user from the audit queue.
func (h *Handler) ResolveAudit(w http.ResponseWriter, r *http.Request) {
	if h.deps.AuditQueue == nil {
		respondError(w, r, http.StatusNotFound, errorBody(models.ErrCodeNotFound, "audit queue is not configured"), nil, nil)
		return
	}
	userID := chi.URLParam(r, "userID")
	found, err := h.deps.AuditQueue.Resolve(r.Context(), userID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, errorBody(models.ErrCodeStorage, "failed to resolve audit item"), nil, err)
		return
	}
	if !found {
		respondError(w, r, http.StatusNotFound, errorBody(models.ErrCodeNotFound, "user is not pending review"), nil, nil)
		return
	}
	respondData(w, r, http.StatusOK, map[string]interface{}{"user_id": userID, "resolved": true})
}
