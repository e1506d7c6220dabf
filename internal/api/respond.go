// Promoscore - Engagement Bot Detection and Creator Monetization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/promoscore

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/promoscore/internal/logging"
	"github.com/tomtom215/promoscore/internal/models"
	"github.com/tomtom215/promoscore/internal/validation"
)

// sanitizeLogValue escapes control characters so request data cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func metadata(r *http.Request) models.Metadata {
	return models.Metadata{
		Timestamp:     time.Now().UTC(),
		RequestID:     logging.RequestIDFromContext(r.Context()),
		CorrelationID: logging.CorrelationIDFromContext(r.Context()),
	}
}

// respondJSON writes response with an ETag derived from the body.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

// respondData writes a success envelope.
func respondData(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: metadata(r),
	})
}

// respondError writes an error envelope. data, when non-nil, carries a
// partial result such as a rejected payout computation.
func respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError, data interface{}, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Warn().
			Str("code", sanitizeLogValue(apiErr.Code)).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Data:     data,
		Metadata: metadata(r),
		Error:    apiErr,
	})
}

func errorBody(code, message string) *models.APIError {
	return &models.APIError{Code: code, Message: message}
}

// generateETag hashes data with FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// decodeJSON reads a single JSON object from the request body into v.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, h.deps.MaxRequestBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		msg := "request body must be a JSON object"
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			msg = "request body too large"
		case errors.Is(err, io.EOF):
			msg = "request body is empty"
		}
		respondError(w, r, http.StatusBadRequest, errorBody(models.ErrCodeInvalidJSON, msg), nil, err)
		return false
	}
	return true
}

// validateRequest runs struct validation and writes a 400 on failure.
func validateRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()
	respondError(w, r, http.StatusBadRequest, &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}, nil, nil)
	return false
}

// parseTimeParam parses an RFC 3339 query parameter. A missing parameter
// yields the zero time.
func parseTimeParam(r *http.Request, key string) (time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be an RFC 3339 timestamp", key)
	}
	return t, nil
}
