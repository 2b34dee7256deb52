// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/vantage/internal/models"
	"github.com/tomtom215/vantage/internal/validation"
)

// defaultHistoryLimit applies when the limit query parameter is absent.
const defaultHistoryLimit = 10

// SessionHistory is the payload of GET /api/v1/sessions/{id}/history.
type SessionHistory struct {
	SessionID string                    `json:"session_id"`
	Count     int                       `json:"count"`
	Results   []models.EstimationResult `json:"results"`
}

// Session handles GET /api/v1/sessions/{id}.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := h.sessionID(rw, r)
	if !ok {
		return
	}

	result, err := h.sessions.Latest(r.Context(), id)
	if err != nil {
		h.sessionError(rw, err)
		return
	}
	rw.Success(result)
}

// SessionHistory handles GET /api/v1/sessions/{id}/history?limit=N.
func (h *Handler) SessionHistory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := h.sessionID(rw, r)
	if !ok {
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			rw.BadRequest("limit must be a positive integer")
			return
		}
		limit = n
	}

	results, err := h.sessions.History(r.Context(), id, limit)
	if err != nil {
		h.sessionError(rw, err)
		return
	}
	rw.Success(SessionHistory{SessionID: id, Count: len(results), Results: results})
}

// DeleteSession handles DELETE /api/v1/sessions/{id}. Deleting an unknown
// session succeeds.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := h.sessionID(rw, r)
	if !ok {
		return
	}

	if err := h.sessions.Delete(r.Context(), id); err != nil {
		h.sessionError(rw, err)
		return
	}
	rw.Success(map[string]string{"session_id": id, "status": "deleted"})
}

// sessionID extracts and validates the {id} parameter. It writes the error
// response itself and reports false when the handler should stop.
func (h *Handler) sessionID(rw *ResponseWriter, r *http.Request) (string, bool) {
	if h.sessions == nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Session tracking is not enabled")
		return "", false
	}
	id := chi.URLParam(r, "id")
	if verr := validation.ValidateVar("id", id, "required,session_id"); verr != nil {
		rw.Validation(verr)
		return "", false
	}
	return id, true
}

func (h *Handler) sessionError(rw *ResponseWriter, err error) {
	if errors.Is(err, models.ErrSessionNotFound) {
		rw.NotFound("Session not found")
		return
	}
	rw.InternalError(err)
}
