// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/vantage/internal/geoip"
	"github.com/tomtom215/vantage/internal/models"
	"github.com/tomtom215/vantage/internal/pipeline"
	"github.com/tomtom215/vantage/internal/validation"
)

// maxLocateBody caps the POST /locate body.
const maxLocateBody = 64 << 10

var errBodyTooLarge = errors.New("body exceeds 64 KiB")

// LocateRequest is the body of POST /api/v1/locate. Every field is optional
// and an empty body is accepted.
type LocateRequest struct {
	Metadata    *models.ClientMetadata `json:"metadata,omitempty" validate:"omitempty"`
	SessionID   string                 `json:"session_id,omitempty" validate:"omitempty,session_id"`
	Previous    *models.Coordinate     `json:"previous,omitempty" validate:"omitempty"`
	TimestampMs int64                  `json:"timestamp_ms,omitempty" validate:"gte=0"`
}

// Locate handles POST /api/v1/locate: the full estimation for the caller.
func (h *Handler) Locate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var body LocateRequest
	if err := decodeOptionalJSON(r, &body); err != nil {
		rw.BadRequest("Invalid JSON body: " + err.Error())
		return
	}
	if verr := validation.ValidateStruct(&body); verr != nil {
		rw.Validation(verr)
		return
	}

	ip := geoip.NormalizeIP(r.RemoteAddr)
	if override := r.URL.Query().Get("ip"); override != "" {
		if verr := validation.ValidateVar("ip", override, "ip"); verr != nil {
			rw.Validation(verr)
			return
		}
		ip = override
	}

	result, err := h.estimator.Estimate(r.Context(), &pipeline.Request{
		IP:          ip,
		Header:      r.Header,
		Metadata:    body.Metadata,
		SessionID:   body.SessionID,
		Previous:    body.Previous,
		TimestampMs: body.TimestampMs,
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidCoordinate) {
			rw.Error(http.StatusBadRequest, ErrCodeInvalidCoordinate, err.Error())
			return
		}
		rw.InternalError(err)
		return
	}
	rw.Success(result)
}

// LocateIP handles GET /api/v1/locate/{ip}: the precise record only.
func (h *Handler) LocateIP(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ip := chi.URLParam(r, "ip")
	if verr := validation.ValidateVar("ip", ip, "required,ip"); verr != nil {
		rw.Validation(verr)
		return
	}
	rw.Success(h.estimator.Locate(r.Context(), ip))
}

// decodeOptionalJSON decodes r's body into v, treating an empty body as {}.
func decodeOptionalJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxLocateBody+1))
	if err != nil {
		return err
	}
	if len(data) > maxLocateBody {
		return errBodyTooLarge
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
