// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

// Package validation validates decoded request structs with a shared
// go-playground/validator instance.
//
// Field names in errors are taken from the json tag, so a failure on
// ClientMetadata.EffectiveType is reported as "effective_type". Custom tags:
//
//   - session_id: 1-128 characters from [A-Za-z0-9._-]
//
// Example:
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, verr)
//	    return
//	}
package validation
