// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package api

import (
	"errors"
	"net/http"

	"github.com/tenderlens/tenderlens/internal/database"
)

// API error codes returned in APIError.Code.
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeTranslationError   = "TRANSLATION_ERROR"
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	CodeNotFound           = "NOT_FOUND"
	CodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// respondFilterError maps a filter/query error to its HTTP status and
// error code: client-caused failures (unparseable or contradictory filter
// values) are 400, an exhausted backend is 503, everything else 500.
func respondFilterError(w http.ResponseWriter, err error) {
	var verr *database.ValidationError
	if errors.As(err, &verr) {
		respondError(w, http.StatusBadRequest, CodeValidationError, verr.Error(), nil)
		return
	}
	var terr *database.TranslationError
	if errors.As(err, &terr) {
		respondError(w, http.StatusBadRequest, CodeTranslationError, terr.Error(), nil)
		return
	}
	if errors.Is(err, database.ErrBackendUnavailable) {
		respondError(w, http.StatusServiceUnavailable, CodeBackendUnavailable,
			"Analytics store unavailable, please retry later", err)
		return
	}
	respondError(w, http.StatusInternalServerError, CodeInternalError,
		"Failed to execute query", err)
}
