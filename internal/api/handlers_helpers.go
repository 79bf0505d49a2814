// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tenderlens/tenderlens/internal/database"
	"github.com/tenderlens/tenderlens/internal/logging"
	"github.com/tenderlens/tenderlens/internal/models"
	"github.com/tenderlens/tenderlens/internal/validation"
)

// sanitizeLogValue strips control characters from values that originate in
// request input before they reach the log stream.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondAPIError sends a prepared error envelope, keeping any structured
// details intact.
func respondAPIError(w http.ResponseWriter, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: apiErr,
	})
}

// validateRequest validates a struct and converts failures to the API's
// VALIDATION_ERROR shape. Returns nil on success.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}
	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// parseCommaSeparated splits a comma-separated parameter, trimming blanks.
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseDateParam translates a date query parameter. Accepts RFC3339 or a
// plain YYYY-MM-DD date; anything else is a TranslationError.
func parseDateParam(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	return nil, database.NewTranslationError(field, value, "expected RFC3339 or YYYY-MM-DD")
}

// parseFloatParam translates a numeric query parameter, or returns a
// TranslationError when it cannot be read as a number.
func parseFloatParam(field, value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, database.NewTranslationError(field, value, "expected a number")
	}
	return &f, nil
}

// buildFilter translates request query parameters into a ProjectFilter.
// Date bounds are accepted as RFC3339 or YYYY-MM-DD; price bounds are in
// millions. Unparseable values surface as TranslationError, semantic
// contradictions as ValidationError.
func (h *Handler) buildFilter(r *http.Request) (*database.ProjectFilter, error) {
	q := r.URL.Query()

	dateStart, err := parseDateParam("date_start", q.Get("date_start"))
	if err != nil {
		return nil, err
	}
	dateEnd, err := parseDateParam("date_end", q.Get("date_end"))
	if err != nil {
		return nil, err
	}
	priceStart, err := parseFloatParam("price_start", q.Get("price_start"))
	if err != nil {
		return nil, err
	}
	priceEnd, err := parseFloatParam("price_end", q.Get("price_end"))
	if err != nil {
		return nil, err
	}

	filter := &database.ProjectFilter{
		Department:      q.Get("department"),
		SubDepartment:   q.Get("sub_department"),
		DateStart:       dateStart,
		DateEnd:         dateEnd,
		PriceStartM:     priceStart,
		PriceEndM:       priceEnd,
		PurchaseMethod:  q.Get("purchase_method"),
		ProjectType:     q.Get("project_type"),
		IncludeKeywords: parseCommaSeparated(q.Get("keywords")),
		ExcludeKeywords: parseCommaSeparated(q.Get("exclude_keywords")),
		Companies:       parseCommaSeparated(q.Get("companies")),
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return filter, nil
}
