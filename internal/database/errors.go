// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package database

import (
	"errors"
	"fmt"
)

// ErrBackendUnavailable reports that the analytics store could not serve a
// request after the retry budget was exhausted. Handlers map it to 503.
var ErrBackendUnavailable = errors.New("analytics store unavailable")

// ValidationError reports a semantically invalid filter: the request was
// well-formed but its values cannot describe a valid query (inverted date
// range, negative price bound). Handlers map it to 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid filter: %s", e.Message)
	}
	return fmt.Sprintf("invalid filter field %q: %s", e.Field, e.Message)
}

// NewValidationError constructs a ValidationError for a filter field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// TranslationError reports a filter value that could not be translated into
// backend query terms (unparseable date, malformed number). Distinct from
// ValidationError so clients can tell "you sent garbage" from "your values
// contradict each other"; both map to 400.
type TranslationError struct {
	Field   string
	Value   string
	Message string
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("cannot translate filter field %q value %q: %s", e.Field, e.Value, e.Message)
}

// NewTranslationError constructs a TranslationError for a filter field.
func NewTranslationError(field, value, message string) *TranslationError {
	return &TranslationError{Field: field, Value: value, Message: message}
}
