// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package validation

import (
	"strings"
	"testing"
)

type periodRequest struct {
	Granularity string `validate:"required,granularity"`
	TopN        int    `validate:"min=0,max=100"`
}

func TestValidateStruct_Valid(t *testing.T) {
	req := periodRequest{Granularity: "month", TopN: 10}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("expected valid request, got %v", err)
	}
}

func TestValidateStruct_CustomGranularity(t *testing.T) {
	req := periodRequest{Granularity: "decade"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected granularity failure")
	}
	if !strings.Contains(err.Error(), "week, month, quarter, year") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	req := periodRequest{Granularity: "", TopN: 500}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected failures")
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("unexpected code: %s", apiErr.Code)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-error response must list fields")
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	req := periodRequest{Granularity: "month", TopN: -1}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected failure")
	}
	apiErr := err.ToAPIError()
	if apiErr.Details["field"] != "TopN" {
		t.Errorf("unexpected field detail: %v", apiErr.Details["field"])
	}
}
