// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package models

import (
	"math"
	"testing"
)

func TestPriceCut_Defined(t *testing.T) {
	p := Project{SumPriceAgree: 90, PriceBuild: 100}
	pct, ok := p.PriceCut()
	if !ok {
		t.Fatal("Expected defined price cut")
	}
	if math.Abs(pct-(-10.0)) > 1e-9 {
		t.Errorf("Expected -10.0, got %f", pct)
	}
}

func TestPriceCut_Premium(t *testing.T) {
	p := Project{SumPriceAgree: 110, PriceBuild: 100}
	pct, ok := p.PriceCut()
	if !ok {
		t.Fatal("Expected defined price cut")
	}
	if math.Abs(pct-10.0) > 1e-9 {
		t.Errorf("Expected +10.0, got %f", pct)
	}
}

// A zero or negative budget must yield an explicit undefined marker, never a
// silent zero that conflates "no discount" with "unknown".
func TestPriceCut_UndefinedOnBadBudget(t *testing.T) {
	for _, build := range []float64{0, -5} {
		p := Project{SumPriceAgree: 90, PriceBuild: build}
		if _, ok := p.PriceCut(); ok {
			t.Errorf("Expected undefined price cut for build=%f", build)
		}
	}
}
