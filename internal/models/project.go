// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package models

import "time"

// Project is a single government project-award record, the unit entity of
// the analytics store.
//
// SumPriceAgree is the awarded contract value and PriceBuild the originally
// budgeted value, both in base currency units. The price cut (percentage
// difference between the two) is derived, never stored; see PriceCut.
type Project struct {
	ProjectID          string    `json:"project_id"`
	ProjectName        string    `json:"project_name"`
	ProjectDetail      string    `json:"project_detail,omitempty"`
	Winner             string    `json:"winner"`
	DeptName           string    `json:"dept_name"`
	DeptSubName        string    `json:"dept_sub_name,omitempty"`
	PurchaseMethodName string    `json:"purchase_method_name,omitempty"`
	ProjectTypeName    string    `json:"project_type_name,omitempty"`
	TransactionDate    time.Time `json:"transaction_date"`
	SumPriceAgree      float64   `json:"sum_price_agree"`
	PriceBuild         float64   `json:"price_build"`

	// Optional geography
	Province string `json:"province,omitempty"`
	District string `json:"district,omitempty"`
}

// PriceCut returns the percentage difference between the awarded value and
// the budgeted value: (SumPriceAgree/PriceBuild - 1) * 100. Negative values
// indicate savings.
//
// A zero or negative PriceBuild makes the price cut undefined: ok is false
// and the value must not be used. Records with malformed budgets are never
// silently treated as "no discount".
func (p *Project) PriceCut() (pct float64, ok bool) {
	if p.PriceBuild <= 0 {
		return 0, false
	}
	return (p.SumPriceAgree/p.PriceBuild - 1) * 100, true
}

// CompanyAggregate is a derived per-company rollup computed on demand from
// project records. It is never a source of truth; a staleness window against
// the underlying records is expected and acceptable.
//
// AvgPriceCut is value-weighted across the company's projects and nil when
// no project has a usable budget.
type CompanyAggregate struct {
	Winner            string   `json:"winner"`
	ProjectCount      int      `json:"project_count"`
	TotalValue        float64  `json:"total_value"`
	AvgValue          float64  `json:"avg_value"`
	UniqueDepartments int      `json:"unique_departments"`
	AvgPriceCut       *float64 `json:"avg_price_cut,omitempty"`
}
