// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package database

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ProjectFilter describes a slice of the procurement record set. The zero
// value matches everything. Unset and empty mean the same thing for every
// field; KeyParams canonicalizes that equivalence for cache keys.
type ProjectFilter struct {
	Department    string
	SubDepartment string

	// Inclusive awarded-date bounds.
	DateStart *time.Time
	DateEnd   *time.Time

	// Contract value bounds in millions; scaled to absolute units during
	// translation.
	PriceStartM *float64
	PriceEndM   *float64

	PurchaseMethod string
	ProjectType    string

	// IncludeKeywords are ANDed: every keyword must appear in at least one
	// of project_name, project_detail, or winner (case-insensitive).
	// ExcludeKeywords reject any record matching any keyword in any of
	// those fields.
	IncludeKeywords []string
	ExcludeKeywords []string

	// Companies restricts to records won by any of the named suppliers.
	Companies []string
}

// priceScale converts the filter's million-denominated bounds to the
// absolute contract values stored in the backend.
const priceScale = 1_000_000

// keywordSearchColumns are the fields a keyword is matched against.
var keywordSearchColumns = []string{"project_name", "project_detail", "winner"}

// Validate reports the first semantic problem with the filter.
func (f *ProjectFilter) Validate() error {
	if f.DateStart != nil && f.DateEnd != nil && f.DateEnd.Before(*f.DateStart) {
		return NewValidationError("date_end", "end date precedes start date")
	}
	if f.PriceStartM != nil && *f.PriceStartM < 0 {
		return NewValidationError("price_start", "price bound cannot be negative")
	}
	if f.PriceEndM != nil && *f.PriceEndM < 0 {
		return NewValidationError("price_end", "price bound cannot be negative")
	}
	if f.PriceStartM != nil && f.PriceEndM != nil && *f.PriceEndM < *f.PriceStartM {
		return NewValidationError("price_end", "upper price bound below lower bound")
	}
	for _, kw := range f.IncludeKeywords {
		if strings.TrimSpace(kw) == "" {
			return NewValidationError("keywords", "keyword cannot be blank")
		}
	}
	for _, kw := range f.ExcludeKeywords {
		if strings.TrimSpace(kw) == "" {
			return NewValidationError("exclude_keywords", "keyword cannot be blank")
		}
	}
	return nil
}

// IsZero reports whether the filter constrains nothing.
func (f *ProjectFilter) IsZero() bool {
	return f.Department == "" && f.SubDepartment == "" &&
		f.DateStart == nil && f.DateEnd == nil &&
		f.PriceStartM == nil && f.PriceEndM == nil &&
		f.PurchaseMethod == "" && f.ProjectType == "" &&
		len(f.IncludeKeywords) == 0 && len(f.ExcludeKeywords) == 0 &&
		len(f.Companies) == 0
}

// KeyParams returns the filter in canonical map form for cache key
// generation. Unset fields are omitted so an explicit empty value and an
// absent one hash identically. Companies are order-insensitive and sorted;
// keyword order is preserved because it is part of the filter's meaning as
// presented to users.
func (f *ProjectFilter) KeyParams() map[string]interface{} {
	params := make(map[string]interface{})
	if f.Department != "" {
		params["department"] = f.Department
	}
	if f.SubDepartment != "" {
		params["sub_department"] = f.SubDepartment
	}
	if f.DateStart != nil {
		params["date_start"] = f.DateStart.UTC().Format(time.RFC3339)
	}
	if f.DateEnd != nil {
		params["date_end"] = f.DateEnd.UTC().Format(time.RFC3339)
	}
	if f.PriceStartM != nil {
		params["price_start"] = *f.PriceStartM
	}
	if f.PriceEndM != nil {
		params["price_end"] = *f.PriceEndM
	}
	if f.PurchaseMethod != "" {
		params["purchase_method"] = f.PurchaseMethod
	}
	if f.ProjectType != "" {
		params["project_type"] = f.ProjectType
	}
	if len(f.IncludeKeywords) > 0 {
		params["keywords"] = f.IncludeKeywords
	}
	if len(f.ExcludeKeywords) > 0 {
		params["exclude_keywords"] = f.ExcludeKeywords
	}
	if len(f.Companies) > 0 {
		companies := make([]string, len(f.Companies))
		copy(companies, f.Companies)
		sort.Strings(companies)
		params["companies"] = companies
	}
	return params
}

// placeholder returns the dialect-appropriate parameter marker and
// advances the positional counter.
func placeholder(usePositionalParams bool, argPos *int) string {
	if usePositionalParams {
		p := fmt.Sprintf("$%d", *argPos)
		*argPos++
		return p
	}
	*argPos++
	return "?"
}

// appendEqualClause adds "column = <ph>" when value is non-empty.
func appendEqualClause(columnName, value string, whereClauses *[]string, args *[]interface{}, argPos *int, usePositionalParams bool) {
	if value == "" {
		return
	}
	*whereClauses = append(*whereClauses, fmt.Sprintf("%s = %s", columnName, placeholder(usePositionalParams, argPos)))
	*args = append(*args, value)
}

// appendInClause adds "column IN (...)" for a non-empty value set.
func appendInClause(columnName string, values []string, whereClauses *[]string, args *[]interface{}, argPos *int, usePositionalParams bool) {
	if len(values) == 0 {
		return
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = placeholder(usePositionalParams, argPos)
		*args = append(*args, v)
	}
	*whereClauses = append(*whereClauses, fmt.Sprintf("%s IN (%s)", columnName, strings.Join(placeholders, ", ")))
}

// escapeLikePattern neutralizes LIKE metacharacters in user keywords so a
// literal "%" or "_" in a search term matches itself. Queries built with it
// must carry ESCAPE '\'.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// keywordDisjunction builds "(col1 ILIKE <ph> ESCAPE '\' OR ...)" across
// the searchable text columns for one keyword.
func keywordDisjunction(keyword string, args *[]interface{}, argPos *int, usePositionalParams bool) string {
	pattern := "%" + escapeLikePattern(keyword) + "%"
	parts := make([]string, len(keywordSearchColumns))
	for i, col := range keywordSearchColumns {
		parts[i] = fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, col, placeholder(usePositionalParams, argPos))
		*args = append(*args, pattern)
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// buildFilterConditions translates a ProjectFilter into WHERE clause
// conditions and query args. startArgPos seeds the positional counter so
// the conditions can follow earlier parameters in a larger query.
func buildFilterConditions(filter *ProjectFilter, usePositionalParams bool, startArgPos int) ([]string, []interface{}) {
	whereClauses := []string{}
	args := []interface{}{}
	argPos := startArgPos

	appendEqualClause("dept_name", filter.Department, &whereClauses, &args, &argPos, usePositionalParams)
	appendEqualClause("dept_sub_name", filter.SubDepartment, &whereClauses, &args, &argPos, usePositionalParams)
	appendEqualClause("purchase_method_name", filter.PurchaseMethod, &whereClauses, &args, &argPos, usePositionalParams)
	appendEqualClause("project_type_name", filter.ProjectType, &whereClauses, &args, &argPos, usePositionalParams)

	if filter.DateStart != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("transaction_date >= %s", placeholder(usePositionalParams, &argPos)))
		args = append(args, *filter.DateStart)
	}
	if filter.DateEnd != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("transaction_date <= %s", placeholder(usePositionalParams, &argPos)))
		args = append(args, *filter.DateEnd)
	}

	if filter.PriceStartM != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("sum_price_agree >= %s", placeholder(usePositionalParams, &argPos)))
		args = append(args, *filter.PriceStartM*priceScale)
	}
	if filter.PriceEndM != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("sum_price_agree <= %s", placeholder(usePositionalParams, &argPos)))
		args = append(args, *filter.PriceEndM*priceScale)
	}

	// Every include keyword must match somewhere; each keyword is a
	// disjunction across the searchable columns.
	for _, kw := range filter.IncludeKeywords {
		whereClauses = append(whereClauses, keywordDisjunction(kw, &args, &argPos, usePositionalParams))
	}

	// Any exclude keyword matching anywhere rejects the record.
	for _, kw := range filter.ExcludeKeywords {
		whereClauses = append(whereClauses, "NOT "+keywordDisjunction(kw, &args, &argPos, usePositionalParams))
	}

	appendInClause("winner", filter.Companies, &whereClauses, &args, &argPos, usePositionalParams)

	return whereClauses, args
}

// buildFilterWhereClause wraps buildFilterConditions with a "1=1" base so
// the result is always a valid WHERE body regardless of how many
// conditions the filter produced.
//
// Example:
//
//	whereClause, args := db.buildFilterWhereClause(filter)
//	query := fmt.Sprintf("SELECT * FROM projects WHERE %s", whereClause)
func (db *DB) buildFilterWhereClause(filter *ProjectFilter) (string, []interface{}) {
	whereClauses, args := buildFilterConditions(filter, db.usePositionalParams(), 1)
	clause := "1=1"
	for _, c := range whereClauses {
		clause += " AND " + c
	}
	return clause, args
}
