// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

// Package analytics derives summary statistics and visualization-ready
// tables from project-award records: period-over-period trends, market
// concentration, company competition, and price-cut aggregates.
//
// Every function tolerates empty input by returning a zero or empty result;
// none raises on partially-missing data. Results are backend-agnostic
// tabular values, never rendering-library objects.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/tenderlens/tenderlens/internal/models"
)

// Granularity is a calendar bucketing unit for period analysis.
type Granularity string

const (
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

// ParseGranularity validates a user-supplied granularity string.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityWeek, GranularityMonth, GranularityQuarter, GranularityYear:
		return Granularity(s), nil
	default:
		return "", fmt.Errorf("invalid granularity: must be week, month, quarter, or year")
	}
}

// PeriodAnalysis groups projects into calendar buckets and computes sum and
// count per bucket plus period-over-period percent change in total value.
//
// ChangePct compares each bucket against the immediately preceding bucket
// in chronological order. The first bucket, and any bucket whose predecessor
// totals zero, carries a nil (undefined) change; undefined is never
// substituted with zero or infinity. Records without a transaction date are
// skipped.
func PeriodAnalysis(projects []models.Project, granularity Granularity) models.PeriodAnalysisResponse {
	type bucketAgg struct {
		start time.Time
		count int
		total float64
	}

	buckets := make(map[time.Time]*bucketAgg)
	for i := range projects {
		p := &projects[i]
		if p.TransactionDate.IsZero() {
			continue
		}
		start := truncateToBucket(p.TransactionDate, granularity)
		agg, ok := buckets[start]
		if !ok {
			agg = &bucketAgg{start: start}
			buckets[start] = agg
		}
		agg.count++
		agg.total += p.SumPriceAgree
	}

	starts := make([]time.Time, 0, len(buckets))
	for start := range buckets {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	resp := models.PeriodAnalysisResponse{
		Granularity: string(granularity),
		Buckets:     make([]models.PeriodBucket, 0, len(starts)),
	}

	var prev *bucketAgg
	for _, start := range starts {
		agg := buckets[start]

		var change *float64
		if prev != nil && prev.total != 0 {
			pct := (agg.total - prev.total) / prev.total * 100
			change = &pct
		}

		resp.Buckets = append(resp.Buckets, models.PeriodBucket{
			Period:     bucketLabel(start, granularity),
			Start:      start,
			Count:      agg.count,
			TotalValue: agg.total,
			ChangePct:  change,
		})
		resp.TotalCount += agg.count
		resp.TotalValue += agg.total
		prev = agg
	}

	return resp
}

// truncateToBucket maps a timestamp to the start of its calendar bucket.
// Weeks start on Monday (ISO convention).
func truncateToBucket(t time.Time, granularity Granularity) time.Time {
	t = t.UTC()
	switch granularity {
	case GranularityYear:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	case GranularityQuarter:
		quarterMonth := time.Month((int(t.Month())-1)/3*3 + 1)
		return time.Date(t.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
	case GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default: // week
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		return day.AddDate(0, 0, -offset)
	}
}

// bucketLabel renders a bucket start as a display label.
func bucketLabel(start time.Time, granularity Granularity) string {
	switch granularity {
	case GranularityYear:
		return start.Format("2006")
	case GranularityQuarter:
		return fmt.Sprintf("%d-Q%d", start.Year(), (int(start.Month())-1)/3+1)
	case GranularityMonth:
		return start.Format("2006-01")
	default: // week
		year, week := start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
}
