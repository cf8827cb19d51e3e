// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package history

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/cropwise/internal/metrics"
)

const (
	topCropsLimit = 5
	trendMonths   = 6
)

// Overview counts recommendations by outcome.
type Overview struct {
	Total       int64 `json:"total"`
	Success     int64 `json:"success"`
	Failure     int64 `json:"failure"`
	Pending     int64 `json:"pending"`
	SuccessRate int   `json:"successRate"`
}

// MethodCount is the number of recommendations served by one method.
type MethodCount struct {
	Method string `json:"method"`
	Count  int64  `json:"count"`
}

// CropStat aggregates how often a crop was recommended.
type CropStat struct {
	Crop          string  `json:"crop"`
	Count         int64   `json:"count"`
	AvgConfidence float64 `json:"avgConfidence"`
	SuccessRate   int     `json:"successRate"`
}

// MonthlyPoint is one month of the trend, keyed YYYY-MM.
type MonthlyPoint struct {
	Month   string `json:"month"`
	Count   int64  `json:"count"`
	Success int64  `json:"success"`
	Failure int64  `json:"failure"`
}

// MethodRate is the reported outcome of one method.
type MethodRate struct {
	Method      string `json:"method"`
	Total       int64  `json:"total"`
	Success     int64  `json:"success"`
	Failure     int64  `json:"failure"`
	SuccessRate int    `json:"successRate"`
}

// Summary is the analytics dashboard payload.
type Summary struct {
	Overview           Overview       `json:"overview"`
	MethodDistribution []MethodCount  `json:"methodDistribution"`
	TopCrops           []CropStat     `json:"topCrops"`
	MonthlyTrend       []MonthlyPoint `json:"monthlyTrend"`
}

// successRate is success/(success+failure) as a rounded percentage.
// Pending entries do not count. With no reported outcomes it is 0.
func successRate(success, failure int64) int {
	if success+failure == 0 {
		return 0
	}
	return int(math.Round(float64(success) / float64(success+failure) * 100))
}

// Summary aggregates the whole history.
func (s *Store) Summary(ctx context.Context) (*Summary, error) {
	start := time.Now()
	defer func() { metrics.RecordHistoryQuery("summary", time.Since(start)) }()

	overview, err := s.overview(ctx)
	if err != nil {
		return nil, err
	}
	methods, err := s.methodDistribution(ctx)
	if err != nil {
		return nil, err
	}
	crops, err := s.topCrops(ctx, topCropsLimit)
	if err != nil {
		return nil, err
	}
	trend, err := s.monthlyTrend(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Overview:           overview,
		MethodDistribution: methods,
		TopCrops:           crops,
		MonthlyTrend:       trend,
	}, nil
}

func (s *Store) overview(ctx context.Context) (Overview, error) {
	var o Overview
	err := s.conn.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'success'),
		       COUNT(*) FILTER (WHERE status = 'failure'),
		       COUNT(*) FILTER (WHERE status = 'pending')
		FROM recommendations`).Scan(&o.Total, &o.Success, &o.Failure, &o.Pending)
	if err != nil {
		return o, fmt.Errorf("failed to query overview: %w", err)
	}
	o.SuccessRate = successRate(o.Success, o.Failure)
	return o, nil
}

func (s *Store) methodDistribution(ctx context.Context) ([]MethodCount, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT method, COUNT(*) AS n
		FROM recommendations
		GROUP BY method
		ORDER BY n DESC, method`)
	if err != nil {
		return nil, fmt.Errorf("failed to query method distribution: %w", err)
	}
	defer closeQuietly(rows)

	out := []MethodCount{}
	for rows.Next() {
		var m MethodCount
		if err := rows.Scan(&m.Method, &m.Count); err != nil {
			return nil, fmt.Errorf("failed to scan method count: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) topCrops(ctx context.Context, limit int) ([]CropStat, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT c.crop,
		       COUNT(*) AS n,
		       ROUND(AVG(c.confidence), 2),
		       COUNT(*) FILTER (WHERE r.status = 'success'),
		       COUNT(*) FILTER (WHERE r.status = 'failure')
		FROM recommendation_crops c
		JOIN recommendations r ON r.id = c.recommendation_id
		GROUP BY c.crop
		ORDER BY n DESC, c.crop
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top crops: %w", err)
	}
	defer closeQuietly(rows)

	out := []CropStat{}
	for rows.Next() {
		var c CropStat
		var success, failure int64
		if err := rows.Scan(&c.Crop, &c.Count, &c.AvgConfidence, &success, &failure); err != nil {
			return nil, fmt.Errorf("failed to scan crop stat: %w", err)
		}
		c.SuccessRate = successRate(success, failure)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) monthlyTrend(ctx context.Context) ([]MonthlyPoint, error) {
	now := s.now().UTC()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(trendMonths - 1), 0)

	rows, err := s.conn.QueryContext(ctx, `
		SELECT strftime(created_at, '%Y-%m') AS month,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'success'),
		       COUNT(*) FILTER (WHERE status = 'failure')
		FROM recommendations
		WHERE created_at >= ?
		GROUP BY month
		ORDER BY month`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly trend: %w", err)
	}
	defer closeQuietly(rows)

	out := []MonthlyPoint{}
	for rows.Next() {
		var p MonthlyPoint
		if err := rows.Scan(&p.Month, &p.Count, &p.Success, &p.Failure); err != nil {
			return nil, fmt.Errorf("failed to scan monthly point: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SuccessRateByMethod reports outcomes per prediction method.
func (s *Store) SuccessRateByMethod(ctx context.Context) ([]MethodRate, error) {
	start := time.Now()
	defer func() { metrics.RecordHistoryQuery("method_rates", time.Since(start)) }()

	rows, err := s.conn.QueryContext(ctx, `
		SELECT method,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'success'),
		       COUNT(*) FILTER (WHERE status = 'failure')
		FROM recommendations
		GROUP BY method
		ORDER BY method`)
	if err != nil {
		return nil, fmt.Errorf("failed to query method success rates: %w", err)
	}
	defer closeQuietly(rows)

	out := []MethodRate{}
	for rows.Next() {
		var m MethodRate
		if err := rows.Scan(&m.Method, &m.Total, &m.Success, &m.Failure); err != nil {
			return nil, fmt.Errorf("failed to scan method rate: %w", err)
		}
		m.SuccessRate = successRate(m.Success, m.Failure)
		out = append(out, m)
	}
	return out, rows.Err()
}
