// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package region

import (
	"fmt"
	"sort"
)

// Ranking metrics.
const (
	RankByScore      = "score"
	RankByProduction = "production"
)

// Ranking limits.
const (
	DefaultTopN       = 5
	MaxTopN           = 50
	DefaultConfidence = 0.8
)

// RankOptions selects how many crops to return and by which metric.
type RankOptions struct {
	TopN int
	By   string
}

func (o RankOptions) normalized() RankOptions {
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.TopN > MaxTopN {
		o.TopN = MaxTopN
	}
	if o.By != RankByProduction {
		o.By = RankByScore
	}
	return o
}

// RankedCrop is one recommended crop. The capitalized keys are what
// existing frontends read.
type RankedCrop struct {
	Crop       string  `json:"Crop"`
	Area       float64 `json:"Area"`
	Production float64 `json:"Production"`
	Yield      float64 `json:"Yield"`
	Score      float64 `json:"Score"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Ranking is the ordered crop list of one region.
type Ranking struct {
	RegionType      string       `json:"region_type"`
	RegionName      string       `json:"region_name"`
	State           string       `json:"state"`
	TopCrops        []RankedCrop `json:"top_crops"`
	TotalArea       float64      `json:"total_area"`
	TotalProduction float64      `json:"total_production"`
	RankBy          string       `json:"rank_by"`
	MatchStrategy   string       `json:"match_strategy,omitempty"`
}

// Ranker orders a region's crops.
type Ranker struct {
	confidence float64
}

// NewRanker returns a Ranker attaching confidence to every crop.
// A confidence outside [0, 1] falls back to DefaultConfidence.
func NewRanker(confidence float64) *Ranker {
	if confidence < 0 || confidence > 1 {
		confidence = DefaultConfidence
	}
	return &Ranker{confidence: confidence}
}

// Rank returns the top crops of the matched region, sorted descending by
// the chosen metric with ties broken by crop name.
func (rk *Ranker) Rank(idx *Index, m Match, opts RankOptions) (Ranking, error) {
	byCrop, ok := idx.RegionCrops(m.Key)
	if !ok || len(byCrop) == 0 {
		return Ranking{}, fmt.Errorf("%w: %s", ErrRegionNotFound, m.Key.Name())
	}
	opts = opts.normalized()

	aggs := make([]CropAggregate, 0, len(byCrop))
	var totalArea, totalProduction float64
	for _, agg := range byCrop {
		aggs = append(aggs, agg)
		totalArea += agg.Area
		totalProduction += agg.Production
	}

	metric := CropAggregate.Score
	if opts.By == RankByProduction {
		metric = func(a CropAggregate) float64 { return a.Production }
	}
	sort.Slice(aggs, func(i, j int) bool {
		vi, vj := metric(aggs[i]), metric(aggs[j])
		if vi != vj {
			return vi > vj
		}
		return aggs[i].Crop < aggs[j].Crop
	})
	if len(aggs) > opts.TopN {
		aggs = aggs[:opts.TopN]
	}

	level := m.Key.Level()
	name := m.Key.Name()
	top := make([]RankedCrop, len(aggs))
	for i, agg := range aggs {
		top[i] = RankedCrop{
			Crop:       agg.Crop,
			Area:       agg.Area,
			Production: agg.Production,
			Yield:      agg.Yield(),
			Score:      agg.Score(),
			Confidence: rk.confidence,
			Reason:     fmt.Sprintf("Commonly grown in %s (%s): %s", name, level, metricPhrase(agg, opts.By)),
		}
	}

	return Ranking{
		RegionType:      level,
		RegionName:      name,
		State:           m.Key.State,
		TopCrops:        top,
		TotalArea:       totalArea,
		TotalProduction: totalProduction,
		RankBy:          opts.By,
		MatchStrategy:   m.Strategy,
	}, nil
}

func metricPhrase(a CropAggregate, by string) string {
	if by == RankByProduction {
		return fmt.Sprintf("total production %.2f over %.2f ha", a.Production, a.Area)
	}
	return fmt.Sprintf("score %.2f from production %.2f over %.2f ha", a.Score(), a.Production, a.Area)
}
