// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package region

import (
	"errors"
	"strings"
	"testing"
)

func cropNames(r Ranking) []string {
	names := make([]string, len(r.TopCrops))
	for i, c := range r.TopCrops {
		names[i] = c.Crop
	}
	return names
}

func TestRanker_RankByScore(t *testing.T) {
	t.Parallel()
	idx := loadSampleIndex(t)

	ranking, err := NewRanker(DefaultConfidence).Rank(idx, Match{Key: Key{State: "Punjab"}, Strategy: StrategyExact}, RankOptions{})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	// Rice 800/51, Wheat 1500/161, Cotton 300/31.
	if got := strings.Join(cropNames(ranking), ","); got != "Rice,Cotton,Wheat" {
		t.Errorf("order = %s, want Rice,Cotton,Wheat", got)
	}
	if ranking.RegionType != LevelState || ranking.RegionName != "Punjab" || ranking.State != "Punjab" {
		t.Errorf("region fields = %s/%s/%s", ranking.RegionType, ranking.RegionName, ranking.State)
	}
	if ranking.TotalProduction != 2600 || ranking.TotalArea != 240 {
		t.Errorf("totals = %v/%v, want 2600/240", ranking.TotalProduction, ranking.TotalArea)
	}
	if ranking.RankBy != RankByScore || ranking.MatchStrategy != StrategyExact {
		t.Errorf("RankBy/MatchStrategy = %s/%s", ranking.RankBy, ranking.MatchStrategy)
	}

	top := ranking.TopCrops[0]
	if top.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", top.Confidence)
	}
	if want := "Commonly grown in Punjab (state): score 15.69 from production 800.00 over 50.00 ha"; top.Reason != want {
		t.Errorf("Reason = %q, want %q", top.Reason, want)
	}
}

func TestRanker_RankByProductionAndTopN(t *testing.T) {
	t.Parallel()
	idx := loadSampleIndex(t)

	m := Match{Key: Key{State: "Punjab", District: "Ludhiana"}}
	ranking, err := NewRanker(0.5).Rank(idx, m, RankOptions{TopN: 1, By: RankByProduction})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(ranking.TopCrops) != 1 || ranking.TopCrops[0].Crop != "Wheat" {
		t.Fatalf("top crops = %v, want [Wheat]", cropNames(ranking))
	}
	if ranking.RegionType != LevelDistrict || ranking.State != "Punjab" {
		t.Errorf("RegionType/State = %s/%s", ranking.RegionType, ranking.State)
	}
	if want := "Commonly grown in Ludhiana (district): total production 1000.00 over 100.00 ha"; ranking.TopCrops[0].Reason != want {
		t.Errorf("Reason = %q", ranking.TopCrops[0].Reason)
	}
	if ranking.TopCrops[0].Confidence != 0.5 {
		t.Errorf("Confidence = %v, want 0.5", ranking.TopCrops[0].Confidence)
	}
}

func TestRanker_TiesBrokenByName(t *testing.T) {
	t.Parallel()

	idx := NewIndex([]Record{
		{State: "S", District: "D", Crop: "Zucchini", Production: 10, Area: 1},
		{State: "S", District: "D", Crop: "Apple", Production: 10, Area: 1},
		{State: "S", District: "D", Crop: "Mango", Production: 10, Area: 1},
	})
	ranking, err := NewRanker(2).Rank(idx, Match{Key: Key{State: "S"}}, RankOptions{TopN: 100, By: "unknown"})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if got := strings.Join(cropNames(ranking), ","); got != "Apple,Mango,Zucchini" {
		t.Errorf("order = %s, want alphabetical on ties", got)
	}
	if ranking.RankBy != RankByScore {
		t.Errorf("unknown metric should fall back to score, got %s", ranking.RankBy)
	}
	if ranking.TopCrops[0].Confidence != DefaultConfidence {
		t.Errorf("out-of-range confidence should fall back to default, got %v", ranking.TopCrops[0].Confidence)
	}
}

func TestRanker_UnknownRegion(t *testing.T) {
	t.Parallel()
	idx := loadSampleIndex(t)

	_, err := NewRanker(DefaultConfidence).Rank(idx, Match{Key: Key{State: "Atlantis"}}, RankOptions{})
	if !errors.Is(err, ErrRegionNotFound) {
		t.Errorf("error = %v, want ErrRegionNotFound", err)
	}
}

func TestRankOptions_Normalized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   RankOptions
		want RankOptions
	}{
		{RankOptions{}, RankOptions{TopN: 5, By: RankByScore}},
		{RankOptions{TopN: 99, By: RankByProduction}, RankOptions{TopN: MaxTopN, By: RankByProduction}},
		{RankOptions{TopN: 3, By: "score"}, RankOptions{TopN: 3, By: RankByScore}},
	}
	for _, tt := range tests {
		if got := tt.in.normalized(); got != tt.want {
			t.Errorf("normalized(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
