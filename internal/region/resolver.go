// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package region

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/cropwise/internal/geocode"
	"github.com/tomtom215/cropwise/internal/metrics"
)

// MaxNameLength bounds region names accepted by ResolveName.
const MaxNameLength = 100

// DefaultFuzzyThreshold is the character-overlap ratio FuzzyMatch requires.
const DefaultFuzzyThreshold = 0.7

// Sentinel errors returned by the resolver.
var (
	ErrInvalidRegion      = errors.New("region name must be 1 to 100 characters")
	ErrRegionNotFound     = errors.New("no data found for region")
	ErrInvalidCoordinates = errors.New("invalid coordinates provided")
)

// Match strategies, in the order ResolveName tries them.
const (
	StrategyExact     = "exact"
	StrategySubstring = "substring"
	StrategyFuzzy     = "fuzzy"
)

// Match is a resolved region.
type Match struct {
	Key      Key
	Level    string
	Name     string
	Strategy string
}

// Resolver matches names against one Index snapshot.
type Resolver struct {
	idx       *Index
	threshold float64
}

// NewResolver returns a Resolver over idx. A threshold outside (0, 1]
// falls back to DefaultFuzzyThreshold.
func NewResolver(idx *Index, threshold float64) *Resolver {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultFuzzyThreshold
	}
	return &Resolver{idx: idx, threshold: threshold}
}

// ResolveName finds the state or district that best matches name. States
// win over districts at each strategy, and strategies are tried in order
// exact, substring, fuzzy.
func (r *Resolver) ResolveName(name string) (Match, error) {
	q := strings.TrimSpace(name)
	if q == "" || utf8.RuneCountInString(q) > MaxNameLength {
		return Match{}, ErrInvalidRegion
	}
	lower := strings.ToLower(q)

	for _, strategy := range []string{StrategyExact, StrategySubstring, StrategyFuzzy} {
		if state, ok := r.find(r.idx.states, lower, strategy); ok {
			return r.record(r.stateMatch(state, strategy)), nil
		}
		if district, ok := r.find(r.idx.districts, lower, strategy); ok {
			if m, ok := r.districtMatch(district, strategy); ok {
				return r.record(m), nil
			}
		}
	}
	return Match{}, ErrRegionNotFound
}

// ResolvePlace matches a reverse-geocoded place, preferring its state.
func (r *Resolver) ResolvePlace(p geocode.Place) (Match, error) {
	if p.State != "" {
		if state, strategy, ok := r.bestMatch(r.idx.states, p.State); ok {
			return r.record(r.stateMatch(state, strategy)), nil
		}
	}
	if p.District != "" {
		if district, strategy, ok := r.bestMatch(r.idx.districts, p.District); ok {
			if m, ok := r.districtMatch(district, strategy); ok {
				return r.record(m), nil
			}
		}
	}
	return Match{}, ErrRegionNotFound
}

func (r *Resolver) bestMatch(options []string, term string) (string, string, bool) {
	lower := strings.ToLower(strings.TrimSpace(term))
	if lower == "" {
		return "", "", false
	}
	for _, strategy := range []string{StrategyExact, StrategySubstring, StrategyFuzzy} {
		if name, ok := r.find(options, lower, strategy); ok {
			return name, strategy, true
		}
	}
	return "", "", false
}

func (r *Resolver) find(options []string, lower, strategy string) (string, bool) {
	for _, option := range options {
		o := strings.ToLower(option)
		var hit bool
		switch strategy {
		case StrategyExact:
			hit = o == lower
		case StrategySubstring:
			hit = strings.Contains(o, lower)
		case StrategyFuzzy:
			hit = FuzzyMatch(lower, o, r.threshold)
		}
		if hit {
			return option, true
		}
	}
	return "", false
}

func (r *Resolver) stateMatch(state, strategy string) Match {
	return Match{
		Key:      Key{State: state},
		Level:    LevelState,
		Name:     state,
		Strategy: strategy,
	}
}

func (r *Resolver) districtMatch(district, strategy string) (Match, bool) {
	state, ok := r.idx.DistrictState(district)
	if !ok {
		return Match{}, false
	}
	return Match{
		Key:      Key{State: state, District: district},
		Level:    LevelDistrict,
		Name:     district,
		Strategy: strategy,
	}, true
}

func (r *Resolver) record(m Match) Match {
	metrics.RegionResolutions.WithLabelValues(m.Strategy).Inc()
	return m
}

// FuzzyMatch reports whether a and b are similar: one contains the other,
// they share a word, or their distinct characters overlap by at least
// threshold of the larger set.
func FuzzyMatch(a, b string, threshold float64) bool {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	if strings.Contains(b, a) || strings.Contains(a, b) {
		return true
	}

	words := make(map[string]struct{})
	for _, w := range strings.Fields(a) {
		words[w] = struct{}{}
	}
	for _, w := range strings.Fields(b) {
		if _, ok := words[w]; ok {
			return true
		}
	}

	charsA := runeSet(a)
	charsB := runeSet(b)
	denom := max(len(charsA), len(charsB))
	if denom == 0 {
		return false
	}
	common := 0
	for r := range charsA {
		if _, ok := charsB[r]; ok {
			common++
		}
	}
	return float64(common)/float64(denom) >= threshold
}

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

// ValidateCoordinates checks latitude and longitude ranges.
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
