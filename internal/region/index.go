// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package region

import (
	"sort"
	"strings"
	"time"
)

// DefaultSearchLimit caps each Search result list when no limit is given.
const DefaultSearchLimit = 10

// Record is one row of the production dataset.
type Record struct {
	State      string
	District   string
	Crop       string
	Production float64
	Area       float64
	Yield      float64
}

// CropAggregate sums one crop's rows within a region.
type CropAggregate struct {
	Crop       string
	Production float64
	Area       float64
	YieldSum   float64
	Rows       int
}

// Yield returns the mean yield across the aggregated rows.
func (a CropAggregate) Yield() float64 {
	if a.Rows == 0 {
		return 0
	}
	return a.YieldSum / float64(a.Rows)
}

// Score is production per hectare, with one hectare added to avoid
// division by zero for rows without area.
func (a CropAggregate) Score() float64 {
	return a.Production / (a.Area + 1)
}

func (a *CropAggregate) add(r Record) {
	a.Production += r.Production
	a.Area += r.Area
	a.YieldSum += r.Yield
	a.Rows++
}

// Key identifies a state (District empty) or a district within a state.
type Key struct {
	State    string
	District string
}

// Level returns "state" or "district".
func (k Key) Level() string {
	if k.District == "" {
		return LevelState
	}
	return LevelDistrict
}

// Name returns the most specific name in the key.
func (k Key) Name() string {
	if k.District == "" {
		return k.State
	}
	return k.District
}

// Region levels.
const (
	LevelState    = "state"
	LevelDistrict = "district"
)

// Index holds per-region crop aggregates. It is read-only after NewIndex.
type Index struct {
	crops          map[Key]map[string]CropAggregate
	stateDistricts map[string][]string
	stateByLower   map[string]string

	states    []string
	districts []string
	cropNames []string

	rows    int
	builtAt time.Time
}

// SearchResult lists states and districts matching a query.
type SearchResult struct {
	States    []string `json:"states"`
	Districts []string `json:"districts"`
}

// Summary describes the size of an Index.
type Summary struct {
	States    int       `json:"states"`
	Districts int       `json:"districts"`
	Crops     int       `json:"crops"`
	Rows      int       `json:"rows"`
	BuiltAt   time.Time `json:"built_at"`
}

// NewIndex aggregates records in a single pass.
func NewIndex(records []Record) *Index {
	idx := &Index{
		crops:          make(map[Key]map[string]CropAggregate),
		stateDistricts: make(map[string][]string),
		stateByLower:   make(map[string]string),
		rows:           len(records),
		builtAt:        time.Now(),
	}

	districtSets := make(map[string]map[string]struct{})
	allDistricts := make(map[string]struct{})
	allCrops := make(map[string]struct{})

	for _, r := range records {
		for _, key := range [2]Key{{State: r.State}, {State: r.State, District: r.District}} {
			byCrop, ok := idx.crops[key]
			if !ok {
				byCrop = make(map[string]CropAggregate)
				idx.crops[key] = byCrop
			}
			agg := byCrop[r.Crop]
			agg.Crop = r.Crop
			agg.add(r)
			byCrop[r.Crop] = agg
		}

		set, ok := districtSets[r.State]
		if !ok {
			set = make(map[string]struct{})
			districtSets[r.State] = set
		}
		set[r.District] = struct{}{}
		allDistricts[r.District] = struct{}{}
		allCrops[r.Crop] = struct{}{}
	}

	for state, set := range districtSets {
		idx.stateDistricts[state] = sortedKeys(set)
		idx.stateByLower[strings.ToLower(state)] = state
		idx.states = append(idx.states, state)
	}
	sort.Strings(idx.states)
	idx.districts = sortedKeys(allDistricts)
	idx.cropNames = sortedKeys(allCrops)

	return idx
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// States returns every state, sorted.
func (idx *Index) States() []string {
	return idx.states
}

// Districts returns the sorted districts of state, matched case-insensitively.
// An unknown state yields an empty slice.
func (idx *Index) Districts(state string) []string {
	canonical, ok := idx.stateByLower[strings.ToLower(strings.TrimSpace(state))]
	if !ok {
		return []string{}
	}
	return idx.stateDistricts[canonical]
}

// AllDistricts returns every distinct district name, sorted.
func (idx *Index) AllDistricts() []string {
	return idx.districts
}

// Crops returns every distinct crop name, sorted.
func (idx *Index) Crops() []string {
	return idx.cropNames
}

// StateCrops returns the crop aggregates of state.
func (idx *Index) StateCrops(state string) (map[string]CropAggregate, bool) {
	return idx.RegionCrops(Key{State: state})
}

// DistrictCrops returns the crop aggregates of district within state.
func (idx *Index) DistrictCrops(state, district string) (map[string]CropAggregate, bool) {
	return idx.RegionCrops(Key{State: state, District: district})
}

// RegionCrops returns the crop aggregates stored under key.
func (idx *Index) RegionCrops(key Key) (map[string]CropAggregate, bool) {
	m, ok := idx.crops[key]
	return m, ok
}

// DistrictState returns the first state, in sorted order, containing district.
func (idx *Index) DistrictState(district string) (string, bool) {
	for _, state := range idx.states {
		if _, ok := idx.crops[Key{State: state, District: district}]; ok {
			return state, true
		}
	}
	return "", false
}

// Rows returns the number of records the index was built from.
func (idx *Index) Rows() int {
	return idx.rows
}

// Search returns states and districts containing query, case-insensitively.
// Each list is capped at limit; limit <= 0 means DefaultSearchLimit.
func (idx *Index) Search(query string, limit int) SearchResult {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(strings.TrimSpace(query))
	return SearchResult{
		States:    containing(idx.states, q, limit),
		Districts: containing(idx.districts, q, limit),
	}
}

func containing(names []string, q string, limit int) []string {
	out := []string{}
	for _, name := range names {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(name), q) {
			out = append(out, name)
		}
	}
	return out
}

// Summary returns the index counts.
func (idx *Index) Summary() Summary {
	return Summary{
		States:    len(idx.states),
		Districts: len(idx.districts),
		Crops:     len(idx.cropNames),
		Rows:      idx.rows,
		BuiltAt:   idx.builtAt,
	}
}
