// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package region

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrMissingColumns is returned when the dataset lacks a required column.
var ErrMissingColumns = errors.New("dataset is missing required columns")

var requiredColumns = []string{"state", "district", "crop", "production"}

// Drop reasons reported in LoadStats.
const (
	DropEmptyField = "empty_required_field"
	DropShortRow   = "short_row"
)

// LoadOptions controls name normalization.
type LoadOptions struct {
	// TitleCase title-cases state, district and crop names.
	TitleCase bool
}

// DefaultLoadOptions returns the options used when none are given.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{TitleCase: true}
}

// LoadStats reports what happened to each input row.
type LoadStats struct {
	Read    int            `json:"read"`
	Kept    int            `json:"kept"`
	Dropped int            `json:"dropped"`
	Reasons map[string]int `json:"reasons,omitempty"`
}

func (s *LoadStats) drop(reason string) {
	s.Dropped++
	if s.Reasons == nil {
		s.Reasons = make(map[string]int)
	}
	s.Reasons[reason]++
}

// LoadFile opens path and parses it with LoadCSV.
func LoadFile(ctx context.Context, path string, opts LoadOptions) ([]Record, LoadStats, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return LoadCSV(ctx, f, opts)
}

// LoadCSV parses production records. Headers are matched after trimming and
// lower-casing. Rows with an empty required field are dropped; unparseable
// numbers become 0.
func LoadCSV(ctx context.Context, r io.Reader, opts LoadOptions) ([]Record, LoadStats, error) {
	var stats LoadStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(requiredColumns, ", "))
		}
		return nil, stats, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, stats, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	areaCol, hasArea := cols["area"]
	yieldCol, hasYield := cols["yield"]

	normalize := strings.TrimSpace
	if opts.TitleCase {
		caser := cases.Title(language.Und)
		normalize = func(s string) string {
			return caser.String(strings.TrimSpace(s))
		}
	}

	var records []Record
	for {
		if stats.Read%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read row %d: %w", stats.Read+2, err)
		}
		stats.Read++

		field := func(i int) (string, bool) {
			if i >= len(row) {
				return "", false
			}
			return strings.TrimSpace(row[i]), true
		}

		state, okS := field(cols["state"])
		district, okD := field(cols["district"])
		crop, okC := field(cols["crop"])
		prod, okP := field(cols["production"])
		if !okS || !okD || !okC || !okP {
			stats.drop(DropShortRow)
			continue
		}
		if state == "" || district == "" || crop == "" || prod == "" {
			stats.drop(DropEmptyField)
			continue
		}

		rec := Record{
			State:      normalize(state),
			District:   normalize(district),
			Crop:       normalize(crop),
			Production: parseLenient(prod),
		}
		if hasArea {
			if v, ok := field(areaCol); ok {
				rec.Area = parseLenient(v)
			}
		}
		yieldSet := false
		if hasYield {
			if v, ok := field(yieldCol); ok && v != "" {
				rec.Yield = parseLenient(v)
				yieldSet = true
			}
		}
		if !yieldSet && rec.Area > 0 {
			rec.Yield = rec.Production / rec.Area
		}

		records = append(records, rec)
		stats.Kept++
	}

	return records, stats, nil
}

// parseLenient parses a float, treating anything unparseable as 0.
func parseLenient(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}
