// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package predict

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/cropwise/internal/inference"
)

const soilTopK = 5

// Recommendation is one recommended crop.
type Recommendation struct {
	Crop       string  `json:"crop"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Result is the outcome of a soil prediction.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	Method          string           `json:"method"`
	InputData       *SoilFeatures    `json:"input_data,omitempty"`
	SoilType        string           `json:"soil_type,omitempty"`
	SoilDescription string           `json:"soil_description,omitempty"`
	HistoryID       string           `json:"history_id,omitempty"`
}

// SoilInput holds soil and climate readings. Nil fields take their default.
type SoilInput struct {
	N           *float64
	P           *float64
	K           *float64
	Temperature *float64
	Humidity    *float64
	PH          *float64
	Rainfall    *float64
}

// SoilFeatures is a fully populated feature vector.
type SoilFeatures struct {
	N           float64 `json:"N"`
	P           float64 `json:"P"`
	K           float64 `json:"K"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	Rainfall    float64 `json:"rainfall"`
}

// DefaultSoilFeatures are substituted for missing readings.
var DefaultSoilFeatures = SoilFeatures{
	N:           50,
	P:           50,
	K:           50,
	Temperature: 25,
	Humidity:    60,
	PH:          6.5,
	Rainfall:    100,
}

// FeatureNames is the order the classifier expects.
var FeatureNames = []string{"N", "P", "K", "temperature", "humidity", "ph", "rainfall"}

// Fill returns in with defaults substituted for nil fields.
func (in SoilInput) Fill() SoilFeatures {
	f := DefaultSoilFeatures
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&f.N, in.N)
	set(&f.P, in.P)
	set(&f.K, in.K)
	set(&f.Temperature, in.Temperature)
	set(&f.Humidity, in.Humidity)
	set(&f.PH, in.PH)
	set(&f.Rainfall, in.Rainfall)
	return f
}

// Vector returns the features in FeatureNames order.
func (f SoilFeatures) Vector() []float64 {
	return []float64{f.N, f.P, f.K, f.Temperature, f.Humidity, f.PH, f.Rainfall}
}

// PredictSoil recommends the five most probable crops for in.
func (s *Service) PredictSoil(ctx context.Context, in SoilInput) (res *Result, err error) {
	start := time.Now()
	defer func() { observe(MethodSoilParams, start, err) }()

	res, err = s.predictSoil(in)
	if err != nil {
		return nil, err
	}
	res.HistoryID = s.record(ctx, MethodSoilParams, "", res.InputData, res.Recommendations)
	return res, nil
}

// PredictSoilBatch predicts every input and returns results in input order.
// The first failure aborts the batch.
func (s *Service) PredictSoilBatch(ctx context.Context, inputs []SoilInput) ([]*Result, error) {
	results := make([]*Result, 0, len(inputs))
	for i, in := range inputs {
		res, err := s.PredictSoil(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *Service) predictSoil(in SoilInput) (*Result, error) {
	if s.forest == nil || s.labels == nil {
		return nil, fmt.Errorf("%w: soil parameter classifier", ErrModelNotLoaded)
	}

	features := in.Fill()
	proba, err := s.forest.PredictProba(features.Vector())
	if err != nil {
		return nil, fmt.Errorf("soil parameter prediction: %w", err)
	}

	top := inference.TopK(proba, soilTopK)
	recs := make([]Recommendation, 0, len(top))
	for _, r := range top {
		crop, err := s.labels.Decode(r.Index)
		if err != nil {
			return nil, fmt.Errorf("soil parameter prediction: %w", err)
		}
		recs = append(recs, Recommendation{
			Crop:       crop,
			Confidence: r.Probability,
			Reason:     fmt.Sprintf("High compatibility with soil parameters (confidence: %.2f)", r.Probability),
		})
	}

	return &Result{
		Recommendations: recs,
		Method:          MethodSoilParams,
		InputData:       &features,
	}, nil
}
