// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package predict

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/cropwise/internal/imaging"
	"github.com/tomtom215/cropwise/internal/inference"
)

const imageTopCrops = 3

// MaxUploadBytes is the configured upload limit.
func (s *Service) MaxUploadBytes() int64 {
	return s.cfg.MaxUploadBytes
}

// PredictImageUpload preprocesses an uploaded JPEG or PNG and classifies it.
// Size and format failures surface as the imaging package's errors.
func (s *Service) PredictImageUpload(ctx context.Context, r io.Reader) (*Result, error) {
	if s.image == nil {
		observe(MethodSoilImage, time.Now(), ErrModelNotLoaded)
		return nil, fmt.Errorf("%w: soil image classifier", ErrModelNotLoaded)
	}
	t, err := imaging.Preprocess(r, s.cfg.ImageSize, s.cfg.MaxUploadBytes)
	if err != nil {
		return nil, err
	}
	return s.PredictImage(ctx, t)
}

// PredictImage classifies the soil in t and recommends crops for it.
func (s *Service) PredictImage(ctx context.Context, t imaging.Tensor) (res *Result, err error) {
	start := time.Now()
	defer func() { observe(MethodSoilImage, start, err) }()

	if s.image == nil {
		return nil, fmt.Errorf("%w: soil image classifier", ErrModelNotLoaded)
	}

	scores, err := s.image.Classify(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("soil image prediction: %w", err)
	}
	if len(scores) != len(SoilTypes) {
		return nil, fmt.Errorf("%w: got %d scores for %d soil types", inference.ErrShapeMismatch, len(scores), len(SoilTypes))
	}

	best := inference.ArgMax(scores)
	soil := SoilTypes[best]
	confidence := float64(scores[best])

	crops := SoilCrops[soil]
	if len(crops) > imageTopCrops {
		crops = crops[:imageTopCrops]
	}
	recs := make([]Recommendation, len(crops))
	for i, crop := range crops {
		recs[i] = Recommendation{
			Crop:       crop,
			Confidence: confidence,
			Reason:     fmt.Sprintf("Thrives in %s soil conditions", soil),
		}
	}

	res = &Result{
		Recommendations: recs,
		Method:          MethodSoilImage,
		SoilType:        soil,
		SoilDescription: SoilTypeDescription(soil),
	}
	res.HistoryID = s.record(ctx, MethodSoilImage, "", map[string]any{
		"soil_type":  soil,
		"confidence": confidence,
	}, recs)
	return res, nil
}
