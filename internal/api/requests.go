// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"github.com/tomtom215/cropwise/internal/history"
	"github.com/tomtom215/cropwise/internal/predict"
)

// MaxBatchSize bounds the number of soil readings per request.
const MaxBatchSize = 100

// SoilParamsRequest is one set of soil readings. Omitted fields take defaults.
type SoilParamsRequest struct {
	N           *float64 `json:"N" validate:"omitempty,gte=0,lte=140"`
	P           *float64 `json:"P" validate:"omitempty,gte=0,lte=145"`
	K           *float64 `json:"K" validate:"omitempty,gte=0,lte=205"`
	Temperature *float64 `json:"temperature" validate:"omitempty,gte=0,lte=50"`
	Humidity    *float64 `json:"humidity" validate:"omitempty,gte=0,lte=100"`
	PH          *float64 `json:"ph" validate:"omitempty,gte=0,lte=14"`
	Rainfall    *float64 `json:"rainfall" validate:"omitempty,gte=0,lte=300"`
}

func (r SoilParamsRequest) toInput() predict.SoilInput {
	return predict.SoilInput{
		N:           r.N,
		P:           r.P,
		K:           r.K,
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		PH:          r.PH,
		Rainfall:    r.Rainfall,
	}
}

// RegionRequest selects a region by name or coordinates.
type RegionRequest struct {
	Region string   `json:"region" validate:"omitempty,region_name"`
	Lat    *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng    *float64 `json:"lng" validate:"omitempty,gte=-180,lte=180"`
	TopN   int      `json:"top_n" validate:"omitempty,min=1,max=50"`
	RankBy string   `json:"rank_by" validate:"omitempty,oneof=score production"`
}

func (r RegionRequest) toQuery() predict.RegionQuery {
	return predict.RegionQuery{
		Region: r.Region,
		Lat:    r.Lat,
		Lng:    r.Lng,
		TopN:   r.TopN,
		RankBy: r.RankBy,
	}
}

// SearchRequest holds the /search/regions query parameters.
type SearchRequest struct {
	Query string `json:"query" validate:"required,min=1,max=100"`
	Limit int    `json:"limit" validate:"min=1,max=100"`
}

// HistoryListRequest holds the /history query parameters.
type HistoryListRequest struct {
	Limit  int `json:"limit" validate:"min=1,max=100"`
	Offset int `json:"offset" validate:"min=0,max=1000000"`
}

// FeedbackRequest reports how a recommendation worked out.
type FeedbackRequest struct {
	Status   history.Status `json:"status" validate:"required,oneof=success failure"`
	Feedback string         `json:"feedback" validate:"max=1000"`
}
