// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package region

import (
	"context"
	"strings"
	"testing"
)

const sampleCSV = ` State ,DISTRICT,Crop,Production,Area,Yield
punjab,ludhiana,wheat,1000,100,10
punjab,ludhiana,rice,800,50,16
punjab,amritsar,wheat,500,60,
punjab,amritsar,cotton,300,30,10
kerala,idukki,tea,400,80,5
kerala,idukki,pepper,100,10,10
kerala,kollam,rice,200,40,5
uttar pradesh,aurangabad,sugarcane,5000,200,25
bihar,aurangabad,rice,700,90,7.7
`

// loadSampleIndex builds an Index from sampleCSV.
func loadSampleIndex(t *testing.T) *Index {
	t.Helper()
	records, _, err := LoadCSV(context.Background(), strings.NewReader(sampleCSV), DefaultLoadOptions())
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	return NewIndex(records)
}
