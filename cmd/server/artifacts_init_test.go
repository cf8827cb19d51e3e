// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/cropwise/internal/config"
	"github.com/tomtom215/cropwise/internal/metrics"
	"github.com/tomtom215/cropwise/internal/region"
)

const forestJSON = `{
	"n_features": 7,
	"n_classes": 2,
	"trees": [{
		"children_left":  [1, -1, -1],
		"children_right": [2, -1, -1],
		"feature":        [0, -2, -2],
		"threshold":      [60, -2, -2],
		"value":          [[0, 0], [3, 0], [0, 2]]
	}]
}`

const datasetCSV = `State,District,Crop,Year,Season,Area,Production
Punjab,Ludhiana,Wheat,2019,Rabi,100,1000
Punjab,Ludhiana,Rice,2019,Kharif,50,800
Kerala,Idukki,Tea,2019,Whole Year,80,400
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadSoilModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		forest  string
		labels  string
		wantErr string
	}{
		{"loads", forestJSON, `["rice","maize"]`, ""},
		{"wrapped labels", forestJSON, `{"classes":["rice","maize"]}`, ""},
		{"class count mismatch", forestJSON, `["rice","maize","chickpea"]`, "label encoder has 3"},
		{"missing forest", "", `["rice","maize"]`, "load forest"},
		{"missing labels", forestJSON, "", "load label encoder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			if tt.forest != "" {
				writeFile(t, dir, "forest.json", tt.forest)
			}
			if tt.labels != "" {
				writeFile(t, dir, "labels.json", tt.labels)
			}
			cfg := &config.ModelsConfig{Path: dir, ForestFile: "forest.json", LabelsFile: "labels.json"}

			forest, labels, err := loadSoilModel(cfg)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("loadSoilModel() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadSoilModel() error = %v", err)
			}
			if forest.NClasses != 2 || labels.Len() != 2 {
				t.Errorf("got %d forest classes and %d labels, want 2 and 2", forest.NClasses, labels.Len())
			}
		})
	}
}

func TestInitModels_MissingArtifacts(t *testing.T) {
	cfg := &config.ModelsConfig{
		Path:           t.TempDir(),
		ForestFile:     "absent.json",
		LabelsFile:     "absent-labels.json",
		ImageModelFile: "absent.onnx",
		ImageSize:      224,
	}

	models := initModels(cfg)
	if len(models.opts) != 0 {
		t.Errorf("initModels() returned %d options, want none", len(models.opts))
	}
	if models.image != nil {
		t.Error("image classifier set without a model file")
	}
	for i := 0; i < 2; i++ {
		if err := models.Close(); err != nil {
			t.Errorf("Close() #%d error = %v", i+1, err)
		}
	}
	if got := testutil.ToFloat64(metrics.ModelLoaded.WithLabelValues(modelForest)); got != 0 {
		t.Errorf("model_loaded{%s} = %v, want 0", modelForest, got)
	}
	if got := testutil.ToFloat64(metrics.ModelLoaded.WithLabelValues(modelImage)); got != 0 {
		t.Errorf("model_loaded{%s} = %v, want 0", modelImage, got)
	}
}

func TestRegionReloader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "crops.csv", datasetCSV)

	cfg := &config.RegionConfig{DataPath: dir, Dataset: "crops.csv", TitleCase: true}
	store := region.NewStore(nil)
	reload := regionReloader(cfg, store)

	if err := reload(context.Background()); err != nil {
		t.Fatalf("reload() error = %v", err)
	}
	idx := store.Load()
	if idx == nil {
		t.Fatal("store is empty after reload")
	}
	if idx.Rows() != 3 {
		t.Errorf("Rows() = %d, want 3", idx.Rows())
	}

	// A broken file keeps the previous index.
	writeFile(t, dir, "crops.csv", "Name,Value\nfoo,1\n")
	if err := reload(context.Background()); err == nil {
		t.Fatal("reload() of a file without required columns should fail")
	}
	if store.Load() != idx {
		t.Error("failed reload replaced the index")
	}
}
