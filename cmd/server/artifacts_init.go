// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/cropwise/internal/config"
	"github.com/tomtom215/cropwise/internal/inference"
	"github.com/tomtom215/cropwise/internal/logging"
	"github.com/tomtom215/cropwise/internal/metrics"
	"github.com/tomtom215/cropwise/internal/predict"
	"github.com/tomtom215/cropwise/internal/region"
)

// Model names used for the model_loaded gauge.
const (
	modelForest = "random_forest"
	modelImage  = "soil_cnn"
)

// loadSoilModel reads the forest and its label encoder. Both must load and
// agree on the class count.
func loadSoilModel(cfg *config.ModelsConfig) (*inference.Forest, *inference.LabelEncoder, error) {
	forest, err := inference.LoadForest(cfg.ArtifactPath(cfg.ForestFile))
	if err != nil {
		return nil, nil, fmt.Errorf("load forest: %w", err)
	}
	labels, err := inference.LoadLabelEncoder(cfg.ArtifactPath(cfg.LabelsFile))
	if err != nil {
		return nil, nil, fmt.Errorf("load label encoder: %w", err)
	}
	if forest.NClasses != labels.Len() {
		return nil, nil, fmt.Errorf("forest has %d classes but label encoder has %d", forest.NClasses, labels.Len())
	}
	return forest, labels, nil
}

// loadImageModel opens the ONNX soil classifier.
func loadImageModel(cfg *config.ModelsConfig) (*inference.ONNXClassifier, error) {
	return inference.NewONNXClassifier(inference.ONNXClassifierConfig{
		ModelPath:   cfg.ArtifactPath(cfg.ImageModelFile),
		LibraryPath: cfg.OnnxLibrary,
		InputName:   cfg.ImageInputName,
		OutputName:  cfg.ImageOutputName,
		Size:        cfg.ImageSize,
		Classes:     len(predict.SoilTypes),
	})
}

// loadedModels holds the predict options for every artifact that loaded and
// the image classifier, which must be closed before the runtime shuts down.
type loadedModels struct {
	opts  []predict.Option
	image *inference.ONNXClassifier
}

// Close releases the image classifier. It is safe to call more than once.
func (m *loadedModels) Close() error {
	if m.image == nil {
		return nil
	}
	err := m.image.Close()
	m.image = nil
	return err
}

// initModels loads every model artifact it can. A missing artifact is
// logged and leaves its routes answering 503.
func initModels(cfg *config.ModelsConfig) *loadedModels {
	models := &loadedModels{}

	forest, labels, err := loadSoilModel(cfg)
	if err != nil {
		logging.Warn().Err(err).Msg("Soil parameter model not loaded")
	} else {
		models.opts = append(models.opts, predict.WithSoilModel(forest, labels))
		logging.Info().
			Int("trees", len(forest.Trees)).
			Int("classes", labels.Len()).
			Msg("Soil parameter model loaded")
	}
	metrics.SetModelLoaded(modelForest, err == nil)

	classifier, err := loadImageModel(cfg)
	if err != nil {
		logging.Warn().Err(err).Msg("Soil image model not loaded")
	} else {
		models.image = classifier
		models.opts = append(models.opts, predict.WithImageModel(classifier))
		logging.Info().Int("size", cfg.ImageSize).Msg("Soil image model loaded")
	}
	metrics.SetModelLoaded(modelImage, err == nil)

	return models
}

// regionReloader returns a function that rebuilds the region index from the
// configured dataset. A failed reload keeps the previous index.
func regionReloader(cfg *config.RegionConfig, store *region.Store) func(ctx context.Context) error {
	opts := region.DefaultLoadOptions()
	opts.TitleCase = cfg.TitleCase
	path := cfg.DatasetFile()

	return func(ctx context.Context) error {
		idx, stats, err := store.Reload(ctx, path, opts)
		if err != nil {
			metrics.RecordIndexReload(0, err)
			return fmt.Errorf("reload region dataset %s: %w", path, err)
		}
		metrics.RecordIndexReload(idx.Rows(), nil)
		logging.Info().
			Str("path", path).
			Int("read", stats.Read).
			Int("kept", stats.Kept).
			Int("dropped", stats.Dropped).
			Int("states", len(idx.States())).
			Msg("Region index loaded")
		return nil
	}
}
