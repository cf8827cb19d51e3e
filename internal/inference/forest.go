// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package inference

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// ErrFeatureCount is returned when the input vector has the wrong length.
var ErrFeatureCount = errors.New("feature count mismatch")

// leaf marks a node without children.
const leaf = -1

// TabularClassifier predicts class probabilities from a feature vector.
type TabularClassifier interface {
	PredictProba(features []float64) ([]float64, error)
}

// Tree is one decision tree in array form. Node i splits on Feature[i] at
// Threshold[i]; x <= threshold goes to Left[i], otherwise Right[i].
type Tree struct {
	Left      []int       `json:"children_left"`
	Right     []int       `json:"children_right"`
	Feature   []int       `json:"feature"`
	Threshold []float64   `json:"threshold"`
	Value     [][]float64 `json:"value"`
}

// Forest is a tree ensemble.
type Forest struct {
	NFeatures    int      `json:"n_features"`
	NClasses     int      `json:"n_classes"`
	FeatureNames []string `json:"feature_names,omitempty"`
	Trees        []Tree   `json:"trees"`
}

// LoadForest reads a forest from a JSON file.
func LoadForest(path string) (*Forest, error) {
	f, err := os.Open(path) //nolint:gosec // G304: artifact path comes from configuration
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeForest(f)
}

// DecodeForest parses and validates a forest.
func DecodeForest(r io.Reader) (*Forest, error) {
	var forest Forest
	if err := json.NewDecoder(r).Decode(&forest); err != nil {
		return nil, fmt.Errorf("decode forest: %w", err)
	}
	if err := forest.validate(); err != nil {
		return nil, err
	}
	return &forest, nil
}

func (f *Forest) validate() error {
	if f.NFeatures <= 0 || f.NClasses <= 0 {
		return fmt.Errorf("forest: n_features and n_classes must be positive")
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest: no trees")
	}
	for ti, t := range f.Trees {
		n := len(t.Left)
		if n == 0 || len(t.Right) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
			return fmt.Errorf("forest: tree %d has inconsistent node arrays", ti)
		}
		for i := 0; i < n; i++ {
			if t.Left[i] == leaf {
				if len(t.Value[i]) != f.NClasses {
					return fmt.Errorf("forest: tree %d leaf %d has %d classes, want %d", ti, i, len(t.Value[i]), f.NClasses)
				}
				continue
			}
			if t.Left[i] <= i || t.Left[i] >= n || t.Right[i] <= i || t.Right[i] >= n {
				return fmt.Errorf("forest: tree %d node %d has invalid children", ti, i)
			}
			if t.Feature[i] < 0 || t.Feature[i] >= f.NFeatures {
				return fmt.Errorf("forest: tree %d node %d splits on feature %d", ti, i, t.Feature[i])
			}
		}
	}
	return nil
}

// PredictProba returns the mean of each tree's normalized leaf distribution.
func (f *Forest) PredictProba(features []float64) ([]float64, error) {
	if len(features) != f.NFeatures {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFeatureCount, len(features), f.NFeatures)
	}

	proba := make([]float64, f.NClasses)
	for i := range f.Trees {
		dist := f.Trees[i].leafValue(features)
		var sum float64
		for _, v := range dist {
			sum += v
		}
		if sum == 0 {
			continue
		}
		for c, v := range dist {
			proba[c] += v / sum
		}
	}

	n := float64(len(f.Trees))
	for c := range proba {
		proba[c] /= n
	}
	return proba, nil
}

// leafValue walks from the root to a leaf. Children always have a higher
// index than their parent, so the walk terminates.
func (t *Tree) leafValue(x []float64) []float64 {
	node := 0
	for t.Left[node] != leaf {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
	}
	return t.Value[node]
}
