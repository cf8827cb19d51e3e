// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package inference

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewONNXClassifier_MissingModel(t *testing.T) {
	t.Parallel()

	_, err := NewONNXClassifier(ONNXClassifierConfig{
		ModelPath: filepath.Join(t.TempDir(), "absent.onnx"),
		Classes:   6,
	})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestNewONNXClassifier_NoClasses(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "model.onnx")
	if err := os.WriteFile(path, []byte("stub"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewONNXClassifier(ONNXClassifierConfig{ModelPath: path}); err == nil {
		t.Error("expected error for zero classes")
	}
}
