// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package inference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/tomtom215/cropwise/internal/imaging"
)

// ErrShapeMismatch is returned when an input tensor does not fit the session.
var ErrShapeMismatch = errors.New("input tensor shape mismatch")

// ImageClassifier scores an image tensor against the soil classes.
type ImageClassifier interface {
	Classify(ctx context.Context, t imaging.Tensor) ([]float32, error)
}

var (
	ortInitOnce sync.Once
	errOrtInit  error
)

// InitRuntime loads the onnxruntime shared library once per process. An
// empty libraryPath uses the library's platform default.
func InitRuntime(libraryPath string) error {
	ortInitOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		errOrtInit = ort.InitializeEnvironment()
	})
	return errOrtInit
}

// ShutdownRuntime releases the onnxruntime environment.
func ShutdownRuntime() error {
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}

// ONNXClassifierConfig describes an image model.
type ONNXClassifierConfig struct {
	ModelPath   string
	LibraryPath string
	InputName   string
	OutputName  string
	Size        int
	Classes     int
}

// ONNXClassifier runs an image model with preallocated input and output
// tensors. Run calls are serialized because the tensors are shared.
type ONNXClassifier struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	shape   ort.Shape
}

// NewONNXClassifier initializes the runtime and opens the model.
func NewONNXClassifier(cfg ONNXClassifierConfig) (*ONNXClassifier, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, err
	}
	if cfg.Size <= 0 {
		cfg.Size = imaging.DefaultSize
	}
	if cfg.Classes <= 0 {
		return nil, errors.New("onnx classifier: class count must be positive")
	}
	if err := InitRuntime(cfg.LibraryPath); err != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", err)
	}

	size := int64(cfg.Size)
	inShape := ort.NewShape(1, size, size, 3)
	input, err := ort.NewEmptyTensor[float32](inShape)
	if err != nil {
		return nil, fmt.Errorf("allocate input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(cfg.Classes)))
	if err != nil {
		_ = input.Destroy()
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(cfg.ModelPath,
		[]string{cfg.InputName}, []string{cfg.OutputName},
		[]ort.Value{input}, []ort.Value{output}, nil)
	if err != nil {
		_ = input.Destroy()
		_ = output.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &ONNXClassifier{
		session: session,
		input:   input,
		output:  output,
		shape:   inShape,
	}, nil
}

// Classify runs the model and returns class probabilities.
func (c *ONNXClassifier) Classify(ctx context.Context, t imaging.Tensor) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(t.Shape) != len(c.shape) {
		return nil, fmt.Errorf("%w: got %v, want %v", ErrShapeMismatch, t.Shape, c.shape)
	}
	for i := range t.Shape {
		if t.Shape[i] != c.shape[i] {
			return nil, fmt.Errorf("%w: got %v, want %v", ErrShapeMismatch, t.Shape, c.shape)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	copy(c.input.GetData(), t.Data)
	if err := c.session.Run(); err != nil {
		return nil, fmt.Errorf("onnx inference: %w", err)
	}
	scores := append([]float32(nil), c.output.GetData()...)
	return EnsureProbabilities(scores), nil
}

// Close releases the session and tensors.
func (c *ONNXClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return errors.Join(c.session.Destroy(), c.input.Destroy(), c.output.Destroy())
}
