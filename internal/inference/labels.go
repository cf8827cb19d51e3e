// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package inference

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// ErrUnknownClass is returned for an index outside the encoder's classes.
var ErrUnknownClass = errors.New("unknown class index")

// LabelEncoder maps class indices to labels.
type LabelEncoder struct {
	classes []string
}

// NewLabelEncoder returns an encoder over classes.
func NewLabelEncoder(classes []string) *LabelEncoder {
	return &LabelEncoder{classes: append([]string(nil), classes...)}
}

// LoadLabelEncoder reads either a JSON array of labels or an object with a
// "classes" array.
func LoadLabelEncoder(path string) (*LabelEncoder, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: artifact path comes from configuration
	if err != nil {
		return nil, err
	}
	return ParseLabelEncoder(data)
}

// ParseLabelEncoder parses encoder JSON.
func ParseLabelEncoder(data []byte) (*LabelEncoder, error) {
	var classes []string
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &classes); err != nil {
			return nil, fmt.Errorf("decode label encoder: %w", err)
		}
	} else {
		var wrapper struct {
			Classes []string `json:"classes"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("decode label encoder: %w", err)
		}
		classes = wrapper.Classes
	}
	if len(classes) == 0 {
		return nil, errors.New("label encoder has no classes")
	}
	return &LabelEncoder{classes: classes}, nil
}

// Decode returns the label at index i.
func (e *LabelEncoder) Decode(i int) (string, error) {
	if i < 0 || i >= len(e.classes) {
		return "", fmt.Errorf("%w: %d", ErrUnknownClass, i)
	}
	return e.classes[i], nil
}

// Classes returns a copy of the label list.
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

// Len returns the number of classes.
func (e *LabelEncoder) Len() int {
	return len(e.classes)
}
