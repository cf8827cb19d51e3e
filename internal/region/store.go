// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package region

import (
	"context"
	"sync/atomic"
)

// Store publishes the current Index. Readers never block writers.
type Store struct {
	current atomic.Pointer[Index]
}

// NewStore returns a Store holding idx, which may be nil.
func NewStore(idx *Index) *Store {
	s := &Store{}
	if idx != nil {
		s.current.Store(idx)
	}
	return s
}

// Load returns the current Index or nil when none has been loaded.
func (s *Store) Load() *Index {
	return s.current.Load()
}

// Swap publishes idx and returns the previous Index.
func (s *Store) Swap(idx *Index) *Index {
	return s.current.Swap(idx)
}

// Reload parses path, builds a new Index and publishes it. On error the
// current Index is left in place.
func (s *Store) Reload(ctx context.Context, path string, opts LoadOptions) (*Index, LoadStats, error) {
	records, stats, err := LoadFile(ctx, path, opts)
	if err != nil {
		return nil, stats, err
	}
	idx := NewIndex(records)
	s.current.Store(idx)
	return idx, stats, nil
}
