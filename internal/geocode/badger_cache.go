// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package geocode

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const keyPrefix = "geocode:"

// BadgerCache persists geocoded places between restarts. Entries expire
// through badger's native TTL.
type BadgerCache struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadgerCache opens (or creates) the cache at path. An empty path opens
// an in-memory store.
func OpenBadgerCache(path string, ttl time.Duration) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open geocode cache: %w", err)
	}
	return &BadgerCache{db: db, ttl: ttl}, nil
}

// Get returns the cached place for key.
func (bc *BadgerCache) Get(key string) (Place, bool, error) {
	var place Place
	err := bc.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &place)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Place{}, false, nil
	}
	if err != nil {
		return Place{}, false, err
	}
	return place, true, nil
}

// Set stores place under key.
func (bc *BadgerCache) Set(key string, place Place) error {
	data, err := json.Marshal(place)
	if err != nil {
		return fmt.Errorf("marshal place: %w", err)
	}
	return bc.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(keyPrefix+key), data)
		if bc.ttl > 0 {
			e = e.WithTTL(bc.ttl)
		}
		return txn.SetEntry(e)
	})
}

// Close flushes and closes the store.
func (bc *BadgerCache) Close() error {
	return bc.db.Close()
}

// RunGC reclaims value log space. Having nothing to rewrite, or running
// in memory, is not an error.
func (bc *BadgerCache) RunGC() error {
	err := bc.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}
