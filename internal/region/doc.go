// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

/*
Package region indexes historical crop production by state and district and
turns free-text or geocoded places into ranked crop recommendations.

The package has three parts:

  - Index: immutable aggregates built from a production CSV (LoadFile, NewIndex)
  - Resolver: maps a name or geocoded place to an indexed state or district
  - Ranker: orders the crops of a resolved region by score or production

An Index is never mutated after NewIndex returns. Reloads build a fresh Index
and publish it through Store, so request handlers take one snapshot and use
it for the whole request:

	idx := store.Load()
	match, err := region.NewResolver(idx, 0.7).ResolveName("punjab")
	if err != nil {
	    return err
	}
	ranking, err := region.NewRanker(0.8).Rank(idx, match, region.RankOptions{TopN: 5})

District names are always scoped to their state. Two states that share a
district name keep separate aggregates.
*/
package region
