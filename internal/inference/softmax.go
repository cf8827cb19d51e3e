// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package inference

import (
	"math"
	"sort"
)

// normalizedTolerance is how far from 1 a probability vector may sum.
const normalizedTolerance = 1e-3

// Softmax returns exp(x_i) / sum(exp(x)) computed stably.
func Softmax(logits []float32) []float32 {
	if len(logits) == 0 {
		return nil
	}
	maxV := logits[0]
	for _, v := range logits[1:] {
		if v > maxV {
			maxV = v
		}
	}
	out := make([]float32, len(logits))
	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v - maxV))
		out[i] = float32(e)
		sum += e
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}
	return out
}

// EnsureProbabilities returns scores unchanged when they already form a
// distribution, otherwise their softmax.
func EnsureProbabilities(scores []float32) []float32 {
	var sum float64
	for _, v := range scores {
		if v < 0 {
			return Softmax(scores)
		}
		sum += float64(v)
	}
	if math.Abs(sum-1) <= normalizedTolerance {
		return scores
	}
	return Softmax(scores)
}

// Ranked is a class index and its probability.
type Ranked struct {
	Index       int
	Probability float64
}

// TopK returns the k highest probabilities in descending order. Equal
// probabilities keep the lower index first.
func TopK(proba []float64, k int) []Ranked {
	ranked := make([]Ranked, len(proba))
	for i, p := range proba {
		ranked[i] = Ranked{Index: i, Probability: p}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})
	if k >= 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// ArgMax returns the index of the largest score, or -1 for an empty slice.
func ArgMax(scores []float32) int {
	best := -1
	for i, v := range scores {
		if best < 0 || v > scores[best] {
			best = i
		}
	}
	return best
}
