// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package enumerate

import (
	"maps"
	"slices"

	"github.com/AleutianAI/AleutianCliques/services/cliques/graph"
)

// Clique is a strictly increasing sequence of vertex ids.
type Clique []graph.Vertex

// Buckets maps clique size to the cliques of that size.
//
// Every size in [3, k] is present, with an empty (non-nil) slice when no
// clique of that size exists. Order within a bucket is unspecified unless
// Sort has been called.
type Buckets map[int][]Clique

// newBuckets returns buckets for sizes 3..k, all empty.
func newBuckets(k int) Buckets {
	b := make(Buckets, max(k-2, 0))
	for size := 3; size <= k; size++ {
		b[size] = []Clique{}
	}
	return b
}

// Merge combines per-worker buffers into size buckets.
//
// Description:
//
//	Groups every clique of every buffer by its length. Clique slices are
//	moved into the buckets, not copied; the buffers must not be used
//	afterwards. Buffers may be nil (workers that never started).
//
// Inputs:
//   - buffers: One result buffer per worker.
//   - k: Maximum clique size. Buckets 3..k are always present.
//
// Outputs:
//   - Buckets: Grouped cliques.
//
// Thread Safety: Must only be called after every writer of buffers has
// finished.
func Merge(buffers [][]Clique, k int) Buckets {
	counts := make(map[int]int)
	for _, buf := range buffers {
		for _, c := range buf {
			counts[len(c)]++
		}
	}

	b := newBuckets(k)
	for size, n := range counts {
		b[size] = make([]Clique, 0, n)
	}
	for _, buf := range buffers {
		for _, c := range buf {
			b[len(c)] = append(b[len(c)], c)
		}
	}
	return b
}

// Sort orders every bucket lexicographically.
func (b Buckets) Sort() {
	for _, cliques := range b {
		slices.SortFunc(cliques, func(x, y Clique) int {
			return slices.Compare(x, y)
		})
	}
}

// Sizes returns the bucket sizes in ascending order.
func (b Buckets) Sizes() []int {
	return slices.Sorted(maps.Keys(b))
}

// Counts returns the number of cliques per size.
func (b Buckets) Counts() map[int]int {
	counts := make(map[int]int, len(b))
	for size, cliques := range b {
		counts[size] = len(cliques)
	}
	return counts
}

// Total returns the number of cliques across all buckets.
func (b Buckets) Total() int {
	total := 0
	for _, cliques := range b {
		total += len(cliques)
	}
	return total
}
