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
	"slices"

	"github.com/AleutianAI/AleutianCliques/services/cliques/graph"
)

// expander grows partial cliques by candidate intersection.
//
// Description:
//
//	State is (clique, candidates) where candidates are the vertices that are
//	forward neighbors of every clique member, in ascending order. Each
//	extension appends one candidate v and narrows the candidates to those
//	that are also forward neighbors of v. Because every extension adds a
//	vertex greater than all current members, each clique is produced by
//	exactly one path: no deduplication is needed.
//
//	scratch[d] holds the candidate list for cliques of length d. A level
//	only ever writes scratch[d+1] while reading scratch[d], so the buffers
//	are reused across siblings without copying.
//
// Thread Safety: NOT safe for concurrent use. One expander per worker.
type expander struct {
	store *graph.Store
	k     int

	// out is the owning worker's private result buffer.
	out []Clique

	scratch [][]graph.Vertex
	calls   int64
}

// newExpander creates an expander bounded by k.
func newExpander(store *graph.Store, k int) *expander {
	return &expander{store: store, k: k}
}

// buffer returns the emptied scratch slice for cliques of length depth.
func (x *expander) buffer(depth int) []graph.Vertex {
	for len(x.scratch) <= depth {
		x.scratch = append(x.scratch, nil)
	}
	return x.scratch[depth][:0]
}

// seed expands the 2-vertex clique formed by a claimed forward edge.
func (x *expander) seed(e graph.Edge, clique []graph.Vertex) {
	clique = append(clique[:0], e.From, e.To)

	candidates := graph.SortedIntersection(x.buffer(2),
		x.store.Neighbors(e.From), x.store.Neighbors(e.To))
	x.scratch[2] = candidates

	x.expand(clique, candidates)
}

// expand emits clique when its size is in [3, k] and recurses on every
// candidate while the size is below k.
func (x *expander) expand(clique, candidates []graph.Vertex) {
	x.calls++

	n := len(clique)
	if n >= 3 && n <= x.k {
		x.out = append(x.out, slices.Clone(clique))
	}
	if n >= x.k {
		return
	}

	child := append(clique, 0)
	for i, v := range candidates {
		child[n] = v

		// Candidates before v are smaller than v and can never be among its
		// forward neighbors, so intersecting with the tail is equivalent.
		next := graph.SortedIntersection(x.buffer(n+1), candidates[i+1:], x.store.Neighbors(v))
		x.scratch[n+1] = next

		x.expand(child, next)
	}
}
