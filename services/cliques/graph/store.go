// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel/codes"
)

// Store is the immutable forward adjacency structure.
//
// Vertices are kept in ascending id order. The forward neighbors of the
// vertex at position i occupy adj[offsets[i]:offsets[i+1]], so the position
// of a neighbor inside adj doubles as the stable global index of that edge.
//
// Thread Safety:
//
//	Read-only after Build returns. Safe for concurrent use.
type Store struct {
	ids     []Vertex
	index   map[Vertex]int
	offsets []int
	adj     []Vertex

	maxForwardDegree int
}

// Build constructs a Store from an edge list.
//
// Description:
//
//	Validates every edge, normalizes each pair to forward orientation,
//	drops self-loops, and collapses duplicate pairs into a single forward
//	edge. Every vertex mentioned by the input becomes part of the vertex
//	set, including vertices that only appear in self-loops.
//
// Inputs:
//   - ctx: Context for tracing. Must not be nil.
//   - edges: Input pairs in any orientation. Not retained.
//
// Outputs:
//   - *Store: The built store. Never nil when err is nil.
//   - error: Wraps ErrInvalidInput if any edge references a negative id.
//
// Performance: O(E log E) time, O(V + E) memory.
//
// Thread Safety: Safe for concurrent use; each call builds an independent Store.
func Build(ctx context.Context, edges []Edge) (*Store, error) {
	ctx, span := startBuildSpan(ctx, len(edges))
	defer span.End()

	start := time.Now()

	for i, e := range edges {
		if err := e.Validate(); err != nil {
			err = fmt.Errorf("edge %d: %w", i, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			recordBuildMetrics(ctx, time.Since(start), 0, 0, false)
			return nil, err
		}
	}

	forward := make([]Edge, 0, len(edges))
	ids := make([]Vertex, 0, 2*len(edges))
	for _, e := range edges {
		ids = append(ids, e.From, e.To)
		if e.IsLoop() {
			continue
		}
		forward = append(forward, e.Normalize())
	}

	slices.Sort(ids)
	ids = slices.Compact(ids)

	slices.SortFunc(forward, func(a, b Edge) int {
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.To, b.To)
	})
	forward = slices.Compact(forward)

	s := &Store{
		ids:     slices.Clip(ids),
		index:   make(map[Vertex]int, len(ids)),
		offsets: make([]int, len(ids)+1),
		adj:     make([]Vertex, len(forward)),
	}
	for i, v := range s.ids {
		s.index[v] = i
	}

	// forward is sorted by source, so each source's targets are contiguous
	// and already ascending.
	for pos, e := range forward {
		s.adj[pos] = e.To
		s.offsets[s.index[e.From]+1]++
	}
	for i := 1; i < len(s.offsets); i++ {
		deg := s.offsets[i]
		s.maxForwardDegree = max(s.maxForwardDegree, deg)
		s.offsets[i] += s.offsets[i-1]
	}

	duration := time.Since(start)
	setBuildSpanResult(span, s.VertexCount(), s.EdgeCount(), len(edges)-len(forward))
	span.SetStatus(codes.Ok, "")
	recordBuildMetrics(ctx, duration, s.VertexCount(), s.EdgeCount(), true)

	slog.Debug("graph store built",
		slog.Int("input_edges", len(edges)),
		slog.Int("vertices", s.VertexCount()),
		slog.Int("forward_edges", s.EdgeCount()),
		slog.Int("max_forward_degree", s.maxForwardDegree),
		slog.Duration("duration", duration),
	)

	return s, nil
}

// Neighbors returns the forward neighbors of v: adjacent vertices with a
// strictly greater id, in ascending order.
//
// Smaller-id neighbors are NOT included. The returned slice is a view into
// the store with its capacity clipped, so appending to it never writes into
// shared memory; callers must not modify its elements.
//
// Returns nil for vertices that are not part of the graph.
func (s *Store) Neighbors(v Vertex) []Vertex {
	i, ok := s.index[v]
	if !ok {
		return nil
	}
	lo, hi := s.offsets[i], s.offsets[i+1]
	return s.adj[lo:hi:hi]
}

// Edges returns the global edge order.
//
// Description:
//
//	Yields (index, edge) for every unique forward edge, ordered by source id
//	then target id. The index is dense in [0, EdgeCount()) and is identical
//	on every call, so it can key a claim table shared by many goroutines.
//	The sequence is restartable: each range over it starts from the first
//	edge.
//
// Thread Safety: Safe for concurrent iteration.
func (s *Store) Edges() iter.Seq2[int, Edge] {
	return func(yield func(int, Edge) bool) {
		for i, u := range s.ids {
			for pos := s.offsets[i]; pos < s.offsets[i+1]; pos++ {
				if !yield(pos, Edge{From: u, To: s.adj[pos]}) {
					return
				}
			}
		}
	}
}

// Vertices returns the vertex ids in ascending order.
func (s *Store) Vertices() []Vertex {
	return slices.Clone(s.ids)
}

// VertexCount returns the number of distinct vertices in the input.
func (s *Store) VertexCount() int {
	return len(s.ids)
}

// EdgeCount returns the number of unique forward edges.
func (s *Store) EdgeCount() int {
	return len(s.adj)
}

// MaxForwardDegree returns the largest forward-neighbor count of any vertex.
// No clique can be larger than MaxForwardDegree()+1.
func (s *Store) MaxForwardDegree() int {
	return s.maxForwardDegree
}

// Adjacent reports whether u and v are joined by an input edge.
//
// Unlike Neighbors, the arguments may be given in either order.
func (s *Store) Adjacent(u, v Vertex) bool {
	e := Edge{From: u, To: v}.Normalize()
	if e.IsLoop() {
		return false
	}
	_, found := slices.BinarySearch(s.Neighbors(e.From), e.To)
	return found
}
