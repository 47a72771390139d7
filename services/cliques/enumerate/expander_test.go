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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianCliques/services/cliques/graph"
)

// completeEdges returns every pair of vertices in [0, n).
func completeEdges(n int) []graph.Edge {
	var edges []graph.Edge
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			edges = append(edges, graph.E(graph.Vertex(u), graph.Vertex(v)))
		}
	}
	return edges
}

func buildStore(t *testing.T, edges []graph.Edge) *graph.Store {
	t.Helper()
	s, err := graph.Build(context.Background(), edges)
	require.NoError(t, err)
	return s
}

func TestExpander_SeedEmitsOnlyThroughRootEdge(t *testing.T) {
	s := buildStore(t, completeEdges(4))

	x := newExpander(s, 4)
	x.seed(graph.E(0, 1), nil)

	// Every clique rooted at (0,1): {0,1,2}, {0,1,2,3}, {0,1,3}.
	assert.Equal(t, []Clique{{0, 1, 2}, {0, 1, 2, 3}, {0, 1, 3}}, x.out)
}

func TestExpander_StopsAtK(t *testing.T) {
	s := buildStore(t, completeEdges(5))

	x := newExpander(s, 3)
	x.seed(graph.E(0, 1), nil)

	for _, c := range x.out {
		assert.Len(t, c, 3)
	}
	assert.Len(t, x.out, 3, "triangles {0,1,2}, {0,1,3}, {0,1,4}")
}

func TestExpander_EmittedCliquesAreIndependentCopies(t *testing.T) {
	s := buildStore(t, completeEdges(5))

	clique := make([]graph.Vertex, 0, 8)
	x := newExpander(s, 5)
	x.seed(graph.E(0, 1), clique)
	x.seed(graph.E(0, 2), clique)

	for _, c := range x.out {
		for i := 1; i < len(c); i++ {
			assert.Less(t, c[i-1], c[i], "clique %v not increasing", c)
		}
	}
	assert.Equal(t, Clique{0, 1, 2}, x.out[0], "first clique must survive later seeds")
}

func TestExpander_NoCommonNeighbors(t *testing.T) {
	// Path 0-1-2: edge (0,1) has no common forward neighbor.
	s := buildStore(t, []graph.Edge{graph.E(0, 1), graph.E(1, 2)})

	x := newExpander(s, 5)
	x.seed(graph.E(0, 1), nil)

	assert.Empty(t, x.out)
	assert.Equal(t, int64(1), x.calls)
}
