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
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to build a store and fail the test on error.
func mustBuild(t *testing.T, edges []Edge) *Store {
	t.Helper()
	s, err := Build(context.Background(), edges)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

func TestBuild_ForwardNeighbors(t *testing.T) {
	//   0 - 1
	//   | / |
	//   2 - 3
	s := mustBuild(t, []Edge{E(1, 0), E(2, 0), E(1, 2), E(3, 1), E(2, 3)})

	assert.Equal(t, []Vertex{1, 2}, s.Neighbors(0))
	assert.Equal(t, []Vertex{2, 3}, s.Neighbors(1))
	assert.Equal(t, []Vertex{3}, s.Neighbors(2))
	assert.Empty(t, s.Neighbors(3), "highest vertex has no forward neighbors")

	assert.Equal(t, 4, s.VertexCount())
	assert.Equal(t, 5, s.EdgeCount())
	assert.Equal(t, 2, s.MaxForwardDegree())
}

func TestBuild_NonContiguousIDs(t *testing.T) {
	s := mustBuild(t, []Edge{E(1000, 7), E(7, 42), E(42, 1000)})

	assert.Equal(t, []Vertex{7, 42, 1000}, s.Vertices())
	assert.Equal(t, []Vertex{42, 1000}, s.Neighbors(7))
	assert.Equal(t, []Vertex{1000}, s.Neighbors(42))
	assert.Nil(t, s.Neighbors(8), "unknown vertex has no neighbors")
}

func TestBuild_DuplicatesAndLoops(t *testing.T) {
	s := mustBuild(t, []Edge{E(0, 1), E(1, 0), E(0, 1), E(5, 5), E(1, 2)})

	assert.Equal(t, []Vertex{1}, s.Neighbors(0), "duplicate pairs collapse")
	assert.Equal(t, 2, s.EdgeCount())
	assert.Contains(t, s.Vertices(), Vertex(5), "loop-only vertex is still a vertex")
	assert.Empty(t, s.Neighbors(5))
	assert.False(t, s.Adjacent(5, 5))
}

func TestBuild_NegativeVertex(t *testing.T) {
	tests := []struct {
		name  string
		edges []Edge
	}{
		{"negative from", []Edge{E(0, 1), E(-1, 2)}},
		{"negative to", []Edge{E(3, -7)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Build(context.Background(), tt.edges)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, errors.Is(err, ErrInvalidInput), "error = %v, want ErrInvalidInput", err)
		})
	}
}

func TestBuild_Empty(t *testing.T) {
	s := mustBuild(t, nil)

	assert.Equal(t, 0, s.VertexCount())
	assert.Equal(t, 0, s.EdgeCount())
	for range s.Edges() {
		t.Fatal("empty store yielded an edge")
	}
}

func TestNeighbors_ReadOnlyView(t *testing.T) {
	s := mustBuild(t, []Edge{E(0, 1), E(0, 2), E(1, 2)})

	n := s.Neighbors(0)
	assert.Equal(t, len(n), cap(n), "capacity must be clipped")

	// Appending must reallocate instead of overwriting vertex 1's list.
	_ = append(n, 99)
	assert.Equal(t, []Vertex{2}, s.Neighbors(1))
}

func TestEdges_DeterministicOrder(t *testing.T) {
	s := mustBuild(t, []Edge{E(3, 1), E(2, 0), E(0, 1), E(2, 1), E(1, 4)})

	var got []Edge
	var indices []int
	for i, e := range s.Edges() {
		got = append(got, e)
		indices = append(indices, i)
	}

	want := []Edge{E(0, 1), E(0, 2), E(1, 2), E(1, 3), E(1, 4)}
	assert.Equal(t, want, got)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, indices)

	t.Run("restartable", func(t *testing.T) {
		var again []Edge
		for _, e := range s.Edges() {
			again = append(again, e)
		}
		assert.Equal(t, got, again)
	})

	t.Run("early break", func(t *testing.T) {
		count := 0
		for range s.Edges() {
			count++
			if count == 2 {
				break
			}
		}
		assert.Equal(t, 2, count)
	})
}

func TestEdges_AllForward(t *testing.T) {
	s := mustBuild(t, []Edge{E(9, 3), E(3, 4), E(4, 9), E(8, 1)})

	for _, e := range s.Edges() {
		assert.Less(t, e.From, e.To, "edge %s is not forward", e)
		assert.True(t, slices.Contains(s.Neighbors(e.From), e.To))
	}
}

func TestAdjacent(t *testing.T) {
	s := mustBuild(t, []Edge{E(0, 1), E(2, 1)})

	assert.True(t, s.Adjacent(0, 1))
	assert.True(t, s.Adjacent(1, 0))
	assert.True(t, s.Adjacent(1, 2))
	assert.True(t, s.Adjacent(2, 1))
	assert.False(t, s.Adjacent(0, 2))
	assert.False(t, s.Adjacent(0, 17))
}

func TestEdge_Normalize(t *testing.T) {
	assert.Equal(t, E(1, 5), E(5, 1).Normalize())
	assert.Equal(t, E(1, 5), E(1, 5).Normalize())
	assert.Equal(t, "(1,5)", E(1, 5).String())
	assert.True(t, E(2, 2).IsLoop())
}
