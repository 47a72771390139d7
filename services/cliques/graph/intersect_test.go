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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedIntersection(t *testing.T) {
	tests := []struct {
		name string
		a, b []Vertex
		want []Vertex
	}{
		{"both empty", nil, nil, nil},
		{"one empty", []Vertex{1, 2}, nil, nil},
		{"disjoint", []Vertex{1, 3, 5}, []Vertex{2, 4, 6}, nil},
		{"identical", []Vertex{1, 2, 3}, []Vertex{1, 2, 3}, []Vertex{1, 2, 3}},
		{"interleaved", []Vertex{1, 2, 4, 7, 9}, []Vertex{2, 3, 7, 8, 9}, []Vertex{2, 7, 9}},
		{"subset", []Vertex{5}, []Vertex{1, 5, 10}, []Vertex{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortedIntersection(nil, tt.a, tt.b)
			assert.Equal(t, tt.want, got)

			// Symmetric.
			assert.Equal(t, tt.want, SortedIntersection(nil, tt.b, tt.a))
		})
	}
}

func TestSortedIntersection_ReusesDst(t *testing.T) {
	dst := make([]Vertex, 0, 8)
	dst = append(dst, 100, 200)

	got := SortedIntersection(dst[:0], []Vertex{1, 2, 3}, []Vertex{2, 3})

	assert.Equal(t, []Vertex{2, 3}, got)
	assert.Equal(t, 8, cap(got), "backing array should be reused")
}
