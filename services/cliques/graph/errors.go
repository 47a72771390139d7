// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph provides the immutable forward-oriented adjacency store used
// by the clique enumerator.
//
// # Forward Orientation
//
// Every input edge is normalized so that it runs from the lower vertex id to
// the higher one. The Store keeps, for each vertex, only its FORWARD
// neighbors: adjacent vertices whose id is strictly greater.
//
// IMPORTANT: Store is NOT a general undirected adjacency structure.
// Neighbors(v) omits every adjacent vertex with a smaller id than v. This
// asymmetry is what makes every clique reachable through exactly one root
// edge and one increasing extension sequence, so enumeration never emits a
// clique twice. Callers that need full adjacency must use Adjacent(u, v),
// which normalizes its arguments, or build their own structure.
//
// # Thread Safety
//
// A Store is built once by Build and never mutated afterwards. It can be read
// from any number of goroutines without synchronization.
//
// # Lifecycle
//
//  1. Build(edges) validates and normalizes the input
//  2. Workers read Neighbors() and iterate Edges()
//  3. The Store is dropped with the enumeration call that built it
package graph

import "errors"

// Sentinel errors for graph construction.
var (
	// ErrInvalidInput is returned when an edge references a negative vertex id.
	// The check runs before any adjacency data is allocated.
	ErrInvalidInput = errors.New("invalid input")
)
