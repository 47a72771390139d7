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

import "fmt"

// Vertex is a non-negative vertex identifier. Ids need not be contiguous.
type Vertex int

// Edge is an unordered pair of vertices.
//
// From and To may be given in either order; Normalize returns the forward
// orientation used internally.
type Edge struct {
	// From is one endpoint.
	From Vertex `json:"from" yaml:"from"`

	// To is the other endpoint.
	To Vertex `json:"to" yaml:"to"`
}

// Normalize returns the edge in forward orientation (lower id first).
func (e Edge) Normalize() Edge {
	if e.To < e.From {
		return Edge{From: e.To, To: e.From}
	}
	return e
}

// IsLoop reports whether both endpoints are the same vertex.
func (e Edge) IsLoop() bool {
	return e.From == e.To
}

// String returns "(from,to)".
func (e Edge) String() string {
	return fmt.Sprintf("(%d,%d)", e.From, e.To)
}

// Validate checks that both endpoints are non-negative.
//
// Outputs:
//   - error: wraps ErrInvalidInput when either endpoint is negative.
func (e Edge) Validate() error {
	if e.From < 0 || e.To < 0 {
		return fmt.Errorf("%w: edge %s references a negative vertex id", ErrInvalidInput, e)
	}
	return nil
}

// E is shorthand for constructing an Edge.
func E(u, v Vertex) Edge {
	return Edge{From: u, To: v}
}
