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

// SortedIntersection appends the intersection of two ascending, duplicate-free
// slices to dst and returns the extended slice.
//
// Description:
//
//	Linear merge of a and b. The result is ascending and duplicate-free.
//	Passing dst[:0] reuses dst's backing array, which lets callers keep
//	one scratch buffer per recursion depth.
//
// Inputs:
//   - dst: Destination slice. May be nil. Must not alias a or b.
//   - a, b: Ascending, duplicate-free vertex slices.
//
// Outputs:
//   - []Vertex: dst with the common elements appended.
//
// Performance: O(len(a) + len(b)), no allocation when cap(dst) suffices.
//
// Thread Safety: Safe for concurrent use with distinct dst slices.
func SortedIntersection(dst, a, b []Vertex) []Vertex {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			dst = append(dst, a[i])
			i++
			j++
		}
	}
	return dst
}
