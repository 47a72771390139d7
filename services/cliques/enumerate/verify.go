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
	"fmt"
	"strings"

	"github.com/AleutianAI/AleutianCliques/services/cliques/graph"
)

// Verify checks buckets against the graph they were computed from.
//
// Description:
//
//	Confirms that every bucket key is in [3, k], every clique has the size
//	of its bucket, vertices are strictly increasing, every vertex pair is
//	an edge of the store, and no clique appears twice. Completeness is not
//	checked.
//
// Outputs:
//   - error: Wraps ErrInvalidClique describing the first violation.
//
// Performance: O(sum of size^2 * log(degree)) over all cliques.
func Verify(store *graph.Store, b Buckets, k int) error {
	seen := make(map[string]struct{}, b.Total())

	for _, size := range b.Sizes() {
		if size < minCliqueSize || size > k {
			return fmt.Errorf("%w: bucket %d outside [3, %d]", ErrInvalidClique, size, k)
		}
		for _, c := range b[size] {
			if len(c) != size {
				return fmt.Errorf("%w: %v has %d vertices in bucket %d", ErrInvalidClique, c, len(c), size)
			}
			for i := range c {
				if i > 0 && c[i-1] >= c[i] {
					return fmt.Errorf("%w: %v is not strictly increasing", ErrInvalidClique, c)
				}
				for j := i + 1; j < len(c); j++ {
					if !store.Adjacent(c[i], c[j]) {
						return fmt.Errorf("%w: %v missing edge (%d,%d)", ErrInvalidClique, c, c[i], c[j])
					}
				}
			}

			key := c.key()
			if _, dup := seen[key]; dup {
				return fmt.Errorf("%w: %v reported twice", ErrInvalidClique, c)
			}
			seen[key] = struct{}{}
		}
	}
	return nil
}

// key returns a string identity for the clique's vertex set.
func (c Clique) key() string {
	var sb strings.Builder
	for i, v := range c {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", v)
	}
	return sb.String()
}
