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

import "sync/atomic"

// ClaimTable holds one exclusive-claim flag per edge position.
//
// Description:
//
//	Flags start unclaimed and can only move to claimed. Claim is a single
//	compare-and-swap, so exactly one caller across all goroutines obtains
//	ownership of a given index. There is no release operation.
//
// Thread Safety: Safe for concurrent use. No locks.
type ClaimTable struct {
	flags []atomic.Bool
}

// NewClaimTable creates a table with n unclaimed positions.
func NewClaimTable(n int) *ClaimTable {
	return &ClaimTable{flags: make([]atomic.Bool, n)}
}

// Claim attempts to take ownership of position i.
//
// Outputs:
//   - bool: true only for the one call that moved i from unclaimed to claimed.
//
// Panics if i is out of range.
func (t *ClaimTable) Claim(i int) bool {
	// Fast path: already claimed.
	if t.flags[i].Load() {
		return false
	}
	return t.flags[i].CompareAndSwap(false, true)
}

// Len returns the number of positions.
func (t *ClaimTable) Len() int {
	return len(t.flags)
}

// Claimed counts claimed positions. Only meaningful once all claimers have
// stopped; during a run the count is a snapshot.
func (t *ClaimTable) Claimed() int {
	n := 0
	for i := range t.flags {
		if t.flags[i].Load() {
			n++
		}
	}
	return n
}
