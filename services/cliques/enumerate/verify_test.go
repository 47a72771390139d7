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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/AleutianCliques/services/cliques/graph"
)

func TestVerify(t *testing.T) {
	s := buildStore(t, append(completeEdges(4), graph.E(4, 5)))

	tests := []struct {
		name    string
		buckets Buckets
		wantErr bool
	}{
		{"valid", Buckets{3: {{0, 1, 2}}, 4: {{0, 1, 2, 3}}}, false},
		{"empty", Buckets{3: {}, 4: {}}, false},
		{"bucket above k", Buckets{5: {}}, true},
		{"wrong size", Buckets{3: {{0, 1, 2, 3}}}, true},
		{"not increasing", Buckets{3: {{0, 2, 1}}}, true},
		{"missing edge", Buckets{3: {{3, 4, 5}}}, true},
		{"duplicate", Buckets{3: {{0, 1, 2}, {0, 1, 2}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(s, tt.buckets, 4)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidClique)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
