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
	"errors"
	"fmt"

	"github.com/AleutianAI/AleutianCliques/services/cliques/graph"
)

// Sentinel errors for enumeration.
var (
	// ErrInvalidInput is returned for a negative k, a k above MaxCliqueSize,
	// or an edge with a negative vertex id. It is the same value as
	// graph.ErrInvalidInput so callers need only one errors.Is check.
	ErrInvalidInput = graph.ErrInvalidInput

	// ErrNilContext is returned when a nil context is passed.
	ErrNilContext = errors.New("context must not be nil")

	// ErrWorkerBudgetExhausted is the cause of a SpawnError when the shared
	// worker budget has no free slot.
	ErrWorkerBudgetExhausted = errors.New("worker budget exhausted")

	// ErrNoWorkers is returned when every requested worker failed to start.
	// The accompanying Result has empty buckets and must not be mistaken for
	// a graph without cliques.
	ErrNoWorkers = errors.New("no enumeration workers started")

	// ErrWorkerPanic is returned when a worker panics. Edges claimed by that
	// worker may be unprocessed, so the whole call fails.
	ErrWorkerPanic = errors.New("enumeration worker panicked")

	// ErrInvalidClique is returned by Verify for a clique that is not
	// strictly increasing, has the wrong size, is reported twice, or is
	// missing an edge.
	ErrInvalidClique = errors.New("invalid clique")
)

// SpawnError reports a worker that could not be started.
//
// Spawn failures are recoverable: the remaining workers claim every edge the
// missing worker would have processed.
type SpawnError struct {
	// Worker is the index of the worker that did not start.
	Worker int

	// Err is the cause, typically ErrWorkerBudgetExhausted.
	Err error
}

// Error implements error.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn worker %d: %v", e.Worker, e.Err)
}

// Unwrap returns the cause.
func (e *SpawnError) Unwrap() error {
	return e.Err
}
