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
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/AleutianAI/AleutianCliques/services/cliques/graph"
)

// WorkerStats describes one worker's share of a run.
type WorkerStats struct {
	// Worker is the worker index in [0, requested).
	Worker int `json:"worker"`

	// EdgesClaimed is the number of seed edges this worker owned.
	EdgesClaimed int `json:"edges_claimed"`

	// CliquesFound is the number of cliques in this worker's buffer.
	CliquesFound int `json:"cliques_found"`

	// Expansions counts recursive expansion steps, including seeds.
	Expansions int64 `json:"expansions"`

	// Duration is the wall time from worker start to the end of the edge order.
	Duration time.Duration `json:"duration_ns"`
}

// poolResult is the joined output of a worker pool run.
type poolResult struct {
	// buffers[i] is worker i's private result buffer; nil if it never started.
	buffers  [][]Clique
	stats    []WorkerStats
	started  int
	failures []error
	claimed  int
}

// runWorkers runs n workers over the store's edge order and waits for all of
// them.
//
// Description:
//
//	Every worker walks the full global edge order from the start and claims
//	positions through a shared ClaimTable. A claimed edge is expanded into
//	cliques written to that worker's private buffer. No result structure is
//	shared during the run; buffers are read only after errgroup.Wait, which
//	is the single barrier.
//
//	When budget is non-nil, each worker needs one budget slot. A worker that
//	cannot get a slot is not started; its SpawnError is logged and returned
//	in poolResult.failures. Because claiming is cooperative, the workers
//	that did start still cover every edge.
//
// Inputs:
//   - ctx: Parent context for worker spans. Cancellation is not observed.
//   - store: Built graph. Read-only.
//   - k: Maximum clique size. Must be >= 3.
//   - n: Number of workers to request. Must be >= 1.
//   - budget: Optional shared worker budget. May be nil.
//
// Outputs:
//   - *poolResult: Buffers, stats, and spawn failures.
//   - error: Wraps ErrWorkerPanic if any worker panicked.
//
// Thread Safety: Safe for concurrent use; each call owns its claim table.
func runWorkers(ctx context.Context, store *graph.Store, k, n int, budget *semaphore.Weighted) (*poolResult, error) {
	claims := NewClaimTable(store.EdgeCount())
	res := &poolResult{
		buffers: make([][]Clique, n),
	}
	stats := make([]WorkerStats, n)
	launched := make([]bool, n)

	// Slots are reserved before any worker runs so that a fast worker
	// releasing its slot cannot change how many workers start.
	for id := range n {
		if budget != nil && !budget.TryAcquire(1) {
			err := &SpawnError{Worker: id, Err: ErrWorkerBudgetExhausted}
			res.failures = append(res.failures, err)
			slog.Warn("enumeration worker not started, continuing with reduced parallelism",
				slog.Int("worker_id", id),
				slog.Int("requested", n),
				slog.String("error", err.Error()),
			)
			continue
		}
		launched[id] = true
		res.started++
	}

	var g errgroup.Group
	for id, ok := range launched {
		if !ok {
			continue
		}

		g.Go(func() (err error) {
			if budget != nil {
				defer budget.Release(1)
			}

			// Panic recovery converts the panic into a call failure.
			defer func() {
				if r := recover(); r != nil {
					buf := make([]byte, 4096)
					size := runtime.Stack(buf, false)
					slog.Error("panic in enumeration worker",
						slog.Int("worker_id", id),
						slog.Any("panic", r),
						slog.String("stack", string(buf[:size])),
					)
					err = fmt.Errorf("%w: worker %d: %v", ErrWorkerPanic, id, r)
				}
			}()

			_, span := tracer.Start(ctx, "enumerate.worker",
				trace.WithAttributes(attribute.Int("worker_id", id)),
			)
			defer span.End()

			res.buffers[id], stats[id] = workFn(id, store, claims, k)

			span.SetAttributes(
				attribute.Int("edges_claimed", stats[id].EdgesClaimed),
				attribute.Int("cliques_found", stats[id].CliquesFound),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for id, ok := range launched {
		if ok {
			res.stats = append(res.stats, stats[id])
		}
	}
	res.claimed = claims.Claimed()

	return res, nil
}

// workFn runs one worker. Tests replace it to inject failures.
var workFn = work

// work is the body of one worker: claim edges in global order until the end
// of the order, expanding each owned edge.
func work(id int, store *graph.Store, claims *ClaimTable, k int) ([]Clique, WorkerStats) {
	start := time.Now()

	x := newExpander(store, k)
	clique := make([]graph.Vertex, 0, min(k, store.MaxForwardDegree()+1)+1)
	stats := WorkerStats{Worker: id}

	for i, e := range store.Edges() {
		if !claims.Claim(i) {
			continue
		}
		stats.EdgesClaimed++
		x.seed(e, clique)
	}

	stats.CliquesFound = len(x.out)
	stats.Expansions = x.calls
	stats.Duration = time.Since(start)

	return x.out, stats
}
