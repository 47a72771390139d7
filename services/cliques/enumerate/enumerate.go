// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package enumerate lists every clique of size 3..k of an undirected graph
// with a pool of cooperating workers.
//
// # Execution Model
//
//  1. Build an immutable graph.Store (forward adjacency) from the edges
//  2. Create a ClaimTable with one flag per forward edge
//  3. Start N workers; each walks the global edge order, claims free edges,
//     and expands each owned edge into cliques in a private buffer
//  4. Wait for all workers (the only barrier)
//  5. Merge the buffers into size buckets
//
// # Guarantees
//
// The set of cliques in each bucket does not depend on the worker count or
// on how claims interleave. Each clique is reported exactly once, with its
// vertices in strictly increasing order. Order inside a bucket is
// unspecified unless WithSortedOutput is used.
//
// # Cancellation
//
// There is none. The context carries tracing only; once workers are
// launched the enumeration runs to completion.
package enumerate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/AleutianAI/AleutianCliques/services/cliques/graph"
)

const (
	// Auto requests one worker per available CPU (runtime.GOMAXPROCS).
	Auto = 0

	// MaxCliqueSize is the largest accepted k. It bounds the bucket map that
	// is allocated up front, not the search.
	MaxCliqueSize = 4096

	// minCliqueSize is the smallest reported clique.
	minCliqueSize = 3
)

// Options configures an Enumerate call.
type Options struct {
	// Workers is the number of workers. Values <= 0 mean Auto.
	Workers int

	// Budget is an optional worker budget shared between concurrent calls.
	// Each worker holds one slot for its lifetime.
	Budget *semaphore.Weighted

	// Sorted orders every bucket lexicographically before returning.
	Sorted bool
}

// Option is a functional option for Enumerate.
type Option func(*Options)

// WithWorkers sets the worker count. n <= 0 selects Auto.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithWorkerBudget draws worker slots from a shared semaphore. A worker that
// cannot get a slot is reported as a SpawnError instead of being started.
func WithWorkerBudget(budget *semaphore.Weighted) Option {
	return func(o *Options) {
		o.Budget = budget
	}
}

// WithSortedOutput sorts each bucket lexicographically.
func WithSortedOutput() Option {
	return func(o *Options) {
		o.Sorted = true
	}
}

// ResolveWorkers maps a requested worker count to the effective one.
func ResolveWorkers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// Result is the output of one enumeration.
type Result struct {
	// RunID identifies this call in logs and traces.
	RunID string `json:"run_id"`

	// K is the maximum clique size requested.
	K int `json:"k"`

	// Buckets holds the cliques for sizes 3..K.
	Buckets Buckets `json:"buckets"`

	// Vertices is the number of distinct vertices in the input.
	Vertices int `json:"vertices"`

	// Edges is the number of unique forward edges after normalization.
	Edges int `json:"edges"`

	// WorkersRequested is the resolved worker count.
	WorkersRequested int `json:"workers_requested"`

	// WorkersStarted is the number of workers that actually ran.
	WorkersStarted int `json:"workers_started"`

	// SpawnFailures holds one *SpawnError per worker that did not start.
	SpawnFailures []error `json:"-"`

	// WorkerStats holds per-worker statistics for started workers.
	WorkerStats []WorkerStats `json:"worker_stats,omitempty"`

	// Duration is the wall time of the whole call.
	Duration time.Duration `json:"duration_ns"`
}

// Degraded reports whether fewer workers ran than were requested.
func (r *Result) Degraded() bool {
	return r.WorkersStarted < r.WorkersRequested
}

// Enumerate lists all cliques of size 3..k.
//
// Description:
//
//	Validates the input, builds the forward adjacency store, runs the worker
//	pool, and merges the private buffers into size buckets. k < 3 yields no
//	buckets and starts no workers; the edges are still validated.
//
// Inputs:
//   - ctx: Context for tracing. Must not be nil. Cancellation is not observed.
//   - edges: Unordered vertex pairs. Duplicates and self-loops are tolerated.
//   - k: Maximum clique size, inclusive. Must be in [0, MaxCliqueSize].
//   - opts: WithWorkers, WithWorkerBudget, WithSortedOutput.
//
// Outputs:
//   - *Result: Buckets for every size 3..k plus run statistics.
//   - error: ErrInvalidInput for bad k or negative vertex ids, ErrNilContext,
//     ErrWorkerPanic if a worker panicked. When no worker could start, a
//     Result with empty buckets is returned together with an error wrapping
//     ErrNoWorkers.
//
// Example:
//
//	res, err := enumerate.Enumerate(ctx, edges, 4, enumerate.WithWorkers(8))
//	if err != nil {
//	    return fmt.Errorf("enumerate cliques: %w", err)
//	}
//	triangles := res.Buckets[3]
//
// Thread Safety: Safe for concurrent use.
func Enumerate(ctx context.Context, edges []graph.Edge, k int, opts ...Option) (*Result, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	options := Options{Workers: Auto}
	for _, opt := range opts {
		opt(&options)
	}

	start := time.Now()
	runID := uuid.NewString()

	ctx, span := tracer.Start(ctx, "enumerate.Enumerate",
		trace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.Int("k", k),
			attribute.Int("input_edges", len(edges)),
		),
	)
	defer span.End()

	fail := func(err error) (*Result, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordEnumeration(ctx, "error", time.Since(start), nil)
		return nil, err
	}

	if k < 0 || k > MaxCliqueSize {
		return fail(fmt.Errorf("%w: k=%d outside [0, %d]", ErrInvalidInput, k, MaxCliqueSize))
	}

	store, err := graph.Build(ctx, edges)
	if err != nil {
		return fail(err)
	}

	result := &Result{
		RunID:    runID,
		K:        k,
		Buckets:  newBuckets(k),
		Vertices: store.VertexCount(),
		Edges:    store.EdgeCount(),
	}

	if k < minCliqueSize {
		result.Duration = time.Since(start)
		span.SetStatus(codes.Ok, "")
		recordEnumeration(ctx, "ok", result.Duration, result)
		return result, nil
	}

	workers := ResolveWorkers(options.Workers)
	result.WorkersRequested = workers

	slog.Debug("starting clique enumeration",
		slog.String("run_id", runID),
		slog.Int("k", k),
		slog.Int("vertices", result.Vertices),
		slog.Int("edges", result.Edges),
		slog.Int("workers", workers),
	)

	pool, err := runWorkers(ctx, store, k, workers, options.Budget)
	if err != nil {
		return fail(err)
	}

	result.WorkersStarted = pool.started
	result.SpawnFailures = pool.failures
	result.WorkerStats = pool.stats

	span.SetAttributes(
		attribute.Int("workers_requested", workers),
		attribute.Int("workers_started", pool.started),
		attribute.Int("edges_claimed", pool.claimed),
	)

	if pool.started == 0 {
		result.Duration = time.Since(start)
		err := fmt.Errorf("%w: %d requested: %w", ErrNoWorkers, workers, errors.Join(pool.failures...))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordEnumeration(ctx, "no_workers", result.Duration, result)
		return result, err
	}

	result.Buckets = Merge(pool.buffers, k)
	if options.Sorted {
		result.Buckets.Sort()
	}
	result.Duration = time.Since(start)

	status := "ok"
	if result.Degraded() {
		status = "degraded"
		slog.Warn("clique enumeration ran with reduced parallelism",
			slog.String("run_id", runID),
			slog.Int("requested", workers),
			slog.Int("started", pool.started),
		)
	}

	span.SetAttributes(
		attribute.Int("cliques_total", result.Buckets.Total()),
		attribute.Bool("degraded", result.Degraded()),
	)
	span.SetStatus(codes.Ok, "")
	recordEnumeration(ctx, status, result.Duration, result)

	slog.Debug("clique enumeration completed",
		slog.String("run_id", runID),
		slog.Int("cliques", result.Buckets.Total()),
		slog.Int("workers_started", pool.started),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

// Enumerator runs enumerations against a worker budget shared by every call.
//
// Description:
//
//	Long-lived services use one Enumerator so that concurrent requests
//	together never run more than maxWorkers workers. A request that finds
//	the budget partly used runs degraded; one that finds it exhausted fails
//	with ErrNoWorkers.
//
// Thread Safety: Safe for concurrent use.
type Enumerator struct {
	budget   *semaphore.Weighted
	defaults []Option
}

// NewEnumerator creates an Enumerator. maxWorkers <= 0 disables the budget.
func NewEnumerator(maxWorkers int64, defaults ...Option) *Enumerator {
	e := &Enumerator{defaults: defaults}
	if maxWorkers > 0 {
		e.budget = semaphore.NewWeighted(maxWorkers)
	}
	return e
}

// Enumerate calls the package-level Enumerate with the shared budget, the
// Enumerator defaults, and then opts.
func (e *Enumerator) Enumerate(ctx context.Context, edges []graph.Edge, k int, opts ...Option) (*Result, error) {
	all := make([]Option, 0, len(e.defaults)+len(opts)+1)
	all = append(all, e.defaults...)
	all = append(all, opts...)
	if e.budget != nil {
		all = append(all, WithWorkerBudget(e.budget))
	}
	return Enumerate(ctx, edges, k, all...)
}
