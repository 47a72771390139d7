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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package-level tracer and meter for enumeration.
var (
	tracer = otel.Tracer("aleutian.cliques.enumerate")
	meter  = otel.Meter("aleutian.cliques.enumerate")
)

var (
	enumerationsTotal   metric.Int64Counter
	enumerationDuration metric.Float64Histogram
	cliquesFound        metric.Int64Counter
	spawnFailures       metric.Int64Counter
	workersStarted      metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		enumerationsTotal, err = meter.Int64Counter(
			"cliques_enumerations_total",
			metric.WithDescription("Total enumeration calls by status"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		enumerationDuration, err = meter.Float64Histogram(
			"cliques_enumeration_duration_seconds",
			metric.WithDescription("Duration of enumeration calls"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		cliquesFound, err = meter.Int64Counter(
			"cliques_found_total",
			metric.WithDescription("Cliques reported, by size"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		spawnFailures, err = meter.Int64Counter(
			"cliques_spawn_failures_total",
			metric.WithDescription("Workers that could not be started"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		workersStarted, err = meter.Int64Histogram(
			"cliques_workers_started",
			metric.WithDescription("Workers started per enumeration call"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordEnumeration records metrics for one Enumerate call. r may be nil on
// failure.
func recordEnumeration(ctx context.Context, status string, duration time.Duration, r *Result) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("status", status))
	enumerationsTotal.Add(ctx, 1, attrs)
	enumerationDuration.Record(ctx, duration.Seconds(), attrs)

	if r == nil {
		return
	}

	workersStarted.Record(ctx, int64(r.WorkersStarted))
	if len(r.SpawnFailures) > 0 {
		spawnFailures.Add(ctx, int64(len(r.SpawnFailures)))
	}
	for size, n := range r.Buckets.Counts() {
		if n == 0 {
			continue
		}
		cliquesFound.Add(ctx, int64(n), metric.WithAttributes(attribute.Int("size", size)))
	}
}
