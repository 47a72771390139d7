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

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for graph operations.
var (
	tracer = otel.Tracer("aleutian.cliques.graph")
	meter  = otel.Meter("aleutian.cliques.graph")
)

// Metrics for store construction.
var (
	buildLatency  metric.Float64Histogram
	buildTotal    metric.Int64Counter
	verticesBuilt metric.Int64Histogram
	edgesBuilt    metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		buildLatency, err = meter.Float64Histogram(
			"cliques_graph_build_duration_seconds",
			metric.WithDescription("Duration of graph store construction"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		buildTotal, err = meter.Int64Counter(
			"cliques_graph_build_total",
			metric.WithDescription("Total number of graph store builds"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		verticesBuilt, err = meter.Int64Histogram(
			"cliques_graph_vertices",
			metric.WithDescription("Number of vertices per built store"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		edgesBuilt, err = meter.Int64Histogram(
			"cliques_graph_edges",
			metric.WithDescription("Number of unique forward edges per built store"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordBuildMetrics records metrics for a build operation.
func recordBuildMetrics(ctx context.Context, duration time.Duration, vertexCount, edgeCount int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("success", success))

	buildLatency.Record(ctx, duration.Seconds(), attrs)
	buildTotal.Add(ctx, 1, attrs)

	if success {
		verticesBuilt.Record(ctx, int64(vertexCount))
		edgesBuilt.Record(ctx, int64(edgeCount))
	}
}

// startBuildSpan creates a span for a build operation.
func startBuildSpan(ctx context.Context, inputEdges int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "graph.Build",
		trace.WithAttributes(
			attribute.Int("graph.input_edges", inputEdges),
		),
	)
}

// setBuildSpanResult sets the result attributes on a build span.
func setBuildSpanResult(span trace.Span, vertexCount, edgeCount, dropped int) {
	span.SetAttributes(
		attribute.Int("graph.vertex_count", vertexCount),
		attribute.Int("graph.edge_count", edgeCount),
		attribute.Int("graph.dropped_pairs", dropped),
	)
}
