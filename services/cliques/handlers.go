// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cliques exposes clique enumeration over HTTP.
package cliques

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/AleutianCliques/services/cliques/enumerate"
	"github.com/AleutianAI/AleutianCliques/services/cliques/telemetry"
)

const tracerName = "aleutian.cliques.http"

// HandlerConfig bounds what a single request may ask for.
type HandlerConfig struct {
	// MaxEdges caps the number of edges in one request.
	MaxEdges int

	// MaxRequestWorkers caps the workers one request may use. A request
	// for 0 (auto) workers gets min(GOMAXPROCS, MaxRequestWorkers).
	MaxRequestWorkers int
}

// Handlers serves the clique endpoints.
//
// Thread Safety: Safe for concurrent use. All requests share the
// Enumerator's worker budget.
type Handlers struct {
	enumerator *enumerate.Enumerator
	cfg        HandlerConfig
}

// NewHandlers creates handlers backed by enumerator.
func NewHandlers(enumerator *enumerate.Enumerator, cfg HandlerConfig) *Handlers {
	return &Handlers{enumerator: enumerator, cfg: cfg}
}

// HandleEnumerate handles POST /v1/cliques/enumerate.
//
// Description:
//
//	Validates the body, enumerates cliques of size 3..k, and returns the
//	buckets with run statistics. A run that started fewer workers than
//	requested still succeeds with "degraded": true.
//
// Responses:
//
//	200: EnumerateResponse
//	400: INVALID_REQUEST (malformed or out-of-bounds body)
//	400: INVALID_INPUT (negative vertex id)
//	503: NO_WORKERS (worker budget exhausted)
//	500: ENUMERATION_FAILED
func (h *Handlers) HandleEnumerate(c *gin.Context) {
	requestID := getOrCreateRequestID(c)

	ctx, span := telemetry.StartSpan(c.Request.Context(), tracerName, "cliques.HandleEnumerate",
		trace.WithAttributes(attribute.String("request_id", requestID)),
	)
	defer span.End()

	logger := telemetry.LoggerWithTrace(ctx, slog.Default()).With(
		slog.String("request_id", requestID),
		slog.String("handler", "HandleEnumerate"),
	)

	var req EnumerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", slog.String("error", err.Error()))
		telemetry.RecordError(span, err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  CodeInvalidRequest,
		})
		return
	}
	if err := req.Validate(); err != nil {
		logger.Warn("request failed validation", slog.String("error", err.Error()))
		telemetry.RecordError(span, err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Request failed validation",
			Code:    CodeInvalidRequest,
			Details: describeValidation(err),
		})
		return
	}
	if h.cfg.MaxEdges > 0 && len(req.Edges) > h.cfg.MaxEdges {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Too many edges",
			Code:    CodeInvalidRequest,
			Details: fmt.Sprintf("%d edges exceeds the limit of %d", len(req.Edges), h.cfg.MaxEdges),
		})
		return
	}
	if h.cfg.MaxRequestWorkers > 0 && req.Workers > h.cfg.MaxRequestWorkers {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Too many workers",
			Code:    CodeInvalidRequest,
			Details: fmt.Sprintf("%d workers exceeds the limit of %d", req.Workers, h.cfg.MaxRequestWorkers),
		})
		return
	}

	workers := enumerate.ResolveWorkers(req.Workers)
	if h.cfg.MaxRequestWorkers > 0 {
		workers = min(workers, h.cfg.MaxRequestWorkers)
	}

	opts := []enumerate.Option{enumerate.WithWorkers(workers)}
	if req.Sorted {
		opts = append(opts, enumerate.WithSortedOutput())
	}

	span.SetAttributes(
		attribute.Int("k", req.K),
		attribute.Int("edges", len(req.Edges)),
		attribute.Int("workers", workers),
	)
	logger.Info("enumerating cliques",
		slog.Int("k", req.K),
		slog.Int("edges", len(req.Edges)),
		slog.Int("workers", workers),
	)

	res, err := h.enumerator.Enumerate(ctx, req.GraphEdges(), req.K, opts...)
	if err != nil {
		telemetry.RecordError(span, err)
		status, code := classify(err)
		logger.Warn("enumeration failed",
			slog.String("error", err.Error()),
			slog.String("code", code),
		)
		c.JSON(status, ErrorResponse{
			Error: err.Error(),
			Code:  code,
		})
		return
	}

	telemetry.SetSpanOK(span)
	logger.Info("enumeration completed",
		slog.String("run_id", res.RunID),
		slog.Int("cliques", res.Buckets.Total()),
		slog.Int("workers_started", res.WorkersStarted),
		slog.Bool("degraded", res.Degraded()),
	)

	c.JSON(http.StatusOK, newEnumerateResponse(requestID, res))
}

// HandleHealth handles GET /v1/cliques/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ServiceVersion,
	})
}

// classify maps an enumeration error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, enumerate.ErrInvalidInput):
		return http.StatusBadRequest, CodeInvalidInput
	case errors.Is(err, enumerate.ErrNoWorkers):
		return http.StatusServiceUnavailable, CodeNoWorkers
	default:
		return http.StatusInternalServerError, CodeEnumerationFailed
	}
}

// getOrCreateRequestID returns the X-Request-ID header, generating one if
// absent, and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
