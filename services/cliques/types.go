// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cliques

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/AleutianCliques/services/cliques/enumerate"
	"github.com/AleutianAI/AleutianCliques/services/cliques/graph"
)

// ServiceVersion is reported by the health endpoint.
const ServiceVersion = "0.1.0"

var requestValidate = validator.New()

// EnumerateRequest is the body of POST /v1/cliques/enumerate.
//
// # Validation
//
//   - Edges: required, at least one pair, each exactly two ids. Negative
//     ids pass validation and are rejected by the engine as INVALID_INPUT.
//   - K: 0..4096.
//   - Workers: >= 0; 0 means one per CPU, capped by the server.
type EnumerateRequest struct {
	Edges   [][]int `json:"edges" validate:"required,min=1,dive,len=2"`
	K       int     `json:"k" validate:"gte=0,lte=4096"`
	Workers int     `json:"workers" validate:"gte=0"`
	Sorted  bool    `json:"sorted"`
}

// Validate checks field constraints.
func (r *EnumerateRequest) Validate() error {
	return requestValidate.Struct(r)
}

// GraphEdges converts the request pairs to graph edges.
func (r *EnumerateRequest) GraphEdges() []graph.Edge {
	edges := make([]graph.Edge, len(r.Edges))
	for i, p := range r.Edges {
		edges[i] = graph.E(graph.Vertex(p[0]), graph.Vertex(p[1]))
	}
	return edges
}

// EnumerateResponse is the body of a successful enumeration.
type EnumerateResponse struct {
	RequestID        string            `json:"request_id"`
	RunID            string            `json:"run_id"`
	K                int               `json:"k"`
	Buckets          enumerate.Buckets `json:"buckets"`
	Counts           map[int]int       `json:"counts"`
	Vertices         int               `json:"vertices"`
	Edges            int               `json:"edges"`
	WorkersRequested int               `json:"workers_requested"`
	WorkersStarted   int               `json:"workers_started"`
	Degraded         bool              `json:"degraded"`
	DurationMs       float64           `json:"duration_ms"`
}

func newEnumerateResponse(requestID string, res *enumerate.Result) EnumerateResponse {
	return EnumerateResponse{
		RequestID:        requestID,
		RunID:            res.RunID,
		K:                res.K,
		Buckets:          res.Buckets,
		Counts:           res.Buckets.Counts(),
		Vertices:         res.Vertices,
		Edges:            res.Edges,
		WorkersRequested: res.WorkersRequested,
		WorkersStarted:   res.WorkersStarted,
		Degraded:         res.Degraded(),
		DurationMs:       float64(res.Duration.Microseconds()) / 1000,
	}
}

// HealthResponse is the body of GET /v1/cliques/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is a stable machine-readable code.
	Code string `json:"code,omitempty"`

	// Details provides additional error context.
	Details string `json:"details,omitempty"`
}

// Error codes.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeNoWorkers         = "NO_WORKERS"
	CodeEnumerationFailed = "ENUMERATION_FAILED"
	CodeRateLimited       = "RATE_LIMITED"
)

// describeValidation renders validator errors as "field: rule" pairs.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		part := fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			part += "=" + fe.Param()
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}
