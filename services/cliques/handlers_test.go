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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/AleutianCliques/services/cliques/enumerate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testConfig = HandlerConfig{MaxEdges: 100, MaxRequestWorkers: 4}

func setupTestRouter(e *enumerate.Enumerator, cfg HandlerConfig, limiter *rate.Limiter) *gin.Engine {
	return NewRouter("cliques-test", NewHandlers(e, cfg), limiter, nil)
}

func postJSON(t *testing.T, router http.Handler, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/cliques/enumerate", &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

func k4Edges() [][]int {
	return [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
}

func TestHandlers_HandleHealth(t *testing.T) {
	router := setupTestRouter(enumerate.NewEnumerator(4), testConfig, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/cliques/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, ServiceVersion, resp.Version)
}

func TestHandlers_HandleEnumerate_K4(t *testing.T) {
	router := setupTestRouter(enumerate.NewEnumerator(4), testConfig, nil)

	w := postJSON(t, router, EnumerateRequest{Edges: k4Edges(), K: 4, Workers: 2, Sorted: true},
		http.Header{"X-Request-Id": {"req-123"}})

	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	var resp struct {
		RequestID        string             `json:"request_id"`
		K                int                `json:"k"`
		Buckets          map[string][][]int `json:"buckets"`
		Counts           map[string]int     `json:"counts"`
		WorkersRequested int                `json:"workers_requested"`
		WorkersStarted   int                `json:"workers_started"`
		Degraded         bool               `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "req-123", resp.RequestID)
	assert.Equal(t, 4, resp.K)
	assert.Equal(t, map[string]int{"3": 4, "4": 1}, resp.Counts)
	assert.Equal(t, [][]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}, resp.Buckets["3"])
	assert.Equal(t, [][]int{{0, 1, 2, 3}}, resp.Buckets["4"])
	assert.Equal(t, 2, resp.WorkersRequested)
	assert.Equal(t, 2, resp.WorkersStarted)
	assert.False(t, resp.Degraded)
}

func TestHandlers_HandleEnumerate_GeneratesRequestID(t *testing.T) {
	router := setupTestRouter(enumerate.NewEnumerator(4), testConfig, nil)

	w := postJSON(t, router, EnumerateRequest{Edges: k4Edges(), K: 2}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHandlers_HandleEnumerate_AutoWorkersAreCapped(t *testing.T) {
	router := setupTestRouter(enumerate.NewEnumerator(0), HandlerConfig{MaxRequestWorkers: 1}, nil)

	w := postJSON(t, router, EnumerateRequest{Edges: k4Edges(), K: 3}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp EnumerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.WorkersRequested)
}

func TestHandlers_HandleEnumerate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"malformed json", `{"edges": [[0,1]`, http.StatusBadRequest, CodeInvalidRequest},
		{"missing edges", EnumerateRequest{K: 3}, http.StatusBadRequest, CodeInvalidRequest},
		{"edge with three ids", EnumerateRequest{Edges: [][]int{{0, 1, 2}}, K: 3}, http.StatusBadRequest, CodeInvalidRequest},
		{"k too large", EnumerateRequest{Edges: k4Edges(), K: 5000}, http.StatusBadRequest, CodeInvalidRequest},
		{"negative k", EnumerateRequest{Edges: k4Edges(), K: -1}, http.StatusBadRequest, CodeInvalidRequest},
		{"too many workers", EnumerateRequest{Edges: k4Edges(), K: 3, Workers: 5}, http.StatusBadRequest, CodeInvalidRequest},
		{"too many edges", EnumerateRequest{Edges: make([][]int, 101), K: 3}, http.StatusBadRequest, CodeInvalidRequest},
		{"negative vertex", EnumerateRequest{Edges: [][]int{{0, 1}, {1, -2}}, K: 3}, http.StatusBadRequest, CodeInvalidInput},
	}

	router := setupTestRouter(enumerate.NewEnumerator(4), testConfig, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, tt.body, nil)

			assert.Equal(t, tt.wantStatus, w.Code, "body: %s", w.Body.String())
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestHandlers_HandleEnumerate_NoWorkers(t *testing.T) {
	budget := semaphore.NewWeighted(2)
	require.True(t, budget.TryAcquire(2))
	defer budget.Release(2)

	e := enumerate.NewEnumerator(0, enumerate.WithWorkerBudget(budget))
	router := setupTestRouter(e, testConfig, nil)

	w := postJSON(t, router, EnumerateRequest{Edges: k4Edges(), K: 4, Workers: 2}, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, CodeNoWorkers, decodeError(t, w).Code)
}

func TestHandlers_HandleEnumerate_Degraded(t *testing.T) {
	budget := semaphore.NewWeighted(3)
	require.True(t, budget.TryAcquire(2))
	defer budget.Release(2)

	e := enumerate.NewEnumerator(0, enumerate.WithWorkerBudget(budget))
	router := setupTestRouter(e, testConfig, nil)

	w := postJSON(t, router, EnumerateRequest{Edges: k4Edges(), K: 4, Workers: 3}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp EnumerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Degraded)
	assert.Equal(t, 1, resp.WorkersStarted)
	assert.Equal(t, 3, resp.WorkersRequested)
	assert.Equal(t, map[int]int{3: 4, 4: 1}, resp.Counts)
}

func TestRateLimit(t *testing.T) {
	limiter := rate.NewLimiter(0, 1)
	router := setupTestRouter(enumerate.NewEnumerator(4), testConfig, limiter)

	first := postJSON(t, router, EnumerateRequest{Edges: k4Edges(), K: 3}, nil)
	second := postJSON(t, router, EnumerateRequest{Edges: k4Edges(), K: 3}, nil)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, CodeRateLimited, decodeError(t, second).Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))

	// Health is never rate limited.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/cliques/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewRouter_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("cliques_enumerations_total 1\n"))
	})
	router := NewRouter("cliques-test", NewHandlers(enumerate.NewEnumerator(1), testConfig), nil, metrics)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cliques_enumerations_total")
}
