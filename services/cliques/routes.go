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
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"
)

// RegisterRoutes registers the clique endpoints on rg (typically /v1).
//
// Endpoints:
//
//	POST /v1/cliques/enumerate - Enumerate cliques of size 3..k
//	GET  /v1/cliques/health    - Health check
//
// When limiter is non-nil, only the enumerate endpoint is rate limited.
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers, limiter *rate.Limiter) {
	group := rg.Group("/cliques")

	enumerateChain := []gin.HandlerFunc{h.HandleEnumerate}
	if limiter != nil {
		enumerateChain = append([]gin.HandlerFunc{RateLimit(limiter)}, enumerateChain...)
	}
	group.POST("/enumerate", enumerateChain...)
	group.GET("/health", h.HandleHealth)
}

// NewRouter builds the full gin engine: recovery, tracing middleware, the
// /v1 routes, and /metrics when metrics is non-nil.
func NewRouter(serviceName string, h *Handlers, limiter *rate.Limiter, metrics http.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))

	RegisterRoutes(router.Group("/v1"), h, limiter)

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}
	return router
}
