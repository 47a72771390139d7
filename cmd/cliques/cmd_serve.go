// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/AleutianCliques/cmd/cliques/config"
	"github.com/AleutianAI/AleutianCliques/services/cliques"
	"github.com/AleutianAI/AleutianCliques/services/cliques/enumerate"
	"github.com/AleutianAI/AleutianCliques/services/cliques/telemetry"
)

const shutdownTimeout = 10 * time.Second

func serveCommand(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("port") {
		appConfig.Server.Port, _ = cmd.Flags().GetInt("port")
		if err := appConfig.Validate(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runServer(ctx, appConfig)
}

// newServer builds the HTTP server for cfg without starting it.
func newServer(cfg *config.Config) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	enumerator := enumerate.NewEnumerator(cfg.Server.MaxWorkers)
	handlers := cliques.NewHandlers(enumerator, cliques.HandlerConfig{
		MaxEdges:          cfg.Server.MaxEdges,
		MaxRequestWorkers: cfg.Server.MaxRequestWorkers,
	})
	limiter := rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst)

	router := cliques.NewRouter(cfg.Telemetry.ServiceName, handlers, limiter, telemetry.MetricsHandler())

	return &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(cfg.Server.Port)),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
// In-flight enumerations run to completion within shutdownTimeout.
func runServer(ctx context.Context, cfg *config.Config) error {
	srv := newServer(cfg)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("cliques server listening",
			slog.String("addr", srv.Addr),
			slog.Int64("max_workers", cfg.Server.MaxWorkers),
			slog.Float64("rate_limit", cfg.Server.RateLimit),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down cliques server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
