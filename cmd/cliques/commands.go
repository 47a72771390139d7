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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianCliques/cmd/cliques/config"
	"github.com/AleutianAI/AleutianCliques/pkg/logging"
	"github.com/AleutianAI/AleutianCliques/services/cliques/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// --- Global Command Variables ---
var (
	configPath string
	logLevel   string

	appConfig         *config.Config
	appLogger         *logging.Logger
	shutdownTelemetry func(context.Context) error

	rootCmd = &cobra.Command{
		Use:   "cliques",
		Short: "Enumerate all cliques of size 3..k in an undirected graph",
		Long: `cliques lists every complete subgraph of size 3 through k of an
undirected graph, using a pool of workers that claim edges cooperatively.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	enumerateCmd = &cobra.Command{
		Use:     "enumerate",
		Short:   "Enumerate cliques from an edge list file",
		Aliases: []string{"enum", "e"},
		Example: `  cliques enumerate -i roadNet-CA.txt -k 4 -w auto -o cliques.json
  cat edges.csv | cliques enumerate --format csv -k 5 --sorted --output-format yaml`,
		RunE: enumerateCommand,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the enumeration HTTP API",
		RunE:  serveCommand,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cliques %s\n", version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (.yaml, .yml, or .toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level: debug, info, warn, error (overrides config)")

	registerEnumerateFlags(enumerateCmd)
	rootCmd.AddCommand(enumerateCmd)

	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)

	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and installs the logger and telemetry
// providers for every subcommand.
func setup(cmd *cobra.Command, _ []string) error {
	if cmd == versionCmd {
		return nil
	}

	cfg, err := config.Load(configPath, ".env")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		cfg.Logging.Level = level
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	slog.SetDefault(logger.Slog())

	// A one-shot run has no scrape endpoint.
	if cmd == enumerateCmd && cfg.Telemetry.MetricExporter == "prometheus" {
		cfg.Telemetry.MetricExporter = "none"
	}
	cfg.Telemetry.ServiceVersion = version

	shutdown, err := telemetry.Init(cmd.Context(), cfg.Telemetry)
	if err != nil {
		_ = logger.Close()
		return fmt.Errorf("init telemetry: %w", err)
	}

	appConfig = cfg
	appLogger = logger
	shutdownTelemetry = shutdown
	return nil
}

// execute runs the root command and always tears down what setup
// installed, including when the command itself fails.
func execute(args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if terr := teardown(); terr != nil {
		slog.Error("shutdown failed", slog.String("error", terr.Error()))
		if err == nil {
			err = terr
		}
	}
	return err
}

// teardown flushes telemetry and closes the logger. It is safe to call
// more than once.
func teardown() error {
	var errs []error
	if shutdownTelemetry != nil {
		errs = append(errs, shutdownTelemetry(context.Background()))
		shutdownTelemetry = nil
	}
	if appLogger != nil {
		errs = append(errs, appLogger.Close())
		appLogger = nil
	}
	return errors.Join(errs...)
}
