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
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianCliques/cmd/cliques/config"
	"github.com/AleutianAI/AleutianCliques/pkg/ux"
	"github.com/AleutianAI/AleutianCliques/services/cliques/edgelist"
	"github.com/AleutianAI/AleutianCliques/services/cliques/enumerate"
	"github.com/AleutianAI/AleutianCliques/services/cliques/graph"
)

// enumerateOptions are the resolved inputs of one enumerate run.
type enumerateOptions struct {
	Input        string
	Output       string
	InputFormat  string
	OutputFormat string
	K            int
	Workers      int
	Sorted       bool
	Verify       bool
}

func registerEnumerateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("input", "i", "-", "edge list file, or - for stdin")
	f.StringP("output", "o", "-", "result file, or - for stdout")
	f.IntP("k", "k", 0, "maximum clique size (overrides config)")
	f.StringP("workers", "w", "", `worker count or "auto" (overrides config)`)
	f.String("format", "", "input format: text, csv, json, yaml (default: from file extension)")
	f.String("output-format", "", "output format: json or yaml (overrides config)")
	f.Bool("sorted", false, "sort cliques within each size")
	f.Bool("verify", false, "check every reported clique against the graph")
}

// resolveEnumerateOptions merges config defaults with the flags the user set.
func resolveEnumerateOptions(cmd *cobra.Command, cfg config.EnumerateConfig) (enumerateOptions, error) {
	f := cmd.Flags()
	opts := enumerateOptions{
		InputFormat:  cfg.InputFormat,
		OutputFormat: cfg.OutputFormat,
		K:            cfg.K,
		Workers:      cfg.Workers,
		Sorted:       cfg.Sorted,
	}

	opts.Input, _ = f.GetString("input")
	opts.Output, _ = f.GetString("output")
	opts.Verify, _ = f.GetBool("verify")

	if f.Changed("k") {
		opts.K, _ = f.GetInt("k")
	}
	if f.Changed("workers") {
		raw, _ := f.GetString("workers")
		n, err := parseWorkers(raw)
		if err != nil {
			return opts, err
		}
		opts.Workers = n
	}
	if f.Changed("format") {
		opts.InputFormat, _ = f.GetString("format")
	}
	if f.Changed("output-format") {
		opts.OutputFormat, _ = f.GetString("output-format")
	}
	if f.Changed("sorted") {
		opts.Sorted, _ = f.GetBool("sorted")
	}
	return opts, nil
}

// parseWorkers accepts "auto", "", or a non-negative integer.
func parseWorkers(raw string) (int, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" || raw == "auto" {
		return enumerate.Auto, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid --workers %q: want a non-negative integer or \"auto\"", raw)
	}
	return n, nil
}

func enumerateCommand(cmd *cobra.Command, _ []string) error {
	opts, err := resolveEnumerateOptions(cmd, appConfig.Enumerate)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if opts.Input != "-" && opts.Input != "" {
		file, err := os.Open(opts.Input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		in = file
	}

	var summary io.Writer
	if ux.IsTerminal(os.Stderr) {
		summary = os.Stderr
	}

	if opts.Output == "-" || opts.Output == "" {
		return runEnumerate(cmd.Context(), opts, in, cmd.OutOrStdout(), summary)
	}
	return writeFileAtomic(opts.Output, func(out io.Writer) error {
		return runEnumerate(cmd.Context(), opts, in, out, summary)
	})
}

// writeFileAtomic runs write against a temporary file next to path and
// renames it over path only when write succeeds. A failed run leaves an
// existing file untouched.
func writeFileAtomic(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

// runEnumerate decodes the edge list from in, enumerates, and writes the
// encoded result to out. A summary is rendered to summary when it is not
// nil.
func runEnumerate(ctx context.Context, opts enumerateOptions, in io.Reader, out, summary io.Writer) error {
	inFormat := edgelist.FormatFromPath(opts.Input)
	if opts.InputFormat != "" {
		f, err := edgelist.ParseFormat(opts.InputFormat)
		if err != nil {
			return err
		}
		inFormat = f
	}
	outFormat, err := edgelist.ParseFormat(opts.OutputFormat)
	if err != nil {
		return err
	}

	edges, err := edgelist.Decode(in, inFormat)
	if err != nil {
		return fmt.Errorf("decode %s edge list: %w", inFormat, err)
	}
	slog.Debug("edge list loaded",
		slog.String("input", opts.Input),
		slog.String("format", string(inFormat)),
		slog.Int("edges", len(edges)),
	)

	enumOpts := []enumerate.Option{enumerate.WithWorkers(opts.Workers)}
	if opts.Sorted {
		enumOpts = append(enumOpts, enumerate.WithSortedOutput())
	}

	res, err := enumerate.Enumerate(ctx, edges, opts.K, enumOpts...)
	if err != nil {
		return fmt.Errorf("enumerate: %w", err)
	}

	var verified *bool
	if opts.Verify {
		ok, err := verify(ctx, edges, res)
		if err != nil {
			return err
		}
		verified = &ok
	}

	if err := edgelist.Encode(out, outFormat, edgelist.NewDocument(res)); err != nil {
		return err
	}

	if summary != nil {
		fmt.Fprintln(summary, ux.RenderSummary(ux.Summary{
			Input:            opts.Input,
			K:                res.K,
			Vertices:         res.Vertices,
			Edges:            res.Edges,
			WorkersRequested: res.WorkersRequested,
			WorkersStarted:   res.WorkersStarted,
			Counts:           res.Buckets.Counts(),
			Duration:         res.Duration,
			Verified:         verified,
		}))
	}

	if verified != nil && !*verified {
		return fmt.Errorf("verification failed for run %s", res.RunID)
	}
	return nil
}

// verify rebuilds the store and checks every reported clique. The boolean
// is false when a clique is invalid; the error is reserved for failures to
// run the check at all.
func verify(ctx context.Context, edges []graph.Edge, res *enumerate.Result) (bool, error) {
	store, err := graph.Build(ctx, edges)
	if err != nil {
		return false, fmt.Errorf("verify: %w", err)
	}
	if err := enumerate.Verify(store, res.Buckets, res.K); err != nil {
		slog.Error("clique verification failed",
			slog.String("run_id", res.RunID),
			slog.String("error", err.Error()),
		)
		return false, nil
	}
	slog.Info("clique verification passed",
		slog.String("run_id", res.RunID),
		slog.Int("cliques", res.Buckets.Total()),
	)
	return true, nil
}
