// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianCliques/pkg/logging"
	"github.com/AleutianAI/AleutianCliques/services/cliques/edgelist"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4, cfg.Enumerate.K)
	assert.Equal(t, 0, cfg.Enumerate.Workers)
	assert.Equal(t, "json", cfg.Enumerate.OutputFormat)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, logging.LevelInfo, cfg.Logging.Level)
}

func TestValidate_InputFormatAliases(t *testing.T) {
	for _, name := range []string{"text", "txt", "tsv", "edges", "csv", "json", "yaml", "yml"} {
		_, err := edgelist.ParseFormat(name)
		require.NoError(t, err, name)

		cfg := DefaultConfig()
		cfg.Enumerate.InputFormat = name
		assert.NoError(t, cfg.Validate(), "config rejects codec format %q", name)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server, cfg.Server)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "cliques.yaml", `
enumerate:
  k: 6
  workers: 3
  sorted: true
  output_format: yaml
server:
  port: 9000
  max_workers: 12
logging:
  level: debug
  json: true
telemetry:
  service_name: cliques-test
  trace_exporter: stdout
  metric_exporter: none
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Enumerate.K)
	assert.Equal(t, 3, cfg.Enumerate.Workers)
	assert.True(t, cfg.Enumerate.Sorted)
	assert.Equal(t, "yaml", cfg.Enumerate.OutputFormat)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, int64(12), cfg.Server.MaxWorkers)
	assert.Equal(t, 1_000_000, cfg.Server.MaxEdges, "unset fields keep defaults")
	assert.Equal(t, logging.LevelDebug, cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
}

func TestLoad_EmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Enumerate.K)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "cliques.toml", `
[enumerate]
k = 5
workers = 2

[server]
port = 8181
rate_limit = 2.5
rate_burst = 5

[logging]
level = "warn"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Enumerate.K)
	assert.Equal(t, 2, cfg.Enumerate.Workers)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.InDelta(t, 2.5, cfg.Server.RateLimit, 1e-9)
	assert.Equal(t, 5, cfg.Server.RateBurst)
	assert.Equal(t, logging.LevelWarn, cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml unknown key", "c.yaml", "enumerate:\n  depth: 3\n"},
		{"yaml bad level", "c.yaml", "logging:\n  level: loud\n"},
		{"toml unknown key", "c.toml", "[server]\nhost = \"x\"\n"},
		{"toml syntax", "c.toml", "[server\n"},
		{"k too large", "c.yaml", "enumerate:\n  k: 5000\n"},
		{"negative workers", "c.yaml", "enumerate:\n  workers: -2\n"},
		{"bad output format", "c.yaml", "enumerate:\n  output_format: csv\n"},
		{"bad exporter", "c.yaml", "telemetry:\n  trace_exporter: zipkin\n"},
		{"port zero", "c.toml", "[server]\nport = 0\n"},
		{"unsupported extension", "c.ini", "k=3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CLIQUES_K", "7")
	t.Setenv("CLIQUES_WORKERS", "5")
	t.Setenv("CLIQUES_SORTED", "true")
	t.Setenv("CLIQUES_PORT", "7070")
	t.Setenv("CLIQUES_MAX_WORKERS", "9")
	t.Setenv("CLIQUES_RATE_LIMIT", "0.5")
	t.Setenv("CLIQUES_LOG_LEVEL", "error")

	path := writeFile(t, "c.yaml", "enumerate:\n  k: 3\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Enumerate.K, "environment wins over file")
	assert.Equal(t, 5, cfg.Enumerate.Workers)
	assert.True(t, cfg.Enumerate.Sorted)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, int64(9), cfg.Server.MaxWorkers)
	assert.InDelta(t, 0.5, cfg.Server.RateLimit, 1e-9)
	assert.Equal(t, logging.LevelError, cfg.Logging.Level)
}

func TestLoad_EnvOverrideErrors(t *testing.T) {
	t.Setenv("CLIQUES_K", "four")
	t.Setenv("CLIQUES_LOG_JSON", "maybe")

	_, err := Load("")
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "CLIQUES_K")
	assert.Contains(t, err.Error(), "CLIQUES_LOG_JSON")
}

func TestLoad_DotEnv(t *testing.T) {
	// Registered through t.Setenv so the variable is restored afterwards;
	// unsetting leaves godotenv free to set it.
	t.Setenv("CLIQUES_PORT", "")
	require.NoError(t, os.Unsetenv("CLIQUES_PORT"))

	envFile := writeFile(t, ".env", "CLIQUES_PORT=6060\n")
	cfg, err := Load("", envFile, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port)
}
