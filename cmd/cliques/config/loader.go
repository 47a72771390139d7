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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianCliques/pkg/logging"
)

// ErrInvalidConfig indicates an unreadable or invalid configuration.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CLIQUES_"

// Load builds a validated Config.
//
// Description:
//
//	Starts from DefaultConfig, overlays the file at path (if path is not
//	empty), loads dotenv from envFiles that exist, then applies CLIQUES_*
//	environment overrides and validates the result.
//
// Inputs:
//   - path: Config file. ".yaml", ".yml", or ".toml". May be empty.
//   - envFiles: Dotenv files to load. Missing files are skipped.
//
// Outputs:
//   - *Config: Validated configuration.
//   - error: Wraps ErrInvalidConfig for parse, override, or validation
//     failures; os errors for an unreadable file.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := loadDotEnv(envFiles); err != nil {
		return nil, err
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// io.EOF means an empty file; the defaults stand.
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("%w: %s: unknown keys %v", ErrInvalidConfig, path, undecoded)
		}
	default:
		return fmt.Errorf("%w: unsupported config extension %q", ErrInvalidConfig, filepath.Ext(path))
	}
	return nil
}

func loadDotEnv(files []string) error {
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("%w: dotenv: %w", ErrInvalidConfig, err)
	}
	return nil
}

// applyEnv overlays CLIQUES_* variables.
func applyEnv(cfg *Config) error {
	var errs []error

	setInt := func(name string, dst *int) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s=%q: not an integer", EnvPrefix, name, v))
				return
			}
			*dst = n
		}
	}
	setBool := func(name string, dst *bool) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s=%q: not a boolean", EnvPrefix, name, v))
				return
			}
			*dst = b
		}
	}
	setString := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	setInt("K", &cfg.Enumerate.K)
	setInt("WORKERS", &cfg.Enumerate.Workers)
	setBool("SORTED", &cfg.Enumerate.Sorted)
	setString("INPUT_FORMAT", &cfg.Enumerate.InputFormat)
	setString("OUTPUT_FORMAT", &cfg.Enumerate.OutputFormat)

	setInt("PORT", &cfg.Server.Port)
	setInt("MAX_EDGES", &cfg.Server.MaxEdges)
	setInt("MAX_REQUEST_WORKERS", &cfg.Server.MaxRequestWorkers)
	setInt("RATE_BURST", &cfg.Server.RateBurst)

	maxWorkers := int(cfg.Server.MaxWorkers)
	setInt("MAX_WORKERS", &maxWorkers)
	cfg.Server.MaxWorkers = int64(maxWorkers)
	if v, ok := os.LookupEnv(EnvPrefix + "RATE_LIMIT"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRATE_LIMIT=%q: not a number", EnvPrefix, v))
		} else {
			cfg.Server.RateLimit = f
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		level, err := logging.ParseLevel(v)
		if err != nil {
			errs = append(errs, err)
		} else {
			cfg.Logging.Level = level
		}
	}
	setBool("LOG_JSON", &cfg.Logging.JSON)
	setString("LOG_DIR", &cfg.Logging.LogDir)

	setString("TRACE_EXPORTER", &cfg.Telemetry.TraceExporter)
	setString("METRIC_EXPORTER", &cfg.Telemetry.MetricExporter)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// wrapValidation flattens validator errors into one ErrInvalidConfig.
func wrapValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s=%v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, ", "))
}
