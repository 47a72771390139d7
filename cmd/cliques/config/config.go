// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads settings for the cliques CLI and server.
//
// Sources, lowest precedence first:
//
//  1. DefaultConfig()
//  2. A YAML (.yaml, .yml) or TOML (.toml) file
//  3. A .env file in the working directory (never overrides variables
//     already set in the environment)
//  4. CLIQUES_* environment variables
//
// Command-line flags are applied by the caller on top of the result.
package config

import (
	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/AleutianCliques/pkg/logging"
	"github.com/AleutianAI/AleutianCliques/services/cliques/enumerate"
	"github.com/AleutianAI/AleutianCliques/services/cliques/telemetry"
)

// Config is the full settings tree.
type Config struct {
	Enumerate EnumerateConfig  `yaml:"enumerate" toml:"enumerate"`
	Server    ServerConfig     `yaml:"server" toml:"server"`
	Logging   logging.Config   `yaml:"logging" toml:"logging"`
	Telemetry telemetry.Config `yaml:"telemetry" toml:"telemetry"`
}

// EnumerateConfig holds defaults for enumeration runs.
type EnumerateConfig struct {
	// K is the default maximum clique size.
	K int `yaml:"k" toml:"k" validate:"gte=0,lte=4096"`

	// Workers is the default worker count; 0 means one per CPU.
	Workers int `yaml:"workers" toml:"workers" validate:"gte=0,lte=4096"`

	// Sorted orders each bucket in the output.
	Sorted bool `yaml:"sorted" toml:"sorted"`

	// InputFormat forces the edge list format; empty means detect from
	// the file extension.
	InputFormat string `yaml:"input_format" toml:"input_format" validate:"omitempty,oneof=text txt tsv edges csv json yaml yml"`

	// OutputFormat is the result encoding.
	OutputFormat string `yaml:"output_format" toml:"output_format" validate:"oneof=json yaml yml"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the listen port.
	Port int `yaml:"port" toml:"port" validate:"gte=1,lte=65535"`

	// MaxWorkers is the worker budget shared by all in-flight requests.
	MaxWorkers int64 `yaml:"max_workers" toml:"max_workers" validate:"gte=1"`

	// MaxRequestWorkers caps the workers a single request may ask for.
	MaxRequestWorkers int `yaml:"max_request_workers" toml:"max_request_workers" validate:"gte=1"`

	// MaxEdges caps the edges accepted in one request.
	MaxEdges int `yaml:"max_edges" toml:"max_edges" validate:"gte=1"`

	// RateLimit is the sustained request rate per second across all clients.
	RateLimit float64 `yaml:"rate_limit" toml:"rate_limit" validate:"gt=0"`

	// RateBurst is the token bucket size.
	RateBurst int `yaml:"rate_burst" toml:"rate_burst" validate:"gte=1"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	tel := telemetry.DefaultConfig()

	return Config{
		Enumerate: EnumerateConfig{
			K:            4,
			Workers:      enumerate.Auto,
			OutputFormat: "json",
		},
		Server: ServerConfig{
			Port:              8080,
			MaxWorkers:        64,
			MaxRequestWorkers: 16,
			MaxEdges:          1_000_000,
			RateLimit:         10,
			RateBurst:         20,
		},
		Logging: logging.Config{
			Level:   logging.LevelInfo,
			Service: "cliques",
		},
		Telemetry: tel,
	}
}

var validate = validator.New()

// Validate checks every field constraint.
//
// Outputs:
//   - error: Wraps ErrInvalidConfig with the failing fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return wrapValidation(err)
	}
	return nil
}
