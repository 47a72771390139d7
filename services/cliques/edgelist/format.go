// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package edgelist reads edge lists and writes clique buckets.
//
// Input formats:
//
//	text  whitespace separated "u v" per line; lines starting with '#' or
//	      '%' are comments (SNAP and Matrix Market edge files). Extra
//	      columns such as weights are ignored.
//	csv   "u,v" per record with an optional header row.
//	json  [[u,v], ...] or {"edges": [[u,v], ...]}
//	yaml  a sequence of [u, v] pairs, or a mapping with an "edges" key.
//
// Output formats are json and yaml.
package edgelist

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format names an edge list or result encoding.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat returns the Format for a name. "txt", "tsv", and "yml" are
// accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "txt", "tsv", "edges":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath guesses a format from a file extension, falling back to
// FormatText.
func FormatFromPath(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if f, err := ParseFormat(ext); err == nil {
		return f
	}
	return FormatText
}
