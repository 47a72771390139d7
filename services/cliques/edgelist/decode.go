// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package edgelist

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianCliques/services/cliques/graph"
)

// maxLineBytes bounds a single text line.
const maxLineBytes = 1 << 20

// Decode reads an edge list in the given format.
//
// Description:
//
//	Parses vertex pairs without validating them. Negative ids, duplicates,
//	and self-loops are passed through; the engine decides what to do with
//	them.
//
// Inputs:
//   - r: Source of the edge list.
//   - f: Input format.
//
// Outputs:
//   - []graph.Edge: Edges in input order.
//   - error: ErrUnknownFormat, or ErrMalformedEdge with the offending
//     line or record number.
func Decode(r io.Reader, f Format) ([]graph.Edge, error) {
	switch f {
	case FormatText:
		return decodeText(r)
	case FormatCSV:
		return decodeCSV(r)
	case FormatJSON:
		return decodeJSON(r)
	case FormatYAML:
		return decodeYAML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

func decodeText(r io.Reader) ([]graph.Edge, error) {
	var edges []graph.Edge

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' || text[0] == '%' {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: expected two ids, got %q", ErrMalformedEdge, line, text)
		}
		e, err := parsePair(fields[0], fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		edges = append(edges, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading edge list: %w", err)
	}
	return edges, nil
}

func decodeCSV(r io.Reader) ([]graph.Edge, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var edges []graph.Edge
	for record := 1; ; record++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedEdge, err)
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: record %d: expected two ids", ErrMalformedEdge, record)
		}

		if record == 1 && isHeader(fields[0], fields[1]) {
			continue
		}
		e, err := parsePair(fields[0], fields[1])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", record, err)
		}
		edges = append(edges, e)
	}
	return edges, nil
}

// isHeader reports whether a first CSV record names its columns. A field
// that starts like a number is data, even if it fails to parse.
func isHeader(a, b string) bool {
	return !startsNumeric(a) && !startsNumeric(b)
}

func startsNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	c := s[0]
	return c == '-' || c == '+' || (c >= '0' && c <= '9')
}

// edgeDocument is the object form of a JSON or YAML edge list.
type edgeDocument struct {
	Edges [][]int64 `json:"edges" yaml:"edges"`
}

func decodeJSON(r io.Reader) ([]graph.Edge, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading edge list: %w", err)
	}

	var pairs [][]int64
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var doc edgeDocument
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedEdge, err)
		}
		pairs = doc.Edges
	} else if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedEdge, err)
		}
	}
	return fromPairs(pairs)
}

func decodeYAML(r io.Reader) ([]graph.Edge, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedEdge, err)
	}

	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	var pairs [][]int64
	switch node.Kind {
	case yaml.MappingNode:
		var doc edgeDocument
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedEdge, err)
		}
		pairs = doc.Edges
	case yaml.SequenceNode:
		if err := node.Decode(&pairs); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedEdge, err)
		}
	default:
		return nil, fmt.Errorf("%w: expected a sequence or an edges mapping", ErrMalformedEdge)
	}
	return fromPairs(pairs)
}

func fromPairs(pairs [][]int64) ([]graph.Edge, error) {
	edges := make([]graph.Edge, 0, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("%w: entry %d has %d ids", ErrMalformedEdge, i, len(p))
		}
		edges = append(edges, graph.E(graph.Vertex(p[0]), graph.Vertex(p[1])))
	}
	return edges, nil
}

func parsePair(a, b string) (graph.Edge, error) {
	u, err := strconv.ParseInt(a, 10, strconv.IntSize)
	if err != nil {
		return graph.Edge{}, fmt.Errorf("%w: %q is not an integer id", ErrMalformedEdge, a)
	}
	v, err := strconv.ParseInt(b, 10, strconv.IntSize)
	if err != nil {
		return graph.Edge{}, fmt.Errorf("%w: %q is not an integer id", ErrMalformedEdge, b)
	}
	return graph.E(graph.Vertex(u), graph.Vertex(v)), nil
}
