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
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianCliques/services/cliques/enumerate"
)

// Document is the serialized form of an enumeration result.
type Document struct {
	RunID            string            `json:"run_id" yaml:"run_id"`
	K                int               `json:"k" yaml:"k"`
	Vertices         int               `json:"vertices" yaml:"vertices"`
	Edges            int               `json:"edges" yaml:"edges"`
	WorkersRequested int               `json:"workers_requested" yaml:"workers_requested"`
	WorkersStarted   int               `json:"workers_started" yaml:"workers_started"`
	Counts           map[int]int       `json:"counts" yaml:"counts"`
	Buckets          enumerate.Buckets `json:"buckets" yaml:"-"`
}

// NewDocument converts a result for encoding.
func NewDocument(res *enumerate.Result) Document {
	return Document{
		RunID:            res.RunID,
		K:                res.K,
		Vertices:         res.Vertices,
		Edges:            res.Edges,
		WorkersRequested: res.WorkersRequested,
		WorkersStarted:   res.WorkersStarted,
		Counts:           res.Buckets.Counts(),
		Buckets:          res.Buckets,
	}
}

// Encode writes doc in the given output format. Only FormatJSON and
// FormatYAML are supported.
func Encode(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(yamlDocument(doc)); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q is not an output format", ErrUnknownFormat, f)
	}
}

// yamlDocument builds the YAML tree by hand so that each clique is written
// in flow style ("[0, 1, 2]") instead of one id per line.
func yamlDocument(doc Document) *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		root.Content = append(root.Content, scalar(key, "!!str"), value)
	}

	add("run_id", scalar(doc.RunID, "!!str"))
	add("k", intNode(doc.K))
	add("vertices", intNode(doc.Vertices))
	add("edges", intNode(doc.Edges))
	add("workers_requested", intNode(doc.WorkersRequested))
	add("workers_started", intNode(doc.WorkersStarted))

	counts := &yaml.Node{Kind: yaml.MappingNode}
	buckets := &yaml.Node{Kind: yaml.MappingNode}
	for _, size := range doc.Buckets.Sizes() {
		counts.Content = append(counts.Content, intNode(size), intNode(doc.Counts[size]))

		list := &yaml.Node{Kind: yaml.SequenceNode}
		for _, c := range doc.Buckets[size] {
			clique := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
			for _, v := range c {
				clique.Content = append(clique.Content, intNode(int(v)))
			}
			list.Content = append(list.Content, clique)
		}
		if len(list.Content) == 0 {
			list.Style = yaml.FlowStyle
		}
		buckets.Content = append(buckets.Content, intNode(size), list)
	}
	if len(counts.Content) == 0 {
		counts.Style = yaml.FlowStyle
		buckets.Style = yaml.FlowStyle
	}
	add("counts", counts)
	add("buckets", buckets)

	return root
}

func scalar(value, tag string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func intNode(n int) *yaml.Node {
	return scalar(strconv.Itoa(n), "!!int")
}
