// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Summary is the data shown after an enumeration run.
type Summary struct {
	Input            string
	K                int
	Vertices         int
	Edges            int
	WorkersRequested int
	WorkersStarted   int
	Counts           map[int]int
	Duration         time.Duration

	// Verified is nil when verification was not requested.
	Verified *bool
}

// RenderSummary returns a boxed, styled summary of an enumeration run.
func RenderSummary(s Summary) string {
	var b strings.Builder

	b.WriteString(Styles.Title.Render("Clique enumeration"))
	b.WriteString("\n")

	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Styles.Label.Render(fmt.Sprintf("%-10s", label)), Styles.Value.Render(value))
	}

	if s.Input != "" {
		row("input", s.Input)
	}
	row("graph", fmt.Sprintf("%d vertices, %d edges", s.Vertices, s.Edges))
	row("k", fmt.Sprintf("%d", s.K))

	workers := fmt.Sprintf("%d/%d", s.WorkersStarted, s.WorkersRequested)
	if s.WorkersStarted < s.WorkersRequested {
		workers = Styles.Warning.Render(workers + " (degraded)")
	}
	row("workers", workers)
	row("duration", s.Duration.Round(time.Microsecond).String())

	if s.Verified != nil {
		if *s.Verified {
			row("verified", Styles.Success.Render("ok"))
		} else {
			row("verified", Styles.Error.Render("FAILED"))
		}
	}

	sizes := make([]int, 0, len(s.Counts))
	total := 0
	for size, n := range s.Counts {
		sizes = append(sizes, size)
		total += n
	}
	slices.Sort(sizes)

	if len(sizes) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s\n", Styles.Muted.Render(fmt.Sprintf("%6s  %12s", "size", "cliques")))
		for _, size := range sizes {
			fmt.Fprintf(&b, "%6d  %12d\n", size, s.Counts[size])
		}
		fmt.Fprintf(&b, "%s\n", Styles.Value.Render(fmt.Sprintf("%6s  %12d", "total", total)))
	}

	return Styles.Box.Render(strings.TrimRight(b.String(), "\n"))
}
