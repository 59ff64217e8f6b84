/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package remediation

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

func newMarkdownTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

// Markdown renders the summary as a heading followed by one table row per
// issue, suitable for a CI job summary.
func (s *Summary) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Vulnerability remediation\n\n%d issue(s) processed.\n\n", len(s.Results))
	if len(s.Results) == 0 {
		return sb.String()
	}

	table := newMarkdownTable([]string{"Issue", "Component", "Outcome", "Session", "Pull request"}, &sb)
	for _, r := range s.Results {
		_ = table.Append([]string{
			r.Issue.Key,
			r.Issue.Component,
			string(r.Outcome),
			orDash(r.SessionURL),
			orDash(r.PullRequestURL),
		})
	}
	_ = table.Render()
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
