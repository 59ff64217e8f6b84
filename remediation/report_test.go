/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package remediation

import (
	"strings"
	"testing"

	"chainguard.dev/remediator/scanners/sonarcloud"
)

func TestSummaryMarkdown(t *testing.T) {
	s := &Summary{Results: []Result{{
		Issue:          sonarcloud.Issue{Key: "AX-1", Component: "shop:routes/login.ts"},
		SessionURL:     "https://app.devin.ai/sessions/1",
		Outcome:        OutcomeCompleted,
		PullRequestURL: "https://github.com/acme/shop/pull/3",
	}, {
		Issue:   sonarcloud.Issue{Key: "AX-2", Component: "shop:routes/redirect.ts"},
		Outcome: OutcomeDelegationFailed,
	}}}

	got := s.Markdown()
	for _, want := range []string{
		"2 issue(s) processed.",
		"Issue", "Outcome", "Pull request",
		"AX-1", "shop:routes/login.ts", "completed", "https://github.com/acme/shop/pull/3",
		"AX-2", "delegation_failed",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Markdown() missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "AX-1") > strings.Index(got, "AX-2") {
		t.Error("rows are not in result order")
	}
}

func TestSummaryMarkdownEmpty(t *testing.T) {
	got := (&Summary{}).Markdown()
	if !strings.Contains(got, "0 issue(s) processed.") || strings.Contains(got, "|") {
		t.Errorf("Markdown() = %q", got)
	}
}
