/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package prlookup finds the pull request an agent opened from a branch.
// It only reads repository state.
package prlookup

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
)

// Finder searches one repository's pull requests.
type Finder struct {
	client *github.Client
	owner  string
	repo   string
}

// New returns a Finder for repository, given as "owner/name".
func New(client *github.Client, repository string) (*Finder, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, fmt.Errorf("repository %q is not of the form owner/name", repository)
	}
	return &Finder{client: client, owner: owner, repo: repo}, nil
}

// FindByBranch returns the HTML URL of the most recent pull request whose
// head is branch, or "" when there is none.
func (f *Finder) FindByBranch(ctx context.Context, branch string) (string, error) {
	prs, _, err := f.client.PullRequests.List(ctx, f.owner, f.repo, &github.PullRequestListOptions{
		State:       "all",
		Head:        f.owner + ":" + branch,
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return "", fmt.Errorf("listing pull requests for %s: %w", branch, err)
	}
	if len(prs) == 0 {
		clog.FromContext(ctx).With("branch", branch).Info("No pull request found for branch")
		return "", nil
	}
	return prs[0].GetHTMLURL(), nil
}
