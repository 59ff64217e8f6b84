/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package sonarcloud

import (
	"net/http"
	"strings"

	"chainguard.dev/remediator/agents/retry"
)

const (
	// DefaultBaseURL is the public SonarCloud web API root.
	DefaultBaseURL = "https://sonarcloud.io/api"

	// DefaultPageSize is the number of issues requested per page.
	DefaultPageSize = 100

	// MaxPageSize is the largest page SonarCloud will serve.
	MaxPageSize = 500

	// MaxResults is the deepest SonarCloud lets a search paginate.
	MaxResults = 10000
)

// Option customizes the Client.
type Option func(*Client)

// WithHTTPClient sets the client used for requests. It is expected to
// authenticate them.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the API root, e.g. for a self-hosted SonarQube.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithPageSize sets the page size, clamped to [1, MaxPageSize].
func WithPageSize(n int) Option {
	return func(c *Client) { c.pageSize = max(1, min(n, MaxPageSize)) }
}

// WithRetry re-attempts transport failures of each page request.
func WithRetry(cfg retry.Config) Option {
	return func(c *Client) { c.retry = cfg }
}
