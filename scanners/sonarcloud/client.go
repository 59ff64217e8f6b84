/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package sonarcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"chainguard.dev/remediator/agents/retry"
	"github.com/chainguard-dev/clog"
)

// Client queries one SonarCloud project.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	organization string
	projectKey   string
	pageSize     int
	retry        retry.Config
}

// New returns a Client for the given organization and project key.
func New(organization, projectKey string, opts ...Option) *Client {
	c := &Client{
		httpClient:   http.DefaultClient,
		baseURL:      DefaultBaseURL,
		organization: organization,
		projectKey:   projectKey,
		pageSize:     DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OpenVulnerabilities returns every open vulnerability of the project in the
// order SonarCloud reports them. An empty result is not an error.
func (c *Client) OpenVulnerabilities(ctx context.Context) ([]Issue, error) {
	log := clog.FromContext(ctx)

	var issues []Issue
	for page := 1; ; page++ {
		resp, err := retry.Do(ctx, c.retry, "sonarcloud.issues.search", retry.IsTransient, func() (*searchResponse, error) {
			return c.search(ctx, page)
		})
		if err != nil {
			return nil, err
		}
		issues = append(issues, resp.Issues...)

		p := resp.Paging
		log.With("page", page).With("issues", len(resp.Issues)).With("total", p.Total).Debug("Fetched issue page")
		if len(resp.Issues) == 0 || p.PageIndex*p.PageSize >= p.Total {
			break
		}
		// SonarCloud rejects any page reaching past the MaxResults-th issue.
		if (page+1)*c.pageSize > MaxResults {
			break
		}
	}

	log.Infof("Found %d issues", len(issues))
	return issues, nil
}

func (c *Client) search(ctx context.Context, page int) (*searchResponse, error) {
	q := url.Values{}
	q.Set("organization", c.organization)
	q.Set("projectKeys", c.projectKey)
	q.Set("types", "VULNERABILITY")
	q.Set("statuses", "OPEN")
	q.Set("p", strconv.Itoa(page))
	q.Set("ps", strconv.Itoa(c.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/issues/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching issues: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding issues page %d: %w", page, err)
	}
	return &out, nil
}
