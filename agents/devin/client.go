/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package devin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"chainguard.dev/remediator/agents/retry"
	"golang.org/x/time/rate"
)

// Client is a thin wrapper over the session endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retry      retry.Config
	limiter    *rate.Limiter
}

// NewClient returns a Client for the Devin API.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateSession submits a task and returns the created session.
func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	s, err := call[Session](ctx, c, "create session", http.MethodPost, "/sessions", body)
	if err != nil {
		return nil, err
	}
	if s.ID == "" {
		return nil, ErrMissingSessionID
	}
	return s, nil
}

// GetSession reads the current status of a session.
func (c *Client) GetSession(ctx context.Context, id string) (*SessionStatus, error) {
	return call[SessionStatus](ctx, c, "get session", http.MethodGet, "/session/"+url.PathEscape(id), nil)
}

// call issues one request, retried per the client's config. Every attempt
// decodes into a fresh T.
func call[T any](ctx context.Context, c *Client, op, method, path string, body []byte) (*T, error) {
	return retry.Do(ctx, c.retry, "devin."+op, retry.IsTransient, func() (*T, error) {
		var out T
		if err := c.roundTrip(ctx, op, method, path, body, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, body []byte, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: waiting for rate limiter: %w", op, err)
		}
	}
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{Op: op, StatusCode: resp.StatusCode, Body: string(b)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	return nil
}
