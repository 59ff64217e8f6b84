/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package devin

import (
	"net/http"
	"strings"
	"time"

	"chainguard.dev/remediator/agents/retry"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Devin v1 API root.
	DefaultBaseURL = "https://api.devin.ai/v1"

	// DefaultPollInterval is the delay between two status reads.
	DefaultPollInterval = 5 * time.Second
)

// ClientOption customizes the Client.
type ClientOption func(*Client)

// WithHTTPClient sets the client used for requests. It is expected to
// authenticate them.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the API root.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithRetry re-attempts transport failures of each request.
func WithRetry(cfg retry.Config) ClientOption {
	return func(c *Client) { c.retry = cfg }
}

// WithRateLimit caps outgoing requests at rps per second, shared by every
// caller of the Client. A non-positive rps removes the limit.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// MonitorOption customizes the Monitor.
type MonitorOption func(*Monitor)

// WithPollInterval sets the fixed delay between status reads.
func WithPollInterval(d time.Duration) MonitorOption {
	return func(m *Monitor) { m.interval = d }
}

// WithMaxPolls bounds the number of status reads. Zero means unbounded.
func WithMaxPolls(n int) MonitorOption {
	return func(m *Monitor) { m.maxPolls = n }
}

// WithTimeout bounds the total wait. Zero means unbounded.
func WithTimeout(d time.Duration) MonitorOption {
	return func(m *Monitor) { m.timeout = d }
}
