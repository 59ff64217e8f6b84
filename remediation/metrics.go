/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package remediation

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	issuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remediation_issues_total",
			Help: "Issues processed, by outcome",
		},
		[]string{"outcome"},
	)

	fetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "remediation_fetch_failures_total",
			Help: "Issue queries rejected by the scan service",
		},
	)

	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "remediation_stage_duration_seconds",
			Help:    "Wall time spent per pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 10),
		},
		[]string{"stage"},
	)
)

// PushMetrics sends everything in the default registry to a Prometheus
// Pushgateway under the given job name.
func PushMetrics(ctx context.Context, gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).Gatherer(prometheus.DefaultGatherer).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
