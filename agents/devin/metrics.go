/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package devin

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sessionPolls = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "devin_session_polls_total",
		Help: "Status reads issued while monitoring sessions, by observed status",
	},
	[]string{"status"},
)

// statusLabel keeps the status label set closed; unknown values from the
// service are counted as "other".
func statusLabel(s Status) string {
	switch s {
	case StatusRunning, StatusWorking, StatusBlocked, StatusCompleted, StatusStopped:
		return string(s)
	}
	return "other"
}
