/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package devin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
)

// StatusGetter reads a session's status. *Client implements it.
type StatusGetter interface {
	GetSession(ctx context.Context, id string) (*SessionStatus, error)
}

// Monitor follows a session until it reaches a terminal status.
type Monitor struct {
	getter   StatusGetter
	interval time.Duration
	maxPolls int
	timeout  time.Duration
}

// NewMonitor returns a Monitor that reads status through getter.
func NewMonitor(getter StatusGetter, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		getter:   getter,
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Wait polls the session until it settles and returns the last status read.
//
// A blocked session yields ErrBlocked, an exhausted bound ErrTimedOut, and a
// non-success HTTP status the *APIError from the read. Each poll is a fresh
// read; nothing is cached between polls.
func (m *Monitor) Wait(ctx context.Context, sessionID string) (*SessionStatus, error) {
	log := clog.FromContext(ctx).With("session_id", sessionID)
	start := time.Now()

	for polls := 1; ; polls++ {
		st, err := m.getter.GetSession(ctx, sessionID)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				sessionPolls.WithLabelValues("error").Inc()
			}
			return nil, err
		}
		sessionPolls.WithLabelValues(statusLabel(st.StatusEnum)).Inc()

		if st.StatusEnum.Terminal() {
			if st.StatusEnum == StatusBlocked {
				log.With("polls", polls).Warn("Session is blocked, please check manually")
				return nil, ErrBlocked
			}
			log.With("status", st.StatusEnum).With("polls", polls).Info("Session finished")
			return st, nil
		}

		if m.maxPolls > 0 && polls >= m.maxPolls {
			return nil, fmt.Errorf("%w: %d polls, last status %q", ErrTimedOut, polls, st.StatusEnum)
		}
		if m.timeout > 0 && time.Since(start) >= m.timeout {
			return nil, fmt.Errorf("%w: %s elapsed, last status %q", ErrTimedOut, m.timeout, st.StatusEnum)
		}

		log.With("status", st.StatusEnum).With("polls", polls).Debug("Session still running")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.interval):
		}
	}
}
