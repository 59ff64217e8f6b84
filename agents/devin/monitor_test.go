/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package devin_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chainguard.dev/remediator/agents/devin"
)

// scriptedGetter answers successive polls from a fixed script. Once the
// script is exhausted the last entry repeats.
type scriptedGetter struct {
	mu      sync.Mutex
	script  []devin.Status
	errAt   int
	err     error
	polls   int
	pollTms []time.Time
}

func (g *scriptedGetter) GetSession(_ context.Context, id string) (*devin.SessionStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.polls++
	g.pollTms = append(g.pollTms, time.Now())
	if g.err != nil && g.polls == g.errAt {
		return nil, g.err
	}
	s := g.script[min(g.polls, len(g.script))-1]
	return &devin.SessionStatus{SessionID: id, StatusEnum: s}, nil
}

func fastMonitor(g devin.StatusGetter, opts ...devin.MonitorOption) *devin.Monitor {
	return devin.NewMonitor(g, append([]devin.MonitorOption{devin.WithPollInterval(time.Millisecond)}, opts...)...)
}

func TestWaitRunningThenCompleted(t *testing.T) {
	t.Parallel()
	g := &scriptedGetter{script: []devin.Status{devin.StatusRunning, devin.StatusCompleted}}
	st, err := fastMonitor(g).Wait(context.Background(), "s-1")
	if err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	if st == nil || st.StatusEnum != devin.StatusCompleted {
		t.Fatalf("Wait() status = %+v, want completed", st)
	}
	if g.polls != 2 {
		t.Errorf("polls = %d, want 2", g.polls)
	}
}

func TestWaitTerminatesOnlyOnTerminalStatus(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		script    []devin.Status
		wantPolls int
		wantErr   error
	}{{
		name:      "completed immediately",
		script:    []devin.Status{devin.StatusCompleted},
		wantPolls: 1,
	}, {
		name:      "stopped after working",
		script:    []devin.Status{devin.StatusWorking, devin.StatusWorking, devin.StatusStopped},
		wantPolls: 3,
	}, {
		name:      "blocked",
		script:    []devin.Status{devin.StatusBlocked},
		wantPolls: 1,
		wantErr:   devin.ErrBlocked,
	}, {
		name:      "unknown statuses keep polling",
		script:    []devin.Status{"suspended", "expired", "", devin.StatusRunning, devin.StatusBlocked},
		wantPolls: 5,
		wantErr:   devin.ErrBlocked,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := &scriptedGetter{script: tt.script}
			st, err := fastMonitor(g).Wait(context.Background(), "s")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Wait() err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && st != nil {
				t.Errorf("Wait() status = %+v, want nil", st)
			}
			if g.polls != tt.wantPolls {
				t.Errorf("polls = %d, want %d", g.polls, tt.wantPolls)
			}
		})
	}
}

func TestWaitTransportFailureIsTerminal(t *testing.T) {
	t.Parallel()
	apiErr := &devin.APIError{Op: "get session", StatusCode: 502, Body: "bad gateway"}
	g := &scriptedGetter{script: []devin.Status{devin.StatusRunning}, errAt: 2, err: apiErr}
	st, err := fastMonitor(g).Wait(context.Background(), "s")
	var got *devin.APIError
	if !errors.As(err, &got) || got.StatusCode != 502 {
		t.Fatalf("Wait() err = %v, want *APIError", err)
	}
	if st != nil {
		t.Errorf("Wait() status = %+v, want nil", st)
	}
	if g.polls != 2 {
		t.Errorf("polls = %d, want 2", g.polls)
	}
}

func TestWaitFixedInterval(t *testing.T) {
	t.Parallel()
	const interval = 20 * time.Millisecond
	g := &scriptedGetter{script: []devin.Status{devin.StatusRunning, devin.StatusRunning, devin.StatusCompleted}}
	if _, err := devin.NewMonitor(g, devin.WithPollInterval(interval)).Wait(context.Background(), "s"); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	for i := 1; i < len(g.pollTms); i++ {
		if gap := g.pollTms[i].Sub(g.pollTms[i-1]); gap < interval {
			t.Errorf("gap before poll %d = %v, want >= %v", i+1, gap, interval)
		}
	}
}

func TestWaitMaxPolls(t *testing.T) {
	t.Parallel()
	g := &scriptedGetter{script: []devin.Status{devin.StatusRunning}}
	_, err := fastMonitor(g, devin.WithMaxPolls(4)).Wait(context.Background(), "s")
	if !errors.Is(err, devin.ErrTimedOut) {
		t.Fatalf("Wait() err = %v, want ErrTimedOut", err)
	}
	if g.polls != 4 {
		t.Errorf("polls = %d, want 4", g.polls)
	}
}

func TestWaitTimeout(t *testing.T) {
	t.Parallel()
	g := &scriptedGetter{script: []devin.Status{devin.StatusWorking}}
	_, err := fastMonitor(g, devin.WithTimeout(20*time.Millisecond)).Wait(context.Background(), "s")
	if !errors.Is(err, devin.ErrTimedOut) {
		t.Fatalf("Wait() err = %v, want ErrTimedOut", err)
	}
	if errors.Is(err, devin.ErrBlocked) {
		t.Error("timeout must be distinct from blocked")
	}
}

func TestWaitContextCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	g := &scriptedGetter{script: []devin.Status{devin.StatusRunning}}
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := devin.NewMonitor(g, devin.WithPollInterval(time.Hour)).Wait(ctx, "s")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait() err = %v, want context.Canceled", err)
	}
}
