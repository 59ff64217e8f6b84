/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package retry_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"chainguard.dev/remediator/agents/retry"
)

func fastConfig(n int) retry.Config {
	return retry.Config{
		MaxRetries:  n,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  5 * time.Millisecond,
		MaxJitter:   time.Millisecond,
	}
}

func always(error) bool { return true }

func TestDoSucceedsFirstTry(t *testing.T) {
	t.Parallel()
	calls := 0
	got, err := retry.Do(context.Background(), fastConfig(3), "op", always, func() (int, error) {
		calls++
		return 7, nil
	})
	if err != nil || got != 7 || calls != 1 {
		t.Fatalf("Do() = (%d, %v) after %d calls, want (7, nil) after 1", got, err, calls)
	}
}

func TestDoRecovers(t *testing.T) {
	t.Parallel()
	calls := 0
	got, err := retry.Do(context.Background(), fastConfig(3), "op", always, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("flaky")
		}
		return "ok", nil
	})
	if err != nil || got != "ok" || calls != 3 {
		t.Fatalf("Do() = (%q, %v) after %d calls, want (ok, nil) after 3", got, err, calls)
	}
}

func TestDoExhausted(t *testing.T) {
	t.Parallel()
	base := errors.New("down")
	calls := 0
	_, err := retry.Do(context.Background(), fastConfig(2), "fetch", always, func() (int, error) {
		calls++
		return 0, base
	})
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !errors.Is(err, base) {
		t.Errorf("err = %v, want wrapping %v", err, base)
	}
	if !strings.HasPrefix(err.Error(), "fetch failed after 2 retries") {
		t.Errorf("err = %q, want operation prefix", err)
	}
}

func TestDoZeroRetriesIsSingleAttempt(t *testing.T) {
	t.Parallel()
	base := errors.New("down")
	calls := 0
	_, err := retry.Do(context.Background(), retry.None(), "op", always, func() (int, error) {
		calls++
		return 0, base
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if err != base {
		t.Errorf("err = %v, want unwrapped %v", err, base)
	}
}

func TestDoNotRetryable(t *testing.T) {
	t.Parallel()
	calls := 0
	_, err := retry.Do(context.Background(), fastConfig(5), "op", func(error) bool { return false }, func() (int, error) {
		calls++
		return 0, errors.New("permanent")
	})
	if err == nil || calls != 1 {
		t.Fatalf("Do() err = %v after %d calls, want error after 1", err, calls)
	}
}

func TestDoContextCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cfg := retry.Config{MaxRetries: 5, BaseBackoff: time.Hour, MaxBackoff: time.Hour}
	_, err := retry.Do(ctx, cfg, "op", always, func() (int, error) {
		cancel()
		return 0, errors.New("flaky")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		cfg     retry.Config
		wantErr bool
	}{
		{"zero", retry.None(), false},
		{"default", retry.Default(3), false},
		{"negative retries", retry.Config{MaxRetries: -1}, true},
		{"negative base", retry.Config{BaseBackoff: -1}, true},
		{"negative max", retry.Config{MaxBackoff: -1}, true},
		{"negative jitter", retry.Config{MaxJitter: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"canceled", fmt.Errorf("wrapped: %w", context.Canceled), false},
		{"deadline", context.DeadlineExceeded, false},
		{"unexpected eof", fmt.Errorf("read: %w", io.ErrUnexpectedEOF), true},
		{"net op error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retry.IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
