/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry re-attempts transport-level failures of remote calls with
// capped exponential backoff.
package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config controls how many times, and how patiently, an operation is retried.
type Config struct {
	// MaxRetries is the number of additional attempts after the first.
	// Zero disables retrying.
	MaxRetries int
	// BaseBackoff is the delay before the first retry; it doubles per attempt.
	BaseBackoff time.Duration
	// MaxBackoff caps the doubled delay.
	MaxBackoff time.Duration
	// MaxJitter bounds the random delay added to each backoff.
	MaxJitter time.Duration
}

// None is a Config that makes exactly one attempt.
func None() Config {
	return Config{}
}

// Default returns a Config with the given retry count and conservative delays.
func Default(maxRetries int) Config {
	return Config{
		MaxRetries:  maxRetries,
		BaseBackoff: time.Second,
		MaxBackoff:  30 * time.Second,
		MaxJitter:   250 * time.Millisecond,
	}
}

// Validate rejects negative settings.
func (c Config) Validate() error {
	switch {
	case c.MaxRetries < 0:
		return errors.New("max retries cannot be negative")
	case c.BaseBackoff < 0:
		return errors.New("base backoff cannot be negative")
	case c.MaxBackoff < 0:
		return errors.New("max backoff cannot be negative")
	case c.MaxJitter < 0:
		return errors.New("max jitter cannot be negative")
	}
	return nil
}

// IsTransient reports whether err looks like a network failure that a fresh
// attempt might not hit. Context cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Do calls fn until it succeeds, returns an error rejected by retryable, or
// the retry budget in cfg is spent.
func Do[T any](ctx context.Context, cfg Config, operation string, retryable func(error) bool, fn func() (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	for attempt := 0; ; attempt++ {
		result, err = fn()
		if err == nil || !retryable(err) {
			return result, err
		}
		if attempt >= cfg.MaxRetries {
			break
		}

		delay := min(cfg.BaseBackoff<<attempt, cfg.MaxBackoff) + jitter(cfg.MaxJitter)
		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("max_retries", cfg.MaxRetries).
			With("backoff", delay).
			With("error", err.Error()).
			Warn("Transient failure, retrying")

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(delay):
		}
	}
	if cfg.MaxRetries == 0 {
		return result, err
	}
	return result, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxRetries, err)
}

func jitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(limit)))
	if err != nil {
		return 0
	}
	return time.Duration(n.Int64())
}
