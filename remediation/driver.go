/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package remediation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"chainguard.dev/remediator/agents/devin"
	"chainguard.dev/remediator/scanners/sonarcloud"
	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Outcome classifies how the handling of one issue ended.
type Outcome string

const (
	OutcomeCompleted        Outcome = "completed"
	OutcomeStopped          Outcome = "stopped"
	OutcomeBlocked          Outcome = "blocked"
	OutcomeTimedOut         Outcome = "timed_out"
	OutcomeDelegationFailed Outcome = "delegation_failed"
	OutcomeMonitorFailed    Outcome = "monitor_failed"
)

// Result records what happened to a single issue.
type Result struct {
	Issue          sonarcloud.Issue
	SessionID      string
	SessionURL     string
	Outcome        Outcome
	PullRequestURL string
}

// Summary lists the results of a run in fetch order.
type Summary struct {
	Results []Result
}

// Count returns how many results ended with outcome o.
func (s *Summary) Count(o Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

// IssueSource lists open issues. *sonarcloud.Client implements it.
type IssueSource interface {
	OpenVulnerabilities(ctx context.Context) ([]sonarcloud.Issue, error)
}

// TaskDelegator hands one issue to the agent. *Delegator implements it.
type TaskDelegator interface {
	Delegate(ctx context.Context, issue sonarcloud.Issue) (*devin.Session, error)
}

// SessionMonitor waits for a session to settle. *devin.Monitor implements it.
type SessionMonitor interface {
	Wait(ctx context.Context, sessionID string) (*devin.SessionStatus, error)
}

// PullRequestFinder resolves the pull request opened from a branch.
type PullRequestFinder interface {
	FindByBranch(ctx context.Context, branch string) (string, error)
}

// Driver runs the fetch, delegate, monitor pipeline.
type Driver struct {
	source      IssueSource
	delegator   TaskDelegator
	monitor     SessionMonitor
	prs         PullRequestFinder
	concurrency int
}

// DriverOption customizes the Driver.
type DriverOption func(*Driver)

// WithPullRequestFinder looks up the pull request of finished sessions that
// did not report one.
func WithPullRequestFinder(f PullRequestFinder) DriverOption {
	return func(d *Driver) { d.prs = f }
}

// WithConcurrency sets how many issues may be in flight at once.
func WithConcurrency(n int) DriverOption {
	return func(d *Driver) { d.concurrency = max(1, n) }
}

// NewDriver wires the three pipeline stages together.
func NewDriver(source IssueSource, delegator TaskDelegator, monitor SessionMonitor, opts ...DriverOption) *Driver {
	d := &Driver{
		source:      source,
		delegator:   delegator,
		monitor:     monitor,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func tracer() trace.Tracer {
	return otel.Tracer("chainguard.dev/remediator/remediation", trace.WithInstrumentationVersion("1.0.0"))
}

// Run fetches all open issues and remediates them. The returned error is
// non-nil only for failures outside the expected per-issue ones; in that case
// the Summary holds the issues finished before the abort.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	ctx, span := tracer().Start(ctx, "remediation.run")
	defer span.End()
	log := clog.FromContext(ctx)

	start := time.Now()
	issues, err := d.source.OpenVulnerabilities(ctx)
	stageDuration.WithLabelValues("fetch").Observe(time.Since(start).Seconds())
	if err != nil {
		var apiErr *sonarcloud.APIError
		if !errors.As(err, &apiErr) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "fetch failed")
			return &Summary{}, fmt.Errorf("fetching issues: %w", err)
		}
		fetchFailures.Inc()
		log.With("status", apiErr.StatusCode).Errorf("Error getting SonarCloud issues: %s", apiErr.Body)
		issues = nil
	}
	span.SetAttributes(attribute.Int("issues", len(issues)))

	results := make([]Result, len(issues))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, issue := range issues {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res, err := d.process(gctx, issue)
			results[i] = res
			return err
		})
	}
	if err = g.Wait(); err == nil {
		err = ctx.Err()
	}

	summary := &Summary{Results: slices.DeleteFunc(results, func(r Result) bool { return r.Outcome == "" })}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "run aborted")
		return summary, err
	}
	return summary, nil
}

// process delegates and monitors one issue. Expected failures are folded into
// the Result; only unexpected ones are returned.
func (d *Driver) process(ctx context.Context, issue sonarcloud.Issue) (Result, error) {
	ctx, span := tracer().Start(ctx, "remediation.issue", trace.WithAttributes(attribute.String("issue.key", issue.Key)))
	defer span.End()

	log := clog.FromContext(ctx).With("issue_key", issue.Key)
	ctx = clog.WithLogger(ctx, log)
	log.Infof("Processing issue: %s", issue.Key)

	res := Result{Issue: issue}
	finish := func(o Outcome) (Result, error) {
		res.Outcome = o
		issuesTotal.WithLabelValues(string(o)).Inc()
		span.SetAttributes(attribute.String("outcome", string(o)))
		return res, nil
	}

	start := time.Now()
	session, err := d.delegator.Delegate(ctx, issue)
	stageDuration.WithLabelValues("delegate").Observe(time.Since(start).Seconds())
	if err != nil {
		var apiErr *devin.APIError
		switch {
		case errors.As(err, &apiErr):
			log.With("status", apiErr.StatusCode).Errorf("Error delegating task to Devin: %s", apiErr.Body)
		case errors.Is(err, ErrInvalidIssue):
			log.Errorf("Skipping issue: %v", err)
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, "delegation failed")
			return res, fmt.Errorf("delegating %s: %w", issue.Key, err)
		}
		return finish(OutcomeDelegationFailed)
	}

	res.SessionID, res.SessionURL = session.ID, session.URL
	span.SetAttributes(attribute.String("session.id", session.ID))
	log = log.With("session_id", session.ID)
	ctx = clog.WithLogger(ctx, log)
	log.With("url", session.URL).Info("Devin session created")

	start = time.Now()
	status, err := d.monitor.Wait(ctx, session.ID)
	stageDuration.WithLabelValues("monitor").Observe(time.Since(start).Seconds())
	if err != nil {
		var apiErr *devin.APIError
		switch {
		case errors.Is(err, devin.ErrBlocked):
			return finish(OutcomeBlocked)
		case errors.Is(err, devin.ErrTimedOut):
			log.Warnf("Stopped monitoring: %v", err)
			return finish(OutcomeTimedOut)
		case errors.As(err, &apiErr):
			log.With("status", apiErr.StatusCode).Errorf("Error monitoring Devin session: %s", apiErr.Body)
			return finish(OutcomeMonitorFailed)
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, "monitoring failed")
			return res, fmt.Errorf("monitoring session %s: %w", session.ID, err)
		}
	}

	res.PullRequestURL = status.PullRequestURL()
	if res.PullRequestURL == "" && d.prs != nil {
		u, err := d.prs.FindByBranch(ctx, BranchName(issue.Key))
		if err != nil {
			log.Warnf("Looking up pull request: %v", err)
		}
		res.PullRequestURL = u
	}
	log.With("pull_request", res.PullRequestURL).Infof("Devin completed the task: %s", status.StatusEnum)

	if status.StatusEnum == devin.StatusStopped {
		return finish(OutcomeStopped)
	}
	return finish(OutcomeCompleted)
}
