/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs one remediation pass: it lists the open SonarCloud
// vulnerabilities of a project and hands each one to a Devin session that is
// expected to open a fixing pull request.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chainguard.dev/remediator/agents/devin"
	"chainguard.dev/remediator/agents/retry"
	"chainguard.dev/remediator/prlookup"
	"chainguard.dev/remediator/remediation"
	"chainguard.dev/remediator/scanners/sonarcloud"
	"github.com/chainguard-dev/clog"
	_ "github.com/chainguard-dev/clog/gcp/init"
	"github.com/google/go-github/v84/github"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		clog.FatalContextf(ctx, "Error occurred: %v", err)
	}
}

func run(ctx context.Context) error {
	log := clog.FromContext(ctx)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := loadConfig(ctx, nil)
	if err != nil {
		return err
	}
	for _, name := range cfg.missingCredentials() {
		log.Warnf("%s is not set", name)
	}

	summary, runErr := newDriver(ctx, cfg).Run(ctx)
	report(ctx, cfg, summary)

	if cfg.PushgatewayURL != "" {
		if err := remediation.PushMetrics(ctx, cfg.PushgatewayURL, "remediator"); err != nil {
			log.Warnf("Pushing metrics: %v", err)
		}
	}
	return runErr
}

// bearerClient returns an HTTP client that sends token as a bearer
// credential on every request.
func bearerClient(token string, cfg *config) *http.Client {
	return &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   http.DefaultTransport,
		},
	}
}

func newDriver(ctx context.Context, cfg *config) *remediation.Driver {
	rc := retry.None()
	if cfg.HTTPRetries > 0 {
		rc = retry.Default(cfg.HTTPRetries)
	}

	source := sonarcloud.New(cfg.SonarOrg, cfg.SonarProjectKey,
		sonarcloud.WithHTTPClient(bearerClient(cfg.SonarToken, cfg)),
		sonarcloud.WithBaseURL(cfg.SonarAPIBase),
		sonarcloud.WithPageSize(cfg.SonarPageSize),
		sonarcloud.WithRetry(rc),
	)

	dc := devin.NewClient(
		devin.WithHTTPClient(bearerClient(cfg.DevinKey, cfg)),
		devin.WithBaseURL(cfg.DevinAPIBase),
		devin.WithRetry(rc),
		devin.WithRateLimit(cfg.DevinRPS),
	)

	opts := []remediation.DriverOption{remediation.WithConcurrency(cfg.MaxConcurrent)}
	if cfg.GitHubToken != "" {
		gh := github.NewClient(&http.Client{Timeout: cfg.HTTPTimeout}).WithAuthToken(cfg.GitHubToken)
		if finder, err := prlookup.New(gh, cfg.Repository); err != nil {
			clog.FromContext(ctx).Warnf("Pull request lookup disabled: %v", err)
		} else {
			opts = append(opts, remediation.WithPullRequestFinder(finder))
		}
	}

	return remediation.NewDriver(
		source,
		remediation.NewDelegator(dc, cfg.Repository),
		devin.NewMonitor(dc, cfg.monitorOptions()...),
		opts...,
	)
}

// report logs the per-outcome counts and appends a markdown table to the
// GitHub Actions step summary when one is available.
func report(ctx context.Context, cfg *config, summary *remediation.Summary) {
	if summary == nil {
		return
	}
	log := clog.FromContext(ctx)
	log.With(
		"issues", len(summary.Results),
		"completed", summary.Count(remediation.OutcomeCompleted),
		"stopped", summary.Count(remediation.OutcomeStopped),
		"blocked", summary.Count(remediation.OutcomeBlocked),
		"timed_out", summary.Count(remediation.OutcomeTimedOut),
		"delegation_failed", summary.Count(remediation.OutcomeDelegationFailed),
		"monitor_failed", summary.Count(remediation.OutcomeMonitorFailed),
	).Info("Remediation run finished")

	if cfg.StepSummary == "" {
		return
	}
	f, err := os.OpenFile(cfg.StepSummary, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Warnf("Opening step summary: %v", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(summary.Markdown()); err != nil {
		log.Warnf("Writing step summary: %v", err)
	}
}
