/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chainguard.dev/remediator/agents/devin"
	"chainguard.dev/remediator/scanners/sonarcloud"
	"github.com/sethvargo/go-envconfig"
)

type config struct {
	Repository string `env:"GITHUB_REPOSITORY"`
	SonarToken string `env:"SONAR_TOKEN"`
	DevinKey   string `env:"DEVIN_API_KEY"`

	SonarOrg        string `env:"SONAR_ORG"`
	SonarProjectKey string `env:"SONAR_PROJECT_KEY"`
	SonarAPIBase    string `env:"SONAR_API_BASE,default=https://sonarcloud.io/api"`
	SonarPageSize   int    `env:"SONAR_PAGE_SIZE,default=100"`

	DevinAPIBase   string        `env:"DEVIN_API_BASE,default=https://api.devin.ai/v1"`
	DevinRPS       float64       `env:"DEVIN_REQUESTS_PER_SECOND,default=0"`
	PollInterval   time.Duration `env:"POLL_INTERVAL,default=5s"`
	MaxPolls       int           `env:"MAX_POLLS,default=0"`
	SessionTimeout time.Duration `env:"SESSION_TIMEOUT,default=0"`

	MaxConcurrent int           `env:"MAX_CONCURRENT,default=1"`
	HTTPRetries   int           `env:"HTTP_RETRIES,default=0"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT,default=60s"`

	// Optional integrations.
	GitHubToken    string `env:"GITHUB_TOKEN"`
	PushgatewayURL string `env:"PUSHGATEWAY_URL"`
	StepSummary    string `env:"GITHUB_STEP_SUMMARY"`
}

// loadConfig reads the configuration through l, or the process environment
// when l is nil.
func loadConfig(ctx context.Context, l envconfig.Lookuper) (*config, error) {
	var cfg config
	if l == nil {
		l = envconfig.OsLookuper()
	}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *config) validate() error {
	var errs []error
	if c.MaxConcurrent < 1 {
		errs = append(errs, fmt.Errorf("MAX_CONCURRENT must be at least 1, got %d", c.MaxConcurrent))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval))
	}
	if c.MaxPolls < 0 {
		errs = append(errs, fmt.Errorf("MAX_POLLS must not be negative, got %d", c.MaxPolls))
	}
	if c.SessionTimeout < 0 {
		errs = append(errs, fmt.Errorf("SESSION_TIMEOUT must not be negative, got %s", c.SessionTimeout))
	}
	if c.HTTPRetries < 0 {
		errs = append(errs, fmt.Errorf("HTTP_RETRIES must not be negative, got %d", c.HTTPRetries))
	}
	if c.HTTPTimeout < 0 {
		errs = append(errs, fmt.Errorf("HTTP_TIMEOUT must not be negative, got %s", c.HTTPTimeout))
	}
	if c.DevinRPS < 0 {
		errs = append(errs, fmt.Errorf("DEVIN_REQUESTS_PER_SECOND must not be negative, got %v", c.DevinRPS))
	}
	if c.SonarPageSize < 1 || c.SonarPageSize > sonarcloud.MaxPageSize {
		errs = append(errs, fmt.Errorf("SONAR_PAGE_SIZE must be between 1 and %d, got %d", sonarcloud.MaxPageSize, c.SonarPageSize))
	}
	return errors.Join(errs...)
}

// missingCredentials names the credential variables that are empty. They are
// not required; the remote services reject the requests instead.
func (c *config) missingCredentials() []string {
	var missing []string
	for _, v := range []struct{ name, value string }{
		{"GITHUB_REPOSITORY", c.Repository},
		{"SONAR_TOKEN", c.SonarToken},
		{"DEVIN_API_KEY", c.DevinKey},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	return missing
}

func (c *config) monitorOptions() []devin.MonitorOption {
	return []devin.MonitorOption{
		devin.WithPollInterval(c.PollInterval),
		devin.WithMaxPolls(c.MaxPolls),
		devin.WithTimeout(c.SessionTimeout),
	}
}
