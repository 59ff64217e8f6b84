/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package remediation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chainguard.dev/remediator/agents/devin"
	"chainguard.dev/remediator/agents/promptbuilder"
	"chainguard.dev/remediator/scanners/sonarcloud"
)

// CoAuthorTrailer is appended to every commit the agent writes.
const CoAuthorTrailer = "Co-authored-by: github-actions[bot] <github-actions[bot]@users.noreply.github.com>"

// ErrInvalidIssue is returned for issues lacking a key, message or component.
var ErrInvalidIssue = errors.New("invalid issue")

var taskPrompt = promptbuilder.MustNewPrompt(`Fix the following vulnerability in {{repository}}: {{message}} in file {{component}}.

Issue details:
{{details}}

1. Create a new branch named '{{branch}}'.
2. Implement the fix.
3. Write a detailed commit message explaining the changes:
    - Issue Key: {{key}}
    - Component: {{component}}
    - Fixed by Devin AI at {{fixed_at}}
    - Include '{{trailer}}'.
4. Push the branch to the remote repository.
5. Open a pull request with a description of the fix. Do not monitor the CI on GitHub. Once your pull request is open you may end your session.
`)

// SessionCreator creates agent sessions. *devin.Client implements it.
type SessionCreator interface {
	CreateSession(ctx context.Context, req devin.CreateSessionRequest) (*devin.Session, error)
}

// Delegator turns an issue into an agent task.
type Delegator struct {
	creator    SessionCreator
	repository string
	now        func() time.Time
}

// DelegatorOption customizes the Delegator.
type DelegatorOption func(*Delegator)

// WithClock sets the time source for the commit timestamp.
func WithClock(now func() time.Time) DelegatorOption {
	return func(d *Delegator) { d.now = now }
}

// NewDelegator returns a Delegator creating sessions against repository.
func NewDelegator(creator SessionCreator, repository string, opts ...DelegatorOption) *Delegator {
	d := &Delegator{
		creator:    creator,
		repository: repository,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// BranchName is the branch the agent is told to push its fix to.
func BranchName(issueKey string) string {
	return "devin/" + issueKey + "-fix-vulnerability"
}

type issueDetails struct {
	Key       string `yaml:"key"`
	Rule      string `yaml:"rule,omitempty"`
	Severity  string `yaml:"severity,omitempty"`
	Component string `yaml:"component"`
	Line      int    `yaml:"line,omitempty"`
	Message   string `yaml:"message"`
}

// Prompt renders the remediation instruction for issue.
func (d *Delegator) Prompt(issue sonarcloud.Issue) (string, error) {
	switch {
	case issue.Key == "":
		return "", fmt.Errorf("%w: empty key", ErrInvalidIssue)
	case issue.Message == "":
		return "", fmt.Errorf("%w: %s has an empty message", ErrInvalidIssue, issue.Key)
	case issue.Component == "":
		return "", fmt.Errorf("%w: %s has an empty component", ErrInvalidIssue, issue.Key)
	}

	p, err := bindAll(taskPrompt, map[string]string{
		"repository": d.repository,
		"message":    issue.Message,
		"component":  issue.Component,
		"branch":     BranchName(issue.Key),
		"key":        issue.Key,
		"fixed_at":   d.now().Format(time.RFC3339),
		"trailer":    CoAuthorTrailer,
	})
	if err != nil {
		return "", err
	}
	p, err = p.BindYAML("details", issueDetails{
		Key:       issue.Key,
		Rule:      issue.Rule,
		Severity:  issue.Severity,
		Component: issue.Component,
		Line:      issue.Line,
		Message:   issue.Message,
	})
	if err != nil {
		return "", err
	}
	return p.Build()
}

// Delegate submits the remediation task for issue as an idempotent session.
func (d *Delegator) Delegate(ctx context.Context, issue sonarcloud.Issue) (*devin.Session, error) {
	prompt, err := d.Prompt(issue)
	if err != nil {
		return nil, err
	}
	return d.creator.CreateSession(ctx, devin.CreateSessionRequest{
		Prompt:     prompt,
		Idempotent: true,
	})
}

func bindAll(p *promptbuilder.Prompt, values map[string]string) (*promptbuilder.Prompt, error) {
	for name, v := range values {
		var err error
		if p, err = p.BindText(name, v); err != nil {
			return nil, err
		}
	}
	return p, nil
}
