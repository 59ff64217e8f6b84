/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package devin

import (
	"errors"
	"fmt"
)

// Status is the value of a session's status_enum field.
type Status string

const (
	StatusRunning   Status = "running"
	StatusWorking   Status = "working"
	StatusBlocked   Status = "blocked"
	StatusCompleted Status = "completed"
	StatusStopped   Status = "stopped"
)

// Terminal reports whether no further polling is meaningful.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusStopped, StatusBlocked:
		return true
	}
	return false
}

var (
	// ErrBlocked means the agent stopped to wait for a human.
	ErrBlocked = errors.New("session is blocked and needs manual attention")

	// ErrTimedOut means the session did not settle within the configured bound.
	ErrTimedOut = errors.New("timed out waiting for session")

	// ErrMissingSessionID means a successful create response had no session_id.
	ErrMissingSessionID = errors.New("create session response has no session_id")
)

// CreateSessionRequest is the body of POST /sessions.
type CreateSessionRequest struct {
	Prompt     string `json:"prompt"`
	Idempotent bool   `json:"idempotent"`
}

// Session describes a newly created session.
type Session struct {
	ID           string `json:"session_id"`
	URL          string `json:"url,omitempty"`
	IsNewSession *bool  `json:"is_new_session,omitempty"`
}

// PullRequest is the pull request a session reports having opened.
type PullRequest struct {
	URL string `json:"url"`
}

// SessionStatus is a single read of GET /session/{id}.
type SessionStatus struct {
	SessionID   string       `json:"session_id"`
	Status      string       `json:"status,omitempty"`
	StatusEnum  Status       `json:"status_enum"`
	Title       string       `json:"title,omitempty"`
	PullRequest *PullRequest `json:"pull_request,omitempty"`
}

// PullRequestURL returns the reported pull request URL, if any.
func (s *SessionStatus) PullRequestURL() string {
	if s == nil || s.PullRequest == nil {
		return ""
	}
	return s.PullRequest.URL
}

// APIError is returned when the API answers with a non-success status.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("devin %s returned status %d: %s", e.Op, e.StatusCode, e.Body)
}
