/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package sonarcloud

import "fmt"

// Issue is a single finding reported by SonarCloud.
type Issue struct {
	Key       string `json:"key"`
	Message   string `json:"message"`
	Component string `json:"component"`
	Project   string `json:"project,omitempty"`
	Rule      string `json:"rule,omitempty"`
	Severity  string `json:"severity,omitempty"`
	Type      string `json:"type,omitempty"`
	Status    string `json:"status,omitempty"`
	Line      int    `json:"line,omitempty"`
}

// Paging describes the position of a response within the full result set.
type Paging struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
	Total     int `json:"total"`
}

type searchResponse struct {
	Paging Paging  `json:"paging"`
	Issues []Issue `json:"issues"`
}

// APIError is returned when SonarCloud answers with a non-success status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sonarcloud returned status %d: %s", e.StatusCode, e.Body)
}
