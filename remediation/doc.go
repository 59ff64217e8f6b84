/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package remediation drives vulnerability remediation end to end: it lists
// open findings, hands each one to a coding agent as a natural-language task
// and follows the agent's session until it settles.
//
// The Driver processes issues in the order they were fetched. Expected
// failures (a rejected fetch, a rejected delegation, a blocked, timed out or
// unreadable session) are logged and recorded in the Summary; the run moves
// on to the next issue. Any other error aborts the run and is returned from
// Run.
//
// By default one issue is in flight at a time, so monitoring of issue N
// finishes before issue N+1 is delegated. WithConcurrency raises that limit;
// issues still start in fetch order and each delegate+monitor pair runs in its
// own goroutine.
package remediation
