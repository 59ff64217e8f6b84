/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package devin talks to the Devin v1 HTTP API: it creates agent sessions
// from a prompt and follows a session's status until it settles.
//
// # Sessions
//
// Client.CreateSession issues POST {base}/sessions with the body
// {"prompt": ..., "idempotent": true}. Client.GetSession issues
// GET {base}/session/{id}. Both expect the caller's *http.Client to attach the
// API key as a bearer token.
//
// # Monitoring
//
// Monitor.Wait polls GetSession at a fixed interval. The status_enum field
// drives a small state machine:
//
//	completed, stopped  -> return the final status
//	blocked             -> ErrBlocked
//	anything else       -> sleep, poll again
//
// A non-success HTTP status while polling ends monitoring with an *APIError.
// WithMaxPolls and WithTimeout bound the wait; exceeding either ends it with
// ErrTimedOut. With neither set Wait polls until the session settles or ctx is
// done.
package devin
