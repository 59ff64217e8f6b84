/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package sonarcloud lists open vulnerability findings from the SonarCloud
// issues API.
//
// The Client sends GET {base}/issues/search filtered to type VULNERABILITY and
// status OPEN, following result pages until the reported total is reached.
// Authentication is the caller's concern: pass an *http.Client whose
// transport attaches the bearer token, for example one built from an
// oauth2.StaticTokenSource.
//
//	c := sonarcloud.New("my-org", "my-org_my-project",
//	    sonarcloud.WithHTTPClient(authed),
//	)
//	issues, err := c.OpenVulnerabilities(ctx)
//
// A non-success HTTP status yields no issues and an *APIError carrying the
// status code and the response body.
package sonarcloud
