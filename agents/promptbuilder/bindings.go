/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// binding renders the value substituted for a placeholder.
type binding interface {
	render() (string, error)
}

type textBinding string

func (t textBinding) render() (string, error) {
	return string(t), nil
}

type yamlBinding struct {
	data any
}

func (y yamlBinding) render() (string, error) {
	b, err := yaml.Marshal(y.data)
	if err != nil {
		return "", fmt.Errorf("marshal YAML: %w", err)
	}
	return strings.TrimRight(string(b), "\n"), nil
}
