/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// template is unexported so that only untyped string constants, in practice
// literals written by the developer, can be passed to NewPrompt.
type template string

// Prompt is a parsed template together with the values bound so far.
type Prompt struct {
	segments []segment
	bindings map[string]binding
}

// NewPrompt parses a template literal.
func NewPrompt(tmpl template) (*Prompt, error) {
	segs, err := parse(string(tmpl))
	if err != nil {
		return nil, err
	}
	bindings := make(map[string]binding)
	for _, s := range segs {
		if s.placeholder != "" {
			bindings[s.placeholder] = nil
		}
	}
	return &Prompt{segments: segs, bindings: bindings}, nil
}

// MustNewPrompt is NewPrompt for package-level templates; it panics on error.
func MustNewPrompt(tmpl template) *Prompt {
	p, err := NewPrompt(tmpl)
	if err != nil {
		panic(err)
	}
	return p
}

// Placeholders returns the sorted names referenced by the template.
func (p *Prompt) Placeholders() []string {
	return slices.Sorted(maps.Keys(p.bindings))
}

// BindText substitutes value verbatim for the named placeholder.
func (p *Prompt) BindText(name, value string) (*Prompt, error) {
	return p.bind(name, textBinding(value))
}

// BindYAML substitutes the YAML encoding of data for the named placeholder.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, yamlBinding{data: data})
}

func (p *Prompt) bind(name string, b binding) (*Prompt, error) {
	current, ok := p.bindings[name]
	if !ok {
		return nil, fmt.Errorf("placeholder %q not found in template", name)
	}
	if current != nil {
		return nil, fmt.Errorf("placeholder %q already bound", name)
	}
	next := &Prompt{segments: p.segments, bindings: maps.Clone(p.bindings)}
	next.bindings[name] = b
	return next, nil
}

// Build renders the prompt. Every placeholder must be bound.
func (p *Prompt) Build() (string, error) {
	values := make(map[string]string, len(p.bindings))
	for name, b := range p.bindings {
		if b == nil {
			return "", fmt.Errorf("unbound placeholder: %s", name)
		}
		v, err := b.render()
		if err != nil {
			return "", fmt.Errorf("render %q: %w", name, err)
		}
		values[name] = v
	}

	var sb strings.Builder
	for _, s := range p.segments {
		if s.placeholder == "" {
			sb.WriteString(s.text)
			continue
		}
		sb.WriteString(values[s.placeholder])
	}
	return sb.String(), nil
}
