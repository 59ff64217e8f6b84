/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder composes natural-language task descriptions from
developer-authored templates and runtime values.

Templates use {{name}} placeholders. A template is parsed once, when it is
created, into literal text and placeholder segments. Values are substituted
in a single pass at Build time, so text bound to one placeholder is never
scanned for further placeholders.

	var tmpl = promptbuilder.MustNewPrompt(`Fix {{message}} in {{file}}.`)

	p, err := tmpl.BindText("message", issue.Message)
	if err != nil {
		return err
	}
	p, err = p.BindText("file", issue.Component)
	if err != nil {
		return err
	}
	text, err := p.Build()

Placeholder names must start with a letter and contain only letters, digits
and underscores. Binding an unknown name, binding a name twice, and building
with an unbound name are all errors.

Structured values can be rendered as YAML with BindYAML.

Prompts are immutable: every Bind method returns a new Prompt, so a
package-level template can be shared between goroutines.
*/
package promptbuilder
