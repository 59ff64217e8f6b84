/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder_test

import (
	"fmt"

	"chainguard.dev/remediator/agents/promptbuilder"
)

func ExamplePrompt_BindText() {
	p := promptbuilder.MustNewPrompt("Create a branch named '{{branch}}'.")
	p, err := p.BindText("branch", "devin/AX-1-fix-vulnerability")
	if err != nil {
		panic(err)
	}
	out, err := p.Build()
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output: Create a branch named 'devin/AX-1-fix-vulnerability'.
}
