// Copyright (c) 2024 The PhysFix Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cparse

import (
	"fmt"

	"github.com/squaresLab/physfix/internal/model"
	"github.com/squaresLab/physfix/internal/scopetree"
)

// switchCase is one `case`/`default` arm while it is still being desugared.
// It never escapes this package: by the time parseSwitch returns, every
// switch has become a chain of If statements.
type switchCase struct {
	Match    *model.Token // nil for `default`
	Body     []Statement
	HasBreak bool
}

// parseSwitch desugars `switch (expr) { case a: ...; case b: ...; }` into a
// chain of If statements, so that the rest of the pipeline never has to
// special-case switch at all. Fallthrough (a case lacking `break`) is
// resolved by splicing the following case's body onto the fallen-through
// case's own body before building the If chain: a case without `break`
// inherits the *following* case's statements, because control actually
// falls into that case.
func parseSwitch(rootTokens *[]*model.Token, tree *scopetree.Node) ([]Statement, error) {
	tok := (*rootTokens)[0]
	*rootTokens = (*rootTokens)[1:]

	switchScope := popScope(tree, model.ScopeSwitch)
	scopeID := switchScope.Scope.ID
	scopeEnd := switchScope.Scope.ClassEnd

	body := consumeInRange(rootTokens, scopeEnd)

	type label struct {
		match *model.Token // nil => default
		start *model.Token // the case/default keyword token itself
	}
	var labels []label
	for cur := switchScope.Scope.ClassStart.Next; cur != nil && cur.Seq < scopeEnd.Seq; cur = cur.Next {
		if cur.ScopeID != scopeID {
			continue
		}
		switch cur.Str {
		case "switch":
			return nil, &ErrNestedSwitch{Token: cur}
		case "case":
			labels = append(labels, label{match: cur.Next, start: cur})
		case "default":
			labels = append(labels, label{match: nil, start: cur})
		}
	}
	if len(labels) == 0 {
		panic(fmt.Sprintf("cparse: switch at token %s has no case/default labels", tok.ID))
	}

	cases := make([]switchCase, len(labels))
	for i, l := range labels {
		windowEnd := scopeEnd
		if i+1 < len(labels) {
			windowEnd = labels[i+1].start
		}

		var bucket []*model.Token
		for len(body) > 0 && body[0].Seq < windowEnd.Seq {
			bucket = append(bucket, body[0])
			body = body[1:]
		}

		stmts, err := buildStatements(&bucket, switchScope)
		if err != nil {
			return nil, fmt.Errorf("switch case at token %s: %w", l.start.ID, err)
		}

		_, hasBreak := scanTrailingJump(scopeID, windowEnd)
		cases[i] = switchCase{Match: l.match, Body: stmts, HasBreak: hasBreak}
	}

	propagateFallthrough(cases)

	// tok.AstOperand1 is the "switch" keyword token itself; the switched-on
	// expression is tok.AstOperand2.
	return switchToIf(tok.AstOperand2, cases), nil
}

// propagateFallthrough walks cases from the last to the first. The last
// case never needs its own trailing jump (there is no further case to fall
// into); every other case without `break`/`continue`/`return` has the next
// case's (already-propagated) body appended to its own.
func propagateFallthrough(cases []switchCase) {
	for i := len(cases) - 2; i >= 0; i-- {
		if !cases[i].HasBreak {
			cases[i].Body = append(append([]Statement{}, cases[i].Body...), cases[i+1].Body...)
		}
	}
}

// switchToIf builds the right-leaning If chain equivalent to the
// (fallthrough-resolved) case list: each case becomes `if (expr == match)
// body else <rest of the chain>`. `default` (match == nil) is unconditional,
// so its body is spliced in directly rather than wrapped in another If —
// there is no remaining condition left to test once the chain reaches it.
func switchToIf(expr *model.Token, cases []switchCase) []Statement {
	if len(cases) == 0 {
		return nil
	}
	head := cases[0]
	rest := cases[1:]

	if head.Match == nil {
		return head.Body
	}

	cond := &model.Token{Str: "==", AstOperand1: expr, AstOperand2: head.Match}
	elseBody := switchToIf(expr, rest)
	return []Statement{If{Cond: cond, True: head.Body, False: elseBody}}
}
