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

// ErrNestedSwitch is returned when a switch statement is found lexically
// nested inside another switch's own body. PhysFix's fix strategies never
// need to reason about nested switches, so rather than attempt it the
// builder reports this distinctly from other structural errors.
type ErrNestedSwitch struct {
	Token *model.Token
}

func (e *ErrNestedSwitch) Error() string {
	return fmt.Sprintf("cparse: switch at token %s is nested inside another switch", e.Token.ID)
}

// BuildFunction parses fn's body into a FunctionDecl. rootTokens is the
// sequence of top-level (root-of-operator-tree) statement tokens spanning
// the function body, in lexical order. tree is this function's own copy of
// the scope tree: callers must pass a copy, never share a tree across
// functions parsed concurrently.
func BuildFunction(fn *model.Function, rootTokens []*model.Token, tree *scopetree.Node) (*FunctionDecl, error) {
	body, err := buildStatements(&rootTokens, tree)
	if err != nil {
		return nil, fmt.Errorf("cparse: function %s: %w", fn.Name, err)
	}
	return &FunctionDecl{
		Name:       fn.Name,
		TokenStart: fn.TokenStart,
		TokenEnd:   fn.TokenEnd,
		Scope:      fn.Scope,
		ScopeTree:  tree,
		Arguments:  fn.Arguments,
		Body:       body,
	}, nil
}

// buildStatements consumes every root token in *rootTokens, in order,
// dispatching each to the right statement parser and popping the
// corresponding scope-tree child when the statement owns a nested scope
// (if/while/for/switch). tree is mutated (its Children shrink) as scopes are
// consumed; this is the pop-based traversal scopetree.Node.PopFirst exists
// for.
func buildStatements(rootTokens *[]*model.Token, tree *scopetree.Node) ([]Statement, error) {
	var out []Statement
	for len(*rootTokens) > 0 {
		tok := (*rootTokens)[0]
		stmts, err := buildOne(rootTokens, tree)
		if err != nil {
			return nil, fmt.Errorf("at token %s (line %d): %w", tok.ID, tok.Line, err)
		}
		out = append(out, stmts...)
	}
	return out, nil
}

// buildOne consumes and parses exactly one source statement from the front
// of *rootTokens (an if/while/for/switch may consume several additional
// lexical tokens beyond its own root token, but always exactly one leading
// root token of *rootTokens). It can return more than one Statement only
// for a desugared for-loop (an initializer Block plus a While).
func buildOne(rootTokens *[]*model.Token, tree *scopetree.Node) ([]Statement, error) {
	tok := (*rootTokens)[0]

	kind := ""
	if tok.AstOperand1 != nil {
		kind = tok.AstOperand1.Str
	}

	switch kind {
	case "if":
		stmt, err := parseIf(rootTokens, tree)
		if err != nil {
			return nil, err
		}
		return []Statement{stmt}, nil
	case "while":
		stmt, err := parseWhile(rootTokens, tree)
		if err != nil {
			return nil, err
		}
		return []Statement{stmt}, nil
	case "for":
		return parseFor(rootTokens, tree)
	case "switch":
		return parseSwitch(rootTokens, tree)
	default:
		*rootTokens = (*rootTokens)[1:]
		return []Statement{Block{Root: tok}}, nil
	}
}

// popScope pops the next scope-tree child and verifies its type, panicking
// (a structural violation, not a recoverable error: the scope tree and the
// token stream disagreeing about what kind of statement comes next means an
// upstream collaborator produced an inconsistent dump) if it does not match.
func popScope(tree *scopetree.Node, want model.ScopeType) *scopetree.Node {
	child := tree.PopFirst()
	if child == nil {
		panic(fmt.Sprintf("cparse: expected a nested %s scope but the scope tree is exhausted", want))
	}
	if child.Scope.Type != want {
		panic(fmt.Sprintf("cparse: expected a nested %s scope, got %s (scope %s)", want, child.Scope.Type, child.Scope.ID))
	}
	return child
}

// consumeInRange removes and returns, in order, every leading element of
// *rootTokens whose Seq precedes end's Seq (exclusive): the root tokens
// that make up one nested scope's body.
func consumeInRange(rootTokens *[]*model.Token, end *model.Token) []*model.Token {
	var out []*model.Token
	for len(*rootTokens) > 0 && (*rootTokens)[0].Seq < end.Seq {
		out = append(out, (*rootTokens)[0])
		*rootTokens = (*rootTokens)[1:]
	}
	return out
}

// scanTrailingJump reports whether the case body ending just before end,
// within the scope scopeID, holds a break/continue/return, and if so which
// keyword. It walks end.Previous backward while still inside scopeID and
// stops at the body's own case/default label, so a jump belonging to an
// earlier case is never reported.
func scanTrailingJump(scopeID string, end *model.Token) (string, bool) {
	cur := end.Previous
	for cur != nil && cur.ScopeID == scopeID {
		if cur.Str == "break" || cur.Str == "continue" || cur.Str == "return" {
			return cur.Str, true
		}
		if cur.Str == "case" || cur.Str == "default" {
			break
		}
		cur = cur.Previous
	}
	return "", false
}

func parseIf(rootTokens *[]*model.Token, tree *scopetree.Node) (Statement, error) {
	tok := (*rootTokens)[0]
	*rootTokens = (*rootTokens)[1:]

	ifScope := popScope(tree, model.ScopeIf)
	trueBody := consumeInRange(rootTokens, ifScope.Scope.ClassEnd)
	trueStmts, err := buildStatements(&trueBody, ifScope)
	if err != nil {
		return nil, fmt.Errorf("if-branch: %w", err)
	}

	var falseStmts []Statement
	if ifScope.Else != nil {
		elseBody := consumeInRange(rootTokens, ifScope.Else.Scope.ClassEnd)
		falseStmts, err = buildStatements(&elseBody, ifScope.Else)
		if err != nil {
			return nil, fmt.Errorf("else-branch: %w", err)
		}
	}

	// tok.AstOperand1 is the "if" keyword token itself (that is what buildOne
	// dispatched on); the condition expression is tok.AstOperand2.
	return If{Cond: tok.AstOperand2, True: trueStmts, False: falseStmts}, nil
}

func parseWhile(rootTokens *[]*model.Token, tree *scopetree.Node) (Statement, error) {
	tok := (*rootTokens)[0]
	*rootTokens = (*rootTokens)[1:]

	whileScope := popScope(tree, model.ScopeWhile)
	body := consumeInRange(rootTokens, whileScope.Scope.ClassEnd)
	stmts, err := buildStatements(&body, whileScope)
	if err != nil {
		return nil, fmt.Errorf("while-body: %w", err)
	}
	// tok.AstOperand1 is the "while" keyword token itself; the condition
	// expression is tok.AstOperand2.
	return While{Cond: tok.AstOperand2, Body: stmts}, nil
}

// parseFor desugars `for (init; cond; update) body` into
// [Block(init), While(cond, body + [Block(update)])].
func parseFor(rootTokens *[]*model.Token, tree *scopetree.Node) ([]Statement, error) {
	tok := (*rootTokens)[0]
	*rootTokens = (*rootTokens)[1:]

	// astOperand1 of a "for" token is the "for" keyword token itself;
	// astOperand2 holds the init;cond;update triple, chained through a pair
	// of ";" operators: (init ; (cond ; update)).
	header := tok.AstOperand2
	if header == nil || header.Str != ";" {
		panic("cparse: malformed for-statement header")
	}
	initTok := header.AstOperand1
	rest := header.AstOperand2
	if rest == nil || rest.Str != ";" {
		panic("cparse: malformed for-statement header")
	}
	condTok := rest.AstOperand1
	updateTok := rest.AstOperand2

	forScope := popScope(tree, model.ScopeFor)
	body := consumeInRange(rootTokens, forScope.Scope.ClassEnd)
	stmts, err := buildStatements(&body, forScope)
	if err != nil {
		return nil, fmt.Errorf("for-body: %w", err)
	}

	var out []Statement
	if initTok != nil {
		out = append(out, Block{Root: initTok})
	}
	whileBody := stmts
	if updateTok != nil {
		whileBody = append(whileBody, Block{Root: updateTok})
	}
	out = append(out, While{Cond: condTok, Body: whileBody})
	return out, nil
}
