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

package model

// StatementTokens returns the tokens of the operator tree rooted at root, in
// inorder (left operand, root, right operand). A leaf token (no operands)
// returns a single-element slice.
func StatementTokens(root *Token) []Token {
	if root == nil {
		return nil
	}
	if root.AstOperand1 == nil && root.AstOperand2 == nil {
		return []Token{*root}
	}

	var out []Token
	out = append(out, StatementTokens(root.AstOperand1)...)
	out = append(out, *root)
	out = append(out, StatementTokens(root.AstOperand2)...)
	return out
}

// StatementTokenPtrs is StatementTokens but returns the original token
// pointers (needed whenever the caller must keep identity, e.g. to compare
// against a reported error token ID).
func StatementTokenPtrs(root *Token) []*Token {
	if root == nil {
		return nil
	}
	if root.AstOperand1 == nil && root.AstOperand2 == nil {
		return []*Token{root}
	}

	var out []*Token
	out = append(out, StatementTokenPtrs(root.AstOperand1)...)
	out = append(out, root)
	out = append(out, StatementTokenPtrs(root.AstOperand2)...)
	return out
}

// VarsInStatement returns, in first-occurrence order, the distinct variables
// referenced by tokens.
func VarsInStatement(tokens []*Token) []*Variable {
	seen := make(map[string]bool, len(tokens))
	var out []*Variable
	for _, t := range tokens {
		if !t.IsVariable() {
			continue
		}
		if seen[t.Variable.ID] {
			continue
		}
		seen[t.Variable.ID] = true
		out = append(out, t.Variable)
	}
	return out
}

// SplitAssignment splits a statement's inorder token list at the first "="
// token, returning the LHS and RHS (the RHS includes the "=" itself). ok is
// false if no "=" token is present, in which case the statement is not an
// assignment.
func SplitAssignment(tokens []*Token) (lhs, rhs []*Token, ok bool) {
	for i, t := range tokens {
		if t.Str == "=" {
			return tokens[:i], tokens[i:], true
		}
	}
	return nil, nil, false
}

// TokensToStrings projects a token list down to its textual content, mostly
// useful for tests and diagnostics.
func TokensToStrings(tokens []*Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Str
	}
	return out
}

// ContainsJump reports whether any token in the statement rooted at root is
// a break/continue/return keyword.
func ContainsJump(root *Token) (kind string, ok bool) {
	for _, t := range StatementTokenPtrs(root) {
		switch t.Str {
		case "break", "continue", "return":
			return t.Str, true
		}
	}
	return "", false
}
