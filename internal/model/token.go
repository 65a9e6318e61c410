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

// Package model defines the read-only token/scope/variable view produced by
// the external tokenizer and consumed by every later phase of PhysFix. None
// of the types here are ever mutated once the dump has been loaded.
package model

// Token is one node of the parser's flat token stream, doubling as a node of
// an operator tree via AstOperand1/AstOperand2/AstParent. Both views share
// the same Token values: Next/Previous walk the tokens in source order,
// while AstOperand*/AstParent walk the expression tree rooted at a
// statement's top-level operator.
type Token struct {
	ID      string
	Str     string
	Line    int
	ScopeID string

	// Seq is the token's 0-based position in lexical (source) order, as
	// assigned when the dump is loaded. It gives a total order cheaper and
	// safer to compare than ID (IDs are opaque parser-assigned strings with
	// no guaranteed ordering), and is used wherever PhysFix must reason
	// about "before"/"after" in the lexical stream: switch-case body
	// partitioning and collecting a nested scope's root tokens
	// (internal/cparse).
	Seq int

	AstOperand1 *Token
	AstOperand2 *Token
	AstParent   *Token

	Next     *Token
	Previous *Token

	// Variable is non-nil when this token is an occurrence (use or def) of a
	// variable identifier.
	Variable *Variable
}

// IsVariable reports whether t is an occurrence of a variable.
func (t *Token) IsVariable() bool {
	return t != nil && t.Variable != nil
}

// Root walks AstParent pointers up to the top of the operator tree
// containing t.
func (t *Token) Root() *Token {
	cur := t
	for cur.AstParent != nil {
		cur = cur.AstParent
	}
	return cur
}

// Variable identifies one C/C++ variable by its parser-assigned ID and the
// token at its declaration/name site.
type Variable struct {
	ID        string
	NameToken *Token
}

// Name returns the variable's source identifier.
func (v *Variable) Name() string {
	if v == nil || v.NameToken == nil {
		return ""
	}
	return v.NameToken.Str
}

// ScopeType is the kind of lexical scope a Scope represents.
type ScopeType string

// Recognized scope types. Only Function/If/Else/While/For/Switch participate
// in AST reconstruction (C3); any other scope type (e.g. Class, Try) is
// carried in the tree but never addressed by the AST builder.
const (
	ScopeFunction ScopeType = "Function"
	ScopeIf       ScopeType = "If"
	ScopeElse     ScopeType = "Else"
	ScopeWhile    ScopeType = "While"
	ScopeFor      ScopeType = "For"
	ScopeSwitch   ScopeType = "Switch"
)

// Scope is a lexical block as reported by the tokenizer: the span of tokens
// between ClassStart and ClassEnd, nested inside the scope named by
// NestedInID.
type Scope struct {
	ID         string
	Type       ScopeType
	ClassStart *Token
	ClassEnd   *Token
	NestedInID string
}

// Function is a function declaration: its name, the span of tokens making up
// its body, the Scope it owns, and its formal arguments in declaration
// order.
type Function struct {
	Name       string
	TokenStart *Token
	TokenEnd   *Token
	Scope      *Scope
	Arguments  []*Variable
}
