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

// Package cparse reconstructs per-function ASTs out of a flat stream of root
// tokens and a scope tree. For/switch are always desugared before a
// Statement is handed back to the caller, so a well-formed function body
// built by this package only ever contains Block/If/While statements.
package cparse

import (
	"github.com/squaresLab/physfix/internal/model"
	"github.com/squaresLab/physfix/internal/scopetree"
)

// Statement is the tagged-union supertype for one statement in a function
// body.
type Statement interface {
	Kind() string
}

// Block is a straight-line expression, declaration, jump, or call statement,
// named by the root token of its operator tree.
type Block struct {
	Root *model.Token
}

// Kind implements Statement.
func (Block) Kind() string { return "block" }

// If is a conditional with a (possibly empty) true and false body.
type If struct {
	Cond  *model.Token
	True  []Statement
	False []Statement
}

// Kind implements Statement.
func (If) Kind() string { return "if" }

// While is a loop with a condition and body. For loops are always
// represented as a Block initializer followed by a While once desugared.
type While struct {
	Cond *model.Token
	Body []Statement
}

// Kind implements Statement.
func (While) Kind() string { return "while" }

// FunctionDecl is a single function's parsed body, along with everything the
// CFG builder (C4) needs to lower it.
type FunctionDecl struct {
	Name       string
	TokenStart *model.Token
	TokenEnd   *model.Token
	Scope      *model.Scope
	ScopeTree  *scopetree.Node
	Arguments  []*model.Variable
	Body       []Statement
}
