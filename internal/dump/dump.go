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

// Package dump decodes the external tokenizer's XML token/scope dump into
// the internal/model graph every later phase consumes. This is a pure
// boundary format — PhysFix never invokes the tokenizer itself — so this
// package uses the standard library's encoding/xml rather than a
// third-party parser: encoding/xml's
// struct-tag decoding is the idiomatic fit for a fixed, known element shape
// like this one.
package dump

import (
	"encoding/xml"
	"fmt"

	"github.com/squaresLab/physfix/internal/model"
)

type rawToken struct {
	ID          string `xml:"id,attr"`
	Str         string `xml:"str,attr"`
	Line        int    `xml:"linenr,attr"`
	ScopeID     string `xml:"scope,attr"`
	AstOperand1 string `xml:"astOperand1,attr"`
	AstOperand2 string `xml:"astOperand2,attr"`
	AstParent   string `xml:"astParent,attr"`
	VariableID  string `xml:"variable,attr"`
}

type rawScope struct {
	ID         string `xml:"id,attr"`
	Type       string `xml:"type,attr"`
	NestedInID string `xml:"nestedIn,attr"`
	ClassStart string `xml:"classStart,attr"`
	ClassEnd   string `xml:"classEnd,attr"`
	FunctionID string `xml:"function,attr"`
}

type rawVariable struct {
	ID        string `xml:"id,attr"`
	NameToken string `xml:"nameToken,attr"`
}

type rawFunction struct {
	ID         string   `xml:"id,attr"`
	Name       string   `xml:"name,attr"`
	TokenDef   string   `xml:"tokenDef,attr"`
	ScopeID    string   `xml:"scope,attr"`
	ArgumentID []string `xml:"argument>id"`
}

type rawDump struct {
	XMLName xml.Name      `xml:"dump"`
	Tokens  []rawToken    `xml:"tokenlist>token"`
	Scopes  []rawScope    `xml:"scopes>scope"`
	Vars    []rawVariable `xml:"variables>var"`
	Funcs   []rawFunction `xml:"functions>function"`
}

// Unit is one decoded translation unit: every token, scope, and function
// the tokenizer reported, cross-linked into the internal/model graph.
type Unit struct {
	Tokens    map[string]*model.Token
	Scopes    []*model.Scope
	Variables map[string]*model.Variable
	Functions []*model.Function
}

// Decode parses a tokenizer XML dump.
func Decode(data []byte) (*Unit, error) {
	var raw rawDump
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("dump: %w", err)
	}

	tokens := make(map[string]*model.Token, len(raw.Tokens))
	for i, t := range raw.Tokens {
		tokens[t.ID] = &model.Token{ID: t.ID, Str: t.Str, Line: t.Line, ScopeID: t.ScopeID, Seq: i}
	}
	for i, t := range raw.Tokens {
		tok := tokens[t.ID]
		if t.AstOperand1 != "" {
			tok.AstOperand1 = tokens[t.AstOperand1]
		}
		if t.AstOperand2 != "" {
			tok.AstOperand2 = tokens[t.AstOperand2]
		}
		if t.AstParent != "" {
			tok.AstParent = tokens[t.AstParent]
		}
		if i > 0 {
			tok.Previous = tokens[raw.Tokens[i-1].ID]
		}
		if i+1 < len(raw.Tokens) {
			tok.Next = tokens[raw.Tokens[i+1].ID]
		}
	}

	variables := make(map[string]*model.Variable, len(raw.Vars))
	for _, v := range raw.Vars {
		variables[v.ID] = &model.Variable{ID: v.ID, NameToken: tokens[v.NameToken]}
	}
	for _, t := range raw.Tokens {
		if t.VariableID == "" {
			continue
		}
		if v, ok := variables[t.VariableID]; ok {
			tokens[t.ID].Variable = v
		}
	}

	scopeByID := make(map[string]*model.Scope, len(raw.Scopes))
	scopes := make([]*model.Scope, 0, len(raw.Scopes))
	for _, s := range raw.Scopes {
		scope := &model.Scope{
			ID:         s.ID,
			Type:       model.ScopeType(s.Type),
			ClassStart: tokens[s.ClassStart],
			ClassEnd:   tokens[s.ClassEnd],
			NestedInID: s.NestedInID,
		}
		scopeByID[s.ID] = scope
		scopes = append(scopes, scope)
	}

	funcByID := make(map[string]rawFunction, len(raw.Funcs))
	for _, f := range raw.Funcs {
		funcByID[f.ID] = f
	}

	// A function is a Scope of Type "Function"; its classStart/classEnd
	// delimit the body, and its "function" attribute references the
	// <function> element carrying the name and argument list — the same
	// scope.function indirection get_functions follows in the reference
	// implementation.
	var functions []*model.Function
	for _, s := range raw.Scopes {
		if model.ScopeType(s.Type) != model.ScopeFunction {
			continue
		}
		scope := scopeByID[s.ID]
		fn := &model.Function{
			TokenStart: scope.ClassStart,
			TokenEnd:   scope.ClassEnd,
			Scope:      scope,
		}
		if f, ok := funcByID[s.FunctionID]; ok {
			fn.Name = f.Name
			for _, argID := range f.ArgumentID {
				if v, ok := variables[argID]; ok {
					fn.Arguments = append(fn.Arguments, v)
				}
			}
		}
		functions = append(functions, fn)
	}

	return &Unit{Tokens: tokens, Scopes: scopes, Variables: variables, Functions: functions}, nil
}
