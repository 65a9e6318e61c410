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

// Package errorlink binds the unit checker's reported errors to the
// dependency-graph node they occurred at, then groups bound errors that
// are connected through the dependency graph and elects one "root" error
// per group.
package errorlink

import (
	"fmt"

	"github.com/squaresLab/physfix/internal/cfg"
	"github.com/squaresLab/physfix/internal/depgraph"
	"github.com/squaresLab/physfix/internal/model"
	"github.com/squaresLab/physfix/internal/report"
)

// Error is a unit-checker error bound to the specific function, CFG node,
// and dependency-graph node it occurred at.
type Error struct {
	RootTokenID  string
	ErrorTokenID string
	ErrorType    string

	RootToken  *model.Token
	ErrorToken *model.Token

	CFGNode        cfg.Node
	DependencyNode *depgraph.Node
	Graph          *depgraph.Graph
}

// LinkFailure records a reported error that could not be bound to any
// dependency graph node (e.g. the root token belongs to a node kind the
// unit checker never flags, or the report refers to a function PhysFix
// was not given a graph for).
type LinkFailure struct {
	RawError report.RawError
	Reason   string
}

func (f LinkFailure) Error() string {
	return fmt.Sprintf("errorlink: could not bind error at root token %s: %s", f.RawError.RootTokenID, f.Reason)
}

type binding struct {
	graph   *depgraph.Graph
	node    *depgraph.Node
	cfgNode cfg.Node
}

// Link binds each raw error to the dependency graph node whose root token
// matches the error's root_token_id. Rather than re-scan every dependency
// graph's every node for every error (an O(errors x graphs x nodes)
// quadratic scan), this builds a root_token_id index once and looks up
// each error in expected time.
func Link(raws []report.RawError, graphs []*depgraph.Graph) ([]*Error, []LinkFailure) {
	index := make(map[string]binding)
	for _, g := range graphs {
		for _, n := range g.Nodes {
			key, ok := rootTokenKey(n.CFGNode)
			if !ok {
				continue
			}
			if _, exists := index[key]; exists {
				continue // first match wins; any dependency node sharing this CFG node is an equally valid representative
			}
			index[key] = binding{graph: g, node: n, cfgNode: n.CFGNode}
		}
	}

	var errs []*Error
	var failures []LinkFailure
	for _, raw := range raws {
		b, ok := index[raw.RootTokenID]
		if !ok {
			failures = append(failures, LinkFailure{RawError: raw, Reason: "no dependency graph node roots a statement with this token id"})
			continue
		}

		e := &Error{
			RootTokenID:    raw.RootTokenID,
			ErrorTokenID:   raw.ErrorTokenID,
			ErrorType:      raw.ErrorType,
			CFGNode:        b.cfgNode,
			DependencyNode: b.node,
			Graph:          b.graph,
		}

		switch n := b.cfgNode.(type) {
		case *cfg.Basic:
			e.RootToken = n.Token
			for _, t := range model.StatementTokenPtrs(n.Token) {
				if t.ID == raw.ErrorTokenID {
					e.ErrorToken = t
					break
				}
			}
		case *cfg.Conditional:
			condRoot := n.Condition.Root()
			e.RootToken = condRoot.AstOperand2
			e.ErrorToken = e.RootToken
		}

		errs = append(errs, e)
	}

	return errs, failures
}

// rootTokenKey returns the token id a dependency-graph node's owning CFG
// node is rooted at, if that CFG node kind can ever be an error site (only
// basic and conditional blocks are).
func rootTokenKey(n cfg.Node) (string, bool) {
	switch b := n.(type) {
	case *cfg.Basic:
		return b.Token.ID, true
	case *cfg.Conditional:
		return b.Condition.Root().ID, true
	default:
		return "", false
	}
}
