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

// Package dataflow computes def/use facts and reaching definitions over a
// function's control flow graph.
package dataflow

import (
	"github.com/squaresLab/physfix/internal/cfg"
	"github.com/squaresLab/physfix/internal/model"
)

// DefUsePair records the variables a single CFG node defines and uses.
type DefUsePair struct {
	Node   cfg.Node
	Define []*model.Variable
	Use    []*model.Variable
}

// DefUse computes a DefUsePair for every node belonging to f.
func DefUse(f *cfg.FunctionCFG) map[cfg.Node]*DefUsePair {
	out := make(map[cfg.Node]*DefUsePair, len(f.Nodes))
	for _, n := range f.Nodes {
		out[n] = defUseOf(f, n)
	}
	return out
}

func defUseOf(f *cfg.FunctionCFG, n cfg.Node) *DefUsePair {
	pair := &DefUsePair{Node: n}

	switch b := n.(type) {
	case *cfg.Entry:
		pair.Define = append(pair.Define, b.Function.Arguments...)
	case *cfg.Basic:
		tokens := model.StatementTokenPtrs(b.Token)
		lhs, rhs, ok := model.SplitAssignment(tokens)
		if ok {
			pair.Define = model.VarsInStatement(lhs)
			pair.Use = model.VarsInStatement(rhs)
		} else {
			pair.Use = model.VarsInStatement(tokens)
		}
	case *cfg.Conditional:
		pair.Use = model.VarsInStatement(model.StatementTokenPtrs(b.Condition))
	}

	return pair
}
