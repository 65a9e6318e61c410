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

// Package physfix wires the core phases together: given a decoded token
// dump and a decoded unit-checker report, build every function's AST, CFG,
// and dependency graph, link the reported errors to them, and run the fix
// search over the elected root errors.
package physfix

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/squaresLab/physfix/config"
	"github.com/squaresLab/physfix/internal/cfg"
	"github.com/squaresLab/physfix/internal/cparse"
	"github.com/squaresLab/physfix/internal/depgraph"
	"github.com/squaresLab/physfix/internal/dump"
	"github.com/squaresLab/physfix/internal/errorlink"
	"github.com/squaresLab/physfix/internal/fixsearch"
	"github.com/squaresLab/physfix/internal/model"
	"github.com/squaresLab/physfix/internal/report"
	"github.com/squaresLab/physfix/internal/scopetree"
)

// Pipeline runs PhysFix's core phases over one decoded translation unit.
type Pipeline struct {
	Config config.Config
}

// NewPipeline returns a Pipeline with the given configuration.
func NewPipeline(cfg config.Config) *Pipeline {
	return &Pipeline{Config: cfg}
}

// FunctionResult is one function's built AST, CFG, and dependency graph.
type FunctionResult struct {
	Function *cparse.FunctionDecl
	CFG      *cfg.FunctionCFG
	Graph    *depgraph.Graph
}

// Result is the outcome of running the pipeline over a translation unit.
type Result struct {
	Functions []*FunctionResult
	Changes   []*fixsearch.Change
	Skipped   []fixsearch.Skipped
	LinkFails []errorlink.LinkFailure
}

// Run builds every function in u, links rpt's errors to the resulting
// dependency graphs, groups and elects root errors, and searches for a fix
// for each root error. Functions are independent once the scope tree has
// been built, so their AST/CFG/dependency-graph construction is fanned out
// across a bounded worker pool via errgroup.
func (p *Pipeline) Run(ctx context.Context, u *dump.Unit, rpt *report.Report) (*Result, error) {
	rootScopeID := findGlobalScope(u.Scopes)
	tree := scopetree.Build(u.Scopes, rootScopeID)

	results := make([]*FunctionResult, len(u.Functions))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, fn := range u.Functions {
		i, fn := i, fn
		g.Go(func() error {
			funcTree := tree.Copy()
			if fn.Scope != nil {
				if found, err := funcTree.FindByID(fn.Scope.ID); err == nil {
					funcTree = found
				}
			}

			roots := dump.RootTokens(fn.TokenStart, fn.TokenEnd)
			decl, err := cparse.BuildFunction(fn, roots, funcTree)
			if err != nil {
				return fmt.Errorf("physfix: building %s: %w", fn.Name, err)
			}

			fcfg, err := cfg.Build(decl)
			if err != nil {
				return fmt.Errorf("physfix: cfg for %s: %w", fn.Name, err)
			}

			graph := depgraph.Build(fcfg)
			results[i] = &FunctionResult{Function: decl, CFG: fcfg, Graph: graph}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	graphs := make([]*depgraph.Graph, len(results))
	for i, r := range results {
		graphs[i] = r.Graph
	}

	linked, failures := errorlink.Link(rpt.Errors, graphs)
	groups := errorlink.ConnectedErrors(linked)

	roots := make([]*errorlink.Error, 0, len(groups))
	for _, group := range groups {
		if root := errorlink.RootOf(group); root != nil {
			roots = append(roots, root)
		}
	}

	params := fixsearch.Params{
		Variables:  rpt.VariableMap(),
		TokenUnits: rpt.TokenUnits,
		Depth:      p.Config.SearchDepth,
		MaxFixes:   p.Config.MaxFixes,
	}
	changes, skipped := fixsearch.Resolve(roots, params)

	return &Result{
		Functions: results,
		Changes:   changes,
		Skipped:   skipped,
		LinkFails: failures,
	}, nil
}

// findGlobalScope returns the ID of the one scope with no enclosing scope
// (the tokenizer reports the global scope's nestedIn as empty), the root
// every function's scope tree hangs from.
func findGlobalScope(scopes []*model.Scope) string {
	for _, s := range scopes {
		if s.NestedInID == "" {
			return s.ID
		}
	}
	return ""
}
